// Package scroll tracks the visible window of a line-oriented view.
package scroll

import "github.com/odvcencio/furry-notify/state"

// Viewport tracks the first visible line of scrollable content.
// The offset is published as a notifier so views can chain on it.
type Viewport struct {
	offset  *state.ValueNotifier[int]
	content int
	view    int
}

// NewViewport creates a viewport scrolled to the top.
func NewViewport() *Viewport {
	offset := state.NewValueNotifier(0)
	offset.SetEqualFunc(state.EqualComparable[int])
	return &Viewport{offset: offset}
}

// Offset exposes the first visible line.
func (v *Viewport) Offset() state.ValueListenable[int] {
	return v.offset
}

// SetViewHeight sets the number of visible lines.
func (v *Viewport) SetViewHeight(lines int) {
	v.view = max(lines, 0)
	v.clamp()
}

// SetContentHeight sets the total number of lines.
func (v *Viewport) SetContentHeight(lines int) {
	v.content = max(lines, 0)
	v.clamp()
}

// MaxOffset returns the largest valid offset.
func (v *Viewport) MaxOffset() int {
	return max(v.content-v.view, 0)
}

// ScrollTo moves the first visible line to line, clamped to content.
func (v *Viewport) ScrollTo(line int) {
	v.offset.SetValue(min(max(line, 0), v.MaxOffset()))
}

// ScrollBy moves the offset by delta lines.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.offset.Value() + delta)
}

// Follow scrolls the minimum amount needed to make line visible.
func (v *Viewport) Follow(line int) {
	if v.view <= 0 {
		return
	}
	offset := v.offset.Value()
	switch {
	case line < offset:
		v.ScrollTo(line)
	case line >= offset+v.view:
		v.ScrollTo(line - v.view + 1)
	}
}

// Visible returns the half-open line range [start, end) on screen.
func (v *Viewport) Visible() (start, end int) {
	start = v.offset.Value()
	end = min(start+v.view, v.content)
	return start, end
}

func (v *Viewport) clamp() {
	if v.offset.Value() > v.MaxOffset() {
		v.offset.SetValue(v.MaxOffset())
	}
}
