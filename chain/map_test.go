package chain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/furry-notify/state"
)

func TestMap_EveryEmission(t *testing.T) {
	src := state.NewValueNotifier(0)
	n := Map("", src, strconv.Itoa)

	var seen []string
	n.AddListener(func() { seen = append(seen, n.Value()) })

	for _, v := range []int{1, 1, 2, 3, 3} {
		src.SetValue(v)
	}
	assert.Equal(t, []string{"1", "1", "2", "3", "3"}, seen, "no deduplication of equal results")
}

func TestMap_TransformPanicPropagates(t *testing.T) {
	src := state.NewValueNotifier(1)
	n := Map(0, src, func(v int) int {
		if v < 0 {
			panic("negative")
		}
		return v
	})
	n.AddListener(func() {})

	assert.PanicsWithValue(t, "negative", func() {
		src.SetValue(-1)
	})
}

func TestMap_RequiresArguments(t *testing.T) {
	src := state.NewValueNotifier(1)
	assert.Panics(t, func() { Map[int, int](0, nil, func(v int) int { return v }) })
	assert.Panics(t, func() { Map[int, int](0, src, nil) })
}
