package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/drawmatch/selection"
)

func TestSelections_Valid(t *testing.T) {
	rng := NewRNG(4711)

	for _, s := range rng.Selections(500) {
		require.NoError(t, s.Validate(), "%v", s)
	}
}

func TestRNG_Reproducible(t *testing.T) {
	a := NewRNG(1).Selections(10)
	b := NewRNG(1).Selections(10)
	assert.Equal(t, a, b)

	r := NewRNG(9)
	first := r.Selection()
	r.Reset()
	assert.Equal(t, first, r.Selection())
	assert.Equal(t, int64(9), r.Seed())
}

func TestMasks(t *testing.T) {
	for _, m := range NewRNG(3).Masks(100) {
		assert.True(t, m.Valid())
	}
}

func TestPlayerFile(t *testing.T) {
	file := PlayerFile([]selection.Selection{{1, 2, 3, 4, 5}, {90, 80, 70, 60, 50}})
	assert.Equal(t, "1 2 3 4 5\n90 80 70 60 50\n", file)
	assert.Equal(t, 2, strings.Count(file, "\n"))
}

func TestIntersection(t *testing.T) {
	assert.Equal(t, 5, Intersection(selection.Selection{1, 2, 3, 4, 5}, selection.Selection{5, 4, 3, 2, 1}))
	assert.Equal(t, 2, Intersection(selection.Selection{1, 2, 3, 4, 5}, selection.Selection{1, 2, 6, 7, 8}))
	assert.Equal(t, 0, Intersection(selection.Selection{1, 2, 3, 4, 5}, selection.Selection{6, 7, 8, 9, 10}))
}
