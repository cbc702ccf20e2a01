package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	type pair struct {
		major, minor int
	}
	compare := Chain(
		By(func(p pair) int { return p.major }, Ascending[int]),
		By(func(p pair) int { return p.minor }, Descending[int]),
	)

	assert.Negative(t, compare(pair{1, 0}, pair{2, 9}))
	assert.Negative(t, compare(pair{1, 9}, pair{1, 0}))
	assert.Positive(t, compare(pair{1, 0}, pair{1, 9}))
	assert.Zero(t, compare(pair{3, 3}, pair{3, 3}))
	assert.Zero(t, Chain[int]()(1, 2))
}

func TestPreferTrue(t *testing.T) {
	assert.Equal(t, -1, PreferTrue(true, false))
	assert.Equal(t, 1, PreferTrue(false, true))
	assert.Equal(t, 0, PreferTrue(true, true))
	assert.Equal(t, 0, PreferTrue(false, false))
}

func TestDescendingOptional(t *testing.T) {
	missing := optional{}
	low := optional{value: 1, ok: true}
	high := optional{value: 9, ok: true}

	assert.Negative(t, descendingOptional(high, low))
	assert.Positive(t, descendingOptional(low, high))
	assert.Negative(t, descendingOptional(low, missing))
	assert.Positive(t, descendingOptional(missing, high))
	assert.Zero(t, descendingOptional(missing, optional{value: 5}))
	assert.Zero(t, descendingOptional(low, low))
}

func TestSortStableLeavesInputAlone(t *testing.T) {
	items := []int{3, 1, 2}
	sorted := sortStable(items, func(_ int, v int) int { return v }, Ascending[int], func(v int) int { return v })

	assert.Equal(t, []int{1, 2, 3}, sorted)
	assert.Equal(t, []int{3, 1, 2}, items)
}

func TestSign(t *testing.T) {
	assert.Equal(t, -1, sign(-42))
	assert.Equal(t, 1, sign(7))
	assert.Equal(t, 0, sign(0))
}
