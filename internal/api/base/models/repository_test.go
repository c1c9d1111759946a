package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipFor(t *testing.T) {
	skip, ok := SkipFor(1, 10)
	assert.True(t, ok)
	assert.Zero(t, skip)

	skip, ok = SkipFor(4, 25)
	assert.True(t, ok)
	assert.Equal(t, int64(75), skip)

	// biên: (page-1)*limit == MaxInt64 - (MaxInt64 % limit)
	skip, ok = SkipFor(math.MaxInt64/10+1, 10)
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64/10*10), skip)

	skip, ok = SkipFor(math.MaxInt64/10+2, 10)
	assert.False(t, ok)
	assert.Equal(t, int64(math.MaxInt64), skip)
}

func TestNewPaginateResult(t *testing.T) {
	r := NewPaginateResult[int](nil, 2, 10, 25)
	assert.Equal(t, []int{}, r.Items)
	assert.Equal(t, int64(3), r.TotalPage)
	assert.True(t, r.HasPrevPage)
	assert.True(t, r.HasNextPage)

	empty := NewPaginateResult([]int{}, 1, 10, 0)
	assert.Zero(t, empty.TotalPage)
	assert.False(t, empty.HasNextPage)
}
