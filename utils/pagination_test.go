package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{"7", 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePage(tt.raw), "raw=%q", tt.raw)
	}
}

func TestNumPages(t *testing.T) {
	assert.Equal(t, 1, NumPages(0, 10))
	assert.Equal(t, 1, NumPages(10, 10))
	assert.Equal(t, 2, NumPages(11, 10))
	assert.Equal(t, 2, NumPages(15, 10))
	assert.Equal(t, 15, NumPages(15, 1))
	assert.Equal(t, 15, NumPages(15, 0))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 15)
	for i := range items {
		items[i] = i + 1
	}

	t.Run("first page is full and has a next page", func(t *testing.T) {
		page, info := Paginate(items, 1, 10)
		assert.Len(t, page, 10)
		assert.Equal(t, 1, page[0])
		assert.Equal(t, 1, info.Number)
		assert.Equal(t, 2, info.NumPages)
		assert.Equal(t, 15, info.Total)
		assert.True(t, info.HasNext)
		assert.False(t, info.HasPrevious)
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		page, info := Paginate(items, 2, 10)
		assert.Len(t, page, 5)
		assert.Equal(t, 11, page[0])
		assert.False(t, info.HasNext)
		assert.True(t, info.HasPrevious)
	})

	t.Run("page past the end clamps to the last page", func(t *testing.T) {
		page, info := Paginate(items, 99, 10)
		assert.Len(t, page, 5)
		assert.Equal(t, 2, info.Number)
	})

	t.Run("page below one clamps to the first page", func(t *testing.T) {
		page, info := Paginate(items, -1, 10)
		assert.Len(t, page, 10)
		assert.Equal(t, 1, info.Number)
	})

	t.Run("empty set yields a single empty page", func(t *testing.T) {
		page, info := Paginate([]int{}, 3, 10)
		assert.Empty(t, page)
		assert.Equal(t, 1, info.Number)
		assert.Equal(t, 1, info.NumPages)
		assert.False(t, info.HasNext)
	})
}
