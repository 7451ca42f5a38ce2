package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		page, size string
		want       PageRequest
		wantOffset int
	}{
		{name: "defaults", want: PageRequest{Page: 1, Size: 10}, wantOffset: 0},
		{name: "custom", page: "3", size: "20", want: PageRequest{Page: 3, Size: 20}, wantOffset: 40},
		{name: "negative page", page: "-2", size: "5", want: PageRequest{Page: 1, Size: 5}, wantOffset: 0},
		{name: "garbage", page: "abc", size: "xyz", want: PageRequest{Page: 1, Size: 10}, wantOffset: 0},
		{name: "size clamped", page: "1", size: "1000", want: PageRequest{Page: 1, Size: MaxSize}, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromQuery(tt.page, tt.size, 10)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOffset, got.Offset())
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 5, PageRequest{Page: 2, Size: 2})
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	last := NewPage([]int{5}, 5, PageRequest{Page: 3, Size: 2})
	assert.False(t, last.HasNext)

	empty := NewPage[int](nil, 0, PageRequest{Page: 1, Size: 10})
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
