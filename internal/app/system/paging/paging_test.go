package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, PageSize, NormalizeSize(0))
	assert.Equal(t, PageSize, NormalizeSize(-3))
	assert.Equal(t, PageSize, NormalizeSize(MaxPageSize+1))
	assert.Equal(t, 25, NormalizeSize(25))
}

func TestSlice(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		name string
		page int
		size int
		want []int
	}{
		{"first page", 0, 3, []int{0, 1, 2}},
		{"second page", 1, 3, []int{3, 4, 5}},
		{"last partial page", 2, 3, []int{6}},
		{"past the end", 3, 3, []int{}},
		{"negative page", -1, 3, []int{0, 1, 2}},
		{"size larger than rows", 0, 50, rows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slice(rows, tt.page, tt.size))
		})
	}
}

// Every page is exactly elements [i*p, i*p+p) of the input, clipped.
func TestSlice_MatchesWindow(t *testing.T) {
	rows := make([]int, 23)
	for i := range rows {
		rows[i] = i
	}
	for p := 1; p <= 25; p++ {
		for i := 0; i*p <= len(rows)+p; i++ {
			got := Slice(rows, i, p)
			start := i * p
			end := min(start+p, len(rows))
			if start >= len(rows) {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, rows[start:end], got, "p=%d i=%d", p, i)
		}
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		size  int
		total int
		want  Range
	}{
		{"no results", 0, 10, 0, Range{}},
		{"first page full", 0, 10, 25, Range{Start: 1, End: 10, Total: 25, Pages: 3, HasNext: true}},
		{"middle page", 1, 10, 25, Range{Start: 11, End: 20, Total: 25, Pages: 3, HasPrev: true, HasNext: true}},
		{"last partial page", 2, 10, 25, Range{Start: 21, End: 25, Total: 25, Pages: 3, HasPrev: true}},
		{"past the end", 5, 10, 25, Range{Total: 25, Pages: 3, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeRange(tt.page, tt.size, tt.total))
		})
	}
}
