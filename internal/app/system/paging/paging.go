// internal/app/system/paging/paging.go
package paging

// PageSize is the default number of rows shown in paged lists.
const PageSize = 10

// MaxPageSize caps client-requested page sizes.
const MaxPageSize = 100

// PageSizes lists the page sizes offered to clients.
var PageSizes = []int{5, 10, 25, 50, 100}

// NormalizeSize returns size if it is in (0, MaxPageSize], otherwise PageSize.
func NormalizeSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return PageSize
	}
	return size
}

// Slice returns rows[page*size : page*size+size], clipped to len(rows).
// A page past the end yields an empty (non-nil) slice. Negative pages are
// treated as page 0 and non-positive sizes as PageSize.
func Slice[T any](rows []T, page, size int) []T {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = PageSize
	}
	start := page * size
	if start >= len(rows) {
		return []T{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start   int // 1-based start index (0 if no results)
	End     int // 1-based end index (0 if no results)
	Total   int
	Pages   int
	HasPrev bool
	HasNext bool
}

// ComputeRange calculates display range values for page (0-based) of size
// over total rows.
func ComputeRange(page, size, total int) Range {
	if size <= 0 {
		size = PageSize
	}
	pages := (total + size - 1) / size
	r := Range{Total: total, Pages: pages, HasPrev: page > 0, HasNext: page+1 < pages}

	start := page * size
	if total == 0 || start >= total {
		return r
	}
	end := start + size
	if end > total {
		end = total
	}
	r.Start = start + 1
	r.End = end
	return r
}
