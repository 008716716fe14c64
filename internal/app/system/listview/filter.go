package listview

import (
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/eventstatus"
	"github.com/dalemusser/clubhub/internal/app/system/paging"
)

// Filter returns the rows whose derived status and date match s.
// The result preserves the relative order of rows.
func Filter[T any](rows []T, dateOf func(T) time.Time, s State, now time.Time) []T {
	day, hasDay := s.DateIn(now.Location())
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		d := dateOf(r)
		if s.Status != "" && eventstatus.Classify(now, d) != s.Status {
			continue
		}
		if hasDay && !eventstatus.SameDay(d, day, now.Location()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// View is one rendered page of a filtered list.
type View[T any] struct {
	Items []T
	Range paging.Range
	State State
}

// Build filters rows by s and slices out the current page.
func Build[T any](rows []T, dateOf func(T) time.Time, s State, now time.Time) View[T] {
	filtered := Filter(rows, dateOf, s, now)
	return View[T]{
		Items: paging.Slice(filtered, s.Page, s.PageSize),
		Range: paging.ComputeRange(s.Page, s.PageSize, len(filtered)),
		State: s,
	}
}
