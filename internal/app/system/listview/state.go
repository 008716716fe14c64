// Package listview holds the server-side view state for filtered, paged
// event lists.
//
// One State value is authoritative for a view. It only changes through the
// With* transitions and Apply, which never mutate their receiver.
package listview

import (
	"errors"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/eventstatus"
	"github.com/dalemusser/clubhub/internal/app/system/paging"
)

// DateLayout is the wire format of the single-date filter.
const DateLayout = "2006-01-02"

var (
	ErrBadStatus   = errors.New("status must be one of All, Upcoming, Today, Completed")
	ErrBadDate     = errors.New("date must be formatted YYYY-MM-DD")
	ErrBadPage     = errors.New("page must be zero or greater")
	ErrBadPageSize = errors.New("page_size must be between 1 and 100")
)

// State is the complete view state of an event list.
type State struct {
	Status   eventstatus.Status `json:"status"` // "" means All
	Date     string             `json:"date,omitempty"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// Default returns the initial view state: no filters, first page.
func Default() State {
	return State{PageSize: paging.PageSize}
}

// WithStatus sets the status filter. The empty status means All.
func (s State) WithStatus(st eventstatus.Status) State {
	s.Status = st
	return s
}

// WithDate sets the single-date filter. The empty string clears it.
func (s State) WithDate(date string) State {
	s.Date = date
	return s
}

// WithPage moves to page (0-based).
func (s State) WithPage(page int) State {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// WithPageSize changes the page size and always returns to the first page.
func (s State) WithPageSize(size int) State {
	s.PageSize = paging.NormalizeSize(size)
	s.Page = 0
	return s
}

// ResetFilters clears the status and date filters and keeps paging.
func (s State) ResetFilters() State {
	s.Status = ""
	s.Date = ""
	return s
}

// Params are the optional inputs a client may send to move a view.
// Nil fields leave the corresponding part of the state unchanged.
type Params struct {
	Status   *string `schema:"status"`
	Date     *string `schema:"date"`
	Page     *int    `schema:"page"`
	PageSize *int    `schema:"page_size"`
	Reset    bool    `schema:"reset"`
	Token    string  `schema:"state"`
}

// Apply returns the state reached by applying p to s.
// A page size that differs from the current one resets the page to 0 and
// any page in the same request is ignored.
func (s State) Apply(p Params) (State, error) {
	next := s
	if p.Reset {
		next = next.ResetFilters()
	}
	if p.Status != nil {
		st, ok := eventstatus.Parse(*p.Status)
		if !ok {
			return s, ErrBadStatus
		}
		next = next.WithStatus(st)
	}
	if p.Date != nil {
		if *p.Date != "" {
			if _, err := time.Parse(DateLayout, *p.Date); err != nil {
				return s, ErrBadDate
			}
		}
		next = next.WithDate(*p.Date)
	}
	if p.PageSize != nil {
		if *p.PageSize < 1 || *p.PageSize > paging.MaxPageSize {
			return s, ErrBadPageSize
		}
		if *p.PageSize != next.PageSize {
			return next.WithPageSize(*p.PageSize), nil
		}
	}
	if p.Page != nil {
		if *p.Page < 0 {
			return s, ErrBadPage
		}
		next = next.WithPage(*p.Page)
	}
	return next, nil
}

// DateIn parses the date filter as a calendar day in loc.
func (s State) DateIn(loc *time.Location) (time.Time, bool) {
	if s.Date == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
