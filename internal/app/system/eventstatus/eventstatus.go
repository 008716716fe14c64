// Package eventstatus derives an event's display status from its date.
//
// Status is a pure function of (now, event date). It is recomputed on every
// read and must never be written back to the store.
package eventstatus

import "time"

// Status is the derived display status of an event.
type Status string

const (
	Upcoming  Status = "Upcoming"
	Today     Status = "Today"
	Completed Status = "Completed"
)

// All is the filter value that matches every status.
const All = "All"

// Statuses lists the derivable statuses in display order.
var Statuses = []Status{Upcoming, Completed, Today}

// Classify compares the calendar day of date with the calendar day of now.
// Both are evaluated in now's location, so the caller controls the time zone
// by choosing the location of now.
func Classify(now, date time.Time) Status {
	n := dayOf(now, now.Location())
	d := dayOf(date, now.Location())
	switch {
	case n.Before(d):
		return Upcoming
	case n.After(d):
		return Completed
	default:
		return Today
	}
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return dayOf(a, loc).Equal(dayOf(b, loc))
}

// Parse maps a filter string to a Status. The empty string and "All" map to
// ("", true), meaning no status filter.
func Parse(s string) (Status, bool) {
	switch s {
	case "", All:
		return "", true
	case string(Upcoming):
		return Upcoming, true
	case string(Today):
		return Today, true
	case string(Completed):
		return Completed, true
	}
	return "", false
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
