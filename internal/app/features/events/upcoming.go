package events

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
)

const noUpcomingMessage = "No Recent Activities found"

// ServeUpcoming handles GET /api/events/fetchUpcomingEvents.
//
// Returns [{date, title}] for events dated after now, in store order.
func (h *Handler) ServeUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	now := h.now()
	var cached []cachedUpcoming
	if h.Upcoming.Get(ctx, &cached) {
		if items, ok := freshUpcoming(cached, now); ok {
			respond.JSON(w, http.StatusOK, items)
			return
		}
	}

	evs, err := h.Events.FindUpcoming(ctx, now)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find upcoming events", err, "Failed to fetch upcoming events")
		return
	}
	if len(evs) == 0 {
		respond.NotFound(w, noUpcomingMessage)
		return
	}

	items := make([]upcomingItem, len(evs))
	cached = make([]cachedUpcoming, len(evs))
	for i, ev := range evs {
		items[i] = upcomingItem{
			Date:  ev.Date.In(h.Loc).Format("2006-01-02"),
			Title: ev.Name,
		}
		cached[i] = cachedUpcoming{At: ev.Date, Item: items[i]}
	}
	h.Upcoming.Set(ctx, cached)

	respond.JSON(w, http.StatusOK, items)
}

// cachedUpcoming is a feed entry as stored in the cache. At keeps the full
// event time so a cached feed can be checked against the clock.
type cachedUpcoming struct {
	At   time.Time    `json:"at"`
	Item upcomingItem `json:"item"`
}

// freshUpcoming returns the cached feed when every entry is still after now.
// An empty feed or one holding a passed event is a miss.
func freshUpcoming(cached []cachedUpcoming, now time.Time) ([]upcomingItem, bool) {
	if len(cached) == 0 {
		return nil, false
	}
	items := make([]upcomingItem, len(cached))
	for i, c := range cached {
		if !c.At.After(now) {
			return nil, false
		}
		items[i] = c.Item
	}
	return items, true
}
