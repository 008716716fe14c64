package events

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/eventstatus"
	"github.com/dalemusser/clubhub/internal/app/system/listview"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /api/events/fetchall.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Events.FindAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events", err, "Failed to fetch events")
		return
	}
	if len(evs) == 0 {
		respond.NotFound(w, "No events found")
		return
	}
	respond.JSON(w, http.StatusOK, viewsOf(evs, h.now()))
}

// ServeView handles GET /api/events/view.
//
// The client sends back the signed state token it was last given plus any
// changes (status, date, page, page_size, reset). A token that fails
// verification is discarded and the default view is used.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	params, err := listview.ParseParams(r.URL.Query())
	if err != nil {
		respond.BadRequest(w, "Invalid list parameters")
		return
	}

	state, err := h.Codec.Decode(params.Token)
	if err != nil {
		h.Log.Info("discarding invalid list state token", zap.Error(err))
	}
	state, err = state.Apply(params)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := h.Events.FindAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events", err, "Failed to fetch events")
		return
	}

	now := h.now()
	page := listview.Build(evs, func(ev models.Event) time.Time { return ev.Date }, state, now)

	token, err := h.Codec.Encode(page.State)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "encode list state", err, "")
		return
	}

	statuses := []string{eventstatus.All}
	for _, s := range eventstatus.Statuses {
		statuses = append(statuses, string(s))
	}

	respond.JSON(w, http.StatusOK, viewResponse{
		Items:    viewsOf(page.Items, now),
		Total:    page.Range.Total,
		Pages:    page.Range.Pages,
		HasPrev:  page.Range.HasPrev,
		HasNext:  page.Range.HasNext,
		State:    token,
		Current:  page.State,
		Statuses: statuses,
	})
}
