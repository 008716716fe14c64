package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeGet handles GET /api/events/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get event", err, "Failed to fetch event")
		return
	}
	respond.JSON(w, http.StatusOK, viewOf(ev, h.now()))
}

// HandleCreate handles POST /api/events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if err := inputval.DecodeJSON(r, &in); err != nil {
		h.badInput(w, r, err)
		return
	}
	ev, err := in.model(h.Loc)
	if err != nil {
		h.badInput(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err = h.Events.Create(ctx, ev)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create event", err, "Failed to create event")
		return
	}
	h.Upcoming.Invalidate(ctx)

	h.Log.Info("event created", zap.String("event_id", ev.ID.Hex()))
	respond.JSON(w, http.StatusCreated, viewOf(ev, h.now()))
}

// HandleUpdate handles PUT /api/events/{id}. The body replaces every
// editable field.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	var in eventInput
	if err := inputval.DecodeJSON(r, &in); err != nil {
		h.badInput(w, r, err)
		return
	}
	ev, err := in.model(h.Loc)
	if err != nil {
		h.badInput(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err = h.Events.Update(ctx, id, ev)
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.NotFound(w, "Event not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update event", err, "Failed to update event")
		return
	}
	h.Upcoming.Invalidate(ctx)

	respond.JSON(w, http.StatusOK, viewOf(ev, h.now()))
}

// HandleDelete handles DELETE /api/events/{id}. Attendance and financial
// records that reference the event are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Events.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete event", err, "Failed to delete event")
		return
	}
	if n == 0 {
		respond.NotFound(w, "Event not found")
		return
	}
	h.Upcoming.Invalidate(ctx)

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	respond.Message(w, http.StatusOK, "Event deleted successfully")
}

func (h *Handler) badInput(w http.ResponseWriter, r *http.Request, err error) {
	if inputval.IsValidation(err) {
		respond.BadRequest(w, err.Error())
		return
	}
	h.ErrLog.LogServerError(w, r, "validate event input", err, "")
}
