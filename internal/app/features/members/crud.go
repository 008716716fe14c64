package members

import (
	"context"
	"errors"
	"net/http"

	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeList handles GET /api/members/fetchall.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ms, err := h.Members.FindAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members", err, "Failed to fetch members")
		return
	}
	if len(ms) == 0 {
		respond.NotFound(w, "No members found")
		return
	}
	respond.JSON(w, http.StatusOK, ms)
}

// ServeGet handles GET /api/members/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if errors.Is(err, memberstore.ErrNotFound) {
		respond.NotFound(w, "Member not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get member", err, "Failed to fetch member")
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

// HandleCreate handles POST /api/members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in memberInput
	if err := inputval.DecodeJSON(r, &in); err != nil {
		h.badInput(w, r, err)
		return
	}
	m, err := in.model()
	if err != nil {
		h.badInput(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err = h.Members.Create(ctx, m)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create member", err, "Failed to create member")
		return
	}

	h.Log.Info("member created", zap.String("member_id", m.ID.Hex()))
	respond.JSON(w, http.StatusCreated, m)
}

// HandleUpdate handles PUT /api/members/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	var in memberInput
	if err := inputval.DecodeJSON(r, &in); err != nil {
		h.badInput(w, r, err)
		return
	}
	m, err := in.model()
	if err != nil {
		h.badInput(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err = h.Members.Update(ctx, id, m)
	if errors.Is(err, memberstore.ErrNotFound) {
		respond.NotFound(w, "Member not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update member", err, "Failed to update member")
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /api/members/{id}. Attendance rows that
// reference the member are kept.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Members.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete member", err, "Failed to delete member")
		return
	}
	if n == 0 {
		respond.NotFound(w, "Member not found")
		return
	}

	h.Log.Info("member deleted", zap.String("member_id", id.Hex()))
	respond.Message(w, http.StatusOK, "Member deleted successfully")
}

func (h *Handler) badInput(w http.ResponseWriter, r *http.Request, err error) {
	if inputval.IsValidation(err) {
		respond.BadRequest(w, err.Error())
		return
	}
	h.ErrLog.LogServerError(w, r, "validate member input", err, "")
}
