package attendance

import (
	"context"
	"net/http"

	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type attendanceInput struct {
	EventID  string `json:"eventID" validate:"required"`
	MemberID string `json:"memberID" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Status   *bool  `json:"status"` // absent means attended
}

func (in attendanceInput) model(h *Handler) (models.Attendance, error) {
	eventID, err := inputval.OptionalObjectID("eventID", in.EventID)
	if err != nil {
		return models.Attendance{}, err
	}
	memberID, err := inputval.OptionalObjectID("memberID", in.MemberID)
	if err != nil {
		return models.Attendance{}, err
	}
	if eventID == nil || memberID == nil {
		return models.Attendance{}, &inputval.Error{Message: "eventID and memberID are required"}
	}
	date, err := inputval.ParseDate("date", in.Date, h.Loc)
	if err != nil {
		return models.Attendance{}, err
	}
	status := true
	if in.Status != nil {
		status = *in.Status
	}
	return models.Attendance{
		EventID:  *eventID,
		MemberID: *memberID,
		Date:     date,
		Status:   status,
	}, nil
}

func decodeInput(r *http.Request, h *Handler) (models.Attendance, error) {
	var in attendanceInput
	if err := inputval.DecodeJSON(r, &in); err != nil {
		return models.Attendance{}, err
	}
	return in.model(h)
}

// ServeList handles GET /api/attendance/fetchall?event=&member=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var f attendancestore.Filter
	var err error
	if f.EventID, err = inputval.OptionalObjectID("event", query.Get(r, "event")); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	if f.MemberID, err = inputval.OptionalObjectID("member", query.Get(r, "member")); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Attendance.Find(ctx, f)
	if err != nil {
		h.writeErr(w, r, "fetch attendance", err)
		return
	}
	if len(rows) == 0 {
		respond.NotFound(w, "No attendance records found")
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

// ServeGet handles GET /api/attendance/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Attendance.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, "fetch attendance", err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

// HandleCreate handles POST /api/attendance. Unknown event or member ids
// are rejected with 422.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	a, err := decodeInput(r, h)
	if err != nil {
		h.writeErr(w, r, "create attendance", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err = h.Attendance.Create(ctx, a)
	if err != nil {
		h.writeErr(w, r, "create attendance", err)
		return
	}
	h.Log.Info("attendance recorded",
		zap.String("attendance_id", a.ID.Hex()),
		zap.String("event_id", a.EventID.Hex()),
		zap.String("member_id", a.MemberID.Hex()),
	)
	respond.JSON(w, http.StatusCreated, a)
}

// HandleUpdate handles PUT /api/attendance/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	a, err := decodeInput(r, h)
	if err != nil {
		h.writeErr(w, r, "update attendance", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err = h.Attendance.Update(ctx, id, a)
	if err != nil {
		h.writeErr(w, r, "update attendance", err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

// HandleDelete handles DELETE /api/attendance/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Attendance.Delete(ctx, id)
	if err != nil {
		h.writeErr(w, r, "delete attendance", err)
		return
	}
	if n == 0 {
		respond.NotFound(w, "Attendance record not found")
		return
	}
	respond.Message(w, http.StatusOK, "Attendance record deleted successfully")
}
