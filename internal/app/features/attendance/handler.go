// internal/app/features/attendance/handler.go
package attendance

import (
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	"github.com/dalemusser/clubhub/internal/app/store/refs"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves attendance records.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Attendance *attendancestore.Store
	Loc        *time.Location
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Attendance: attendancestore.New(db),
		Loc:        loc,
	}
}

// Routes mounts the attendance routes.
// Typically: r.Mount("/api/attendance", attendance.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/fetchall", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}

// writeErr maps input, reference and store errors to responses.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case inputval.IsValidation(err):
		respond.BadRequest(w, err.Error())
	case errors.Is(err, refs.ErrUnknownReference):
		respond.Message(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, attendancestore.ErrNotFound):
		respond.NotFound(w, "Attendance record not found")
	default:
		h.ErrLog.LogServerError(w, r, op, err, "Failed to "+op)
	}
}
