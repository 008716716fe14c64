// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	financialstore "github.com/dalemusser/clubhub/internal/app/store/financials"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler serves the dashboard summary.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Events     *eventstore.Store
	Members    *memberstore.Store
	Attendance *attendancestore.Store
	Financials *financialstore.Store
	Now        func() time.Time
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Events:     eventstore.New(db),
		Members:    memberstore.New(db),
		Attendance: attendancestore.New(db),
		Financials: financialstore.New(db),
		Now:        time.Now,
	}
}

// Routes mounts the dashboard routes.
// Typically: r.Mount("/api/dashboard", dashboard.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.ServeSummary)
	return r
}

// Summary is the dashboard payload.
type Summary struct {
	Events         int64                 `json:"events"`
	UpcomingEvents int64                 `json:"upcoming_events"`
	Members        int64                 `json:"members"`
	Attendance     int64                 `json:"attendance"`
	Financials     financialstore.Totals `json:"financials"`
}

// ServeSummary handles GET /api/dashboard/summary. The five reads run
// concurrently; the first failure cancels the rest.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var s Summary
	now := h.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Events, err = h.Events.Count(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		s.UpcomingEvents, err = h.Events.CountUpcoming(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		s.Members, err = h.Members.Count(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		s.Attendance, err = h.Attendance.Count(gctx, attendancestore.Filter{})
		return err
	})
	g.Go(func() (err error) {
		s.Financials, err = h.Financials.Summary(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard summary", err, "Failed to load dashboard")
		return
	}

	respond.JSON(w, http.StatusOK, s)
}
