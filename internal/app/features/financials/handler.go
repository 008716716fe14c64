// internal/app/features/financials/handler.go
package financials

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	financialstore "github.com/dalemusser/clubhub/internal/app/store/financials"
	"github.com/dalemusser/clubhub/internal/app/store/refs"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves income and expense records.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Financials *financialstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Financials: financialstore.New(db),
	}
}

// Routes mounts the financial routes.
// Typically: r.Mount("/api/financials", financials.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/fetchall", h.ServeList)
	r.Get("/summary", h.ServeSummary)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case inputval.IsValidation(err):
		respond.BadRequest(w, err.Error())
	case errors.Is(err, financialstore.ErrInvalidType):
		respond.BadRequest(w, "type must be one of: Income, Expense")
	case errors.Is(err, refs.ErrUnknownReference):
		respond.Message(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, financialstore.ErrNotFound):
		respond.NotFound(w, "Financial record not found")
	default:
		h.ErrLog.LogServerError(w, r, op, err, "Failed to "+op)
	}
}
