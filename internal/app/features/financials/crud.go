package financials

import (
	"context"
	"net/http"

	financialstore "github.com/dalemusser/clubhub/internal/app/store/financials"
	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/inputval"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

type financialInput struct {
	Amount      float64  `json:"amount" validate:"gte=0"`
	Type        string   `json:"type" validate:"required,oneof=Income Expense"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	EventID     string   `json:"eventID"`
	CreatedBy   string   `json:"createdBy"`
}

func decodeInput(r *http.Request) (models.Financial, error) {
	var in financialInput
	if err := inputval.DecodeJSON(r, &in); err != nil {
		return models.Financial{}, err
	}
	eventID, err := inputval.OptionalObjectID("eventID", in.EventID)
	if err != nil {
		return models.Financial{}, err
	}
	createdBy, err := inputval.OptionalObjectID("createdBy", in.CreatedBy)
	if err != nil {
		return models.Financial{}, err
	}
	return models.Financial{
		Amount:      in.Amount,
		Type:        in.Type,
		Description: htmlsanitize.PlainText(in.Description),
		Items:       htmlsanitize.PlainTextAll(in.Items),
		EventID:     eventID,
		CreatedBy:   createdBy,
	}, nil
}

func filterFrom(r *http.Request) (financialstore.Filter, error) {
	f := financialstore.Filter{Type: query.Get(r, "type")}
	if f.Type != "" && !models.IsValidFinancialType(f.Type) {
		return f, &inputval.Error{Message: "type must be one of: Income, Expense"}
	}
	eventID, err := inputval.OptionalObjectID("event", query.Get(r, "event"))
	if err != nil {
		return f, err
	}
	f.EventID = eventID
	return f, nil
}

// ServeList handles GET /api/financials/fetchall?type=&event=. Newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	f, err := filterFrom(r)
	if err != nil {
		h.writeErr(w, r, "fetch financials", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Financials.Find(ctx, f)
	if err != nil {
		h.writeErr(w, r, "fetch financials", err)
		return
	}
	if len(rows) == 0 {
		respond.NotFound(w, "No financial records found")
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

// ServeSummary handles GET /api/financials/summary?event=.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	eventID, err := inputval.OptionalObjectID("event", query.Get(r, "event"))
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	totals, err := h.Financials.Summary(ctx, eventID)
	if err != nil {
		h.writeErr(w, r, "summarize financials", err)
		return
	}
	respond.JSON(w, http.StatusOK, totals)
}

// ServeGet handles GET /api/financials/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fin, err := h.Financials.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, "fetch financial record", err)
		return
	}
	respond.JSON(w, http.StatusOK, fin)
}

// HandleCreate handles POST /api/financials.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	fin, err := decodeInput(r)
	if err != nil {
		h.writeErr(w, r, "create financial record", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fin, err = h.Financials.Create(ctx, fin)
	if err != nil {
		h.writeErr(w, r, "create financial record", err)
		return
	}
	h.Log.Info("financial record created",
		zap.String("financial_id", fin.ID.Hex()),
		zap.String("type", fin.Type),
		zap.Float64("amount", fin.Amount),
	)
	respond.JSON(w, http.StatusCreated, fin)
}

// HandleUpdate handles PUT /api/financials/{id}. Omitted eventID or
// createdBy clear the stored reference.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}
	fin, err := decodeInput(r)
	if err != nil {
		h.writeErr(w, r, "update financial record", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	fin, err = h.Financials.Update(ctx, id, fin)
	if err != nil {
		h.writeErr(w, r, "update financial record", err)
		return
	}
	respond.JSON(w, http.StatusOK, fin)
}

// HandleDelete handles DELETE /api/financials/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := inputval.ObjectID(r, "id")
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Financials.Delete(ctx, id)
	if err != nil {
		h.writeErr(w, r, "delete financial record", err)
		return
	}
	if n == 0 {
		respond.NotFound(w, "Financial record not found")
		return
	}
	respond.Message(w, http.StatusOK, "Financial record deleted successfully")
}
