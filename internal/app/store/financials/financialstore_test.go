package financialstore_test

import (
	"errors"
	"testing"
	"time"

	financialstore "github.com/dalemusser/clubhub/internal/app/store/financials"
	"github.com/dalemusser/clubhub/internal/app/store/refs"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fin, err := store.Create(ctx, models.Financial{Type: models.FinancialIncome, Description: "dues"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if fin.Amount != 0 {
		t.Errorf("expected default amount 0, got %v", fin.Amount)
	}
	if fin.Items == nil {
		t.Error("expected items to default to an empty list")
	}

	got, err := store.GetByID(ctx, fin.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Type != models.FinancialIncome || got.EventID != nil {
		t.Errorf("unexpected stored record: %+v", got)
	}
}

func TestStore_Create_InvalidType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, typ := range []string{"", "income", "Donation"} {
		if _, err := store.Create(ctx, models.Financial{Type: typ, Amount: 5}); !errors.Is(err, financialstore.ErrInvalidType) {
			t.Errorf("type %q: expected ErrInvalidType, got %v", typ, err)
		}
	}
}

func TestStore_Create_UnknownReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	missing := primitive.NewObjectID()
	_, err := store.Create(ctx, models.Financial{Type: models.FinancialExpense, EventID: &missing})
	if !errors.Is(err, refs.ErrUnknownReference) {
		t.Errorf("event: expected ErrUnknownReference, got %v", err)
	}
	_, err = store.Create(ctx, models.Financial{Type: models.FinancialExpense, CreatedBy: &missing})
	if !errors.Is(err, refs.ErrUnknownReference) {
		t.Errorf("created_by: expected ErrUnknownReference, got %v", err)
	}
}

func TestStore_Find(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	fx.CreateFinancial(ctx, models.FinancialIncome, 100, &ev.ID)
	fx.CreateFinancial(ctx, models.FinancialExpense, 40, &ev.ID)
	fx.CreateFinancial(ctx, models.FinancialIncome, 25, nil)

	income, err := store.Find(ctx, financialstore.Filter{Type: models.FinancialIncome})
	if err != nil || len(income) != 2 {
		t.Errorf("Find(Income): len=%d err=%v", len(income), err)
	}

	forEvent, err := store.Find(ctx, financialstore.Filter{EventID: &ev.ID})
	if err != nil || len(forEvent) != 2 {
		t.Errorf("Find(event): len=%d err=%v", len(forEvent), err)
	}

	if _, err := store.Find(ctx, financialstore.Filter{Type: "Gift"}); !errors.Is(err, financialstore.ErrInvalidType) {
		t.Errorf("Find(Gift): expected ErrInvalidType, got %v", err)
	}
}

func TestStore_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	empty, err := store.Summary(ctx, nil)
	if err != nil {
		t.Fatalf("Summary(empty) failed: %v", err)
	}
	if empty != (financialstore.Totals{}) {
		t.Errorf("expected zero totals, got %+v", empty)
	}

	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	fx.CreateFinancial(ctx, models.FinancialIncome, 100, &ev.ID)
	fx.CreateFinancial(ctx, models.FinancialIncome, 50.5, nil)
	fx.CreateFinancial(ctx, models.FinancialExpense, 30, &ev.ID)

	all, err := store.Summary(ctx, nil)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	want := financialstore.Totals{Income: 150.5, Expense: 30, Balance: 120.5, Count: 3}
	if all != want {
		t.Errorf("Summary: got %+v, want %+v", all, want)
	}

	byEvent, err := store.Summary(ctx, &ev.ID)
	if err != nil {
		t.Fatalf("Summary(event) failed: %v", err)
	}
	want = financialstore.Totals{Income: 100, Expense: 30, Balance: 70, Count: 2}
	if byEvent != want {
		t.Errorf("Summary(event): got %+v, want %+v", byEvent, want)
	}
}

func TestStore_Update_ClearsEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := financialstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Gala", time.Now())
	fin := fx.CreateFinancial(ctx, models.FinancialExpense, 10, &ev.ID)

	got, err := store.Update(ctx, fin.ID, models.Financial{Type: models.FinancialExpense, Amount: 12})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.EventID != nil {
		t.Errorf("expected event_id removed, got %v", got.EventID)
	}
	if got.Amount != 12 {
		t.Errorf("Amount: got %v, want 12", got.Amount)
	}

	if _, err := store.Update(ctx, fin.ID, models.Financial{Type: "Other"}); !errors.Is(err, financialstore.ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}
