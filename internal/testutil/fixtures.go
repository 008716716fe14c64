package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test records directly, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateEvent inserts an event on the given date.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, date time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Date:      date.UTC(),
		Venue:     "Main Hall",
		Time:      "18:00",
		Years:     []string{"1", "2"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "events", ev)
	return ev
}

// CreateMember inserts a member with the given name and student number.
func (f *Fixtures) CreateMember(ctx context.Context, name, studentNo string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		StudentNo:  studentNo,
		Department: "CS",
		Email:      studentNo + "@example.com",
		Year:       "2024",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "members", m)
	return m
}

// CreateAttendance links a member to an event with status present.
func (f *Fixtures) CreateAttendance(ctx context.Context, eventID, memberID primitive.ObjectID) models.Attendance {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Attendance{
		ID:        primitive.NewObjectID(),
		EventID:   eventID,
		MemberID:  memberID,
		Date:      now,
		Status:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "attendance", a)
	return a
}

// CreateFinancial inserts a financial record of the given type and amount.
func (f *Fixtures) CreateFinancial(ctx context.Context, typ string, amount float64, eventID *primitive.ObjectID) models.Financial {
	f.t.Helper()

	now := time.Now().UTC()
	fin := models.Financial{
		ID:          primitive.NewObjectID(),
		Amount:      amount,
		Type:        typ,
		Description: "test " + typ,
		Items:       []string{"item"},
		EventID:     eventID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "financials", fin)
	return fin
}
