// internal/app/store/financials/financialstore.go
package financialstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/clubhub/internal/app/store/refs"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound    = errors.New("financial record not found")
	ErrInvalidType = errors.New("type must be Income or Expense")
)

type Store struct {
	c    *mongo.Collection
	refs *refs.Checker
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("financials"), refs: refs.New(db)}
}

// Filter narrows Find. Zero fields match everything.
type Filter struct {
	Type    string
	EventID *primitive.ObjectID
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.EventID != nil {
		q["event_id"] = *f.EventID
	}
	return q
}

// validate enforces the type constraint and the optional references.
func (s *Store) validate(ctx context.Context, fin models.Financial) error {
	if !models.IsValidFinancialType(fin.Type) {
		return ErrInvalidType
	}
	if fin.EventID != nil {
		if err := s.refs.Event(ctx, *fin.EventID); err != nil {
			return err
		}
	}
	if fin.CreatedBy != nil {
		if err := s.refs.Member(ctx, *fin.CreatedBy); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Create(ctx context.Context, fin models.Financial) (models.Financial, error) {
	if err := s.validate(ctx, fin); err != nil {
		return models.Financial{}, err
	}
	now := time.Now().UTC()
	fin.ID = primitive.NewObjectID()
	if fin.Items == nil {
		fin.Items = []string{}
	}
	fin.CreatedAt = now
	fin.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, fin); err != nil {
		return models.Financial{}, fmt.Errorf("insert financial: %w", err)
	}
	return fin, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Financial, error) {
	var fin models.Financial
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&fin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Financial{}, ErrNotFound
	}
	if err != nil {
		return models.Financial{}, err
	}
	return fin, nil
}

// Update replaces the mutable fields. A nil EventID or CreatedBy removes the
// stored reference.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, fin models.Financial) (models.Financial, error) {
	if err := s.validate(ctx, fin); err != nil {
		return models.Financial{}, err
	}
	items := fin.Items
	if items == nil {
		items = []string{}
	}
	set := bson.M{
		"amount":      fin.Amount,
		"type":        fin.Type,
		"description": fin.Description,
		"items":       items,
		"updated_at":  time.Now().UTC(),
	}
	unset := bson.M{}
	if fin.EventID != nil {
		set["event_id"] = *fin.EventID
	} else {
		unset["event_id"] = ""
	}
	if fin.CreatedBy != nil {
		set["created_by"] = *fin.CreatedBy
	} else {
		unset["created_by"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var out models.Financial
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Financial{}, ErrNotFound
	}
	if err != nil {
		return models.Financial{}, fmt.Errorf("update financial: %w", err)
	}
	return out, nil
}

// Delete removes a record by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns records matching f, newest first.
func (s *Store) Find(ctx context.Context, f Filter) ([]models.Financial, error) {
	if f.Type != "" && !models.IsValidFinancialType(f.Type) {
		return nil, ErrInvalidType
	}
	cur, err := s.c.Find(ctx, f.bson(), options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Financial
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of records matching f.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}

// Totals is the income/expense roll-up returned by Summary.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
	Count   int64   `json:"count"`
}

// Summary sums amounts per type. A non-nil eventID restricts the roll-up to
// records tied to that event.
func (s *Store) Summary(ctx context.Context, eventID *primitive.ObjectID) (Totals, error) {
	match := Filter{EventID: eventID}.bson()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Totals{}, fmt.Errorf("aggregate financials: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Type  string  `bson:"_id"`
		Total float64 `bson:"total"`
		Count int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, r := range rows {
		switch r.Type {
		case models.FinancialIncome:
			t.Income = r.Total
		case models.FinancialExpense:
			t.Expense = r.Total
		}
		t.Count += r.Count
	}
	t.Balance = t.Income - t.Expense
	return t, nil
}
