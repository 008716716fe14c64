// internal/app/store/attendance/attendancestore.go
package attendancestore

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

var ErrNotFound = errors.New("attendance record not found")

type Store struct {
	c    *mongo.Collection
	refs *refs.Checker
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance"), refs: refs.New(db)}
}

// Filter narrows Find. Nil fields match everything.
type Filter struct {
	EventID  *primitive.ObjectID
	MemberID *primitive.ObjectID
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.EventID != nil {
		q["event_id"] = *f.EventID
	}
	if f.MemberID != nil {
		q["member_id"] = *f.MemberID
	}
	return q
}

func (s *Store) checkRefs(ctx context.Context, a models.Attendance) error {
	if err := s.refs.Event(ctx, a.EventID); err != nil {
		return err
	}
	return s.refs.Member(ctx, a.MemberID)
}

// Create stores a new record after checking that its event and member exist.
// A failed check wraps refs.ErrUnknownReference and nothing is written.
func (s *Store) Create(ctx context.Context, a models.Attendance) (models.Attendance, error) {
	if err := s.checkRefs(ctx, a); err != nil {
		return models.Attendance{}, err
	}
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Date = a.Date.UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Attendance, error) {
	var a models.Attendance
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Attendance{}, ErrNotFound
	}
	if err != nil {
		return models.Attendance{}, err
	}
	return a, nil
}

// Update replaces the mutable fields after the same reference checks as Create.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, a models.Attendance) (models.Attendance, error) {
	if err := s.checkRefs(ctx, a); err != nil {
		return models.Attendance{}, err
	}
	set := bson.M{
		"event_id":   a.EventID,
		"member_id":  a.MemberID,
		"date":       a.Date.UTC(),
		"status":     a.Status,
		"updated_at": time.Now().UTC(),
	}
	var out models.Attendance
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Attendance{}, ErrNotFound
	}
	if err != nil {
		return models.Attendance{}, fmt.Errorf("update attendance: %w", err)
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

// Find returns records matching f in store order.
func (s *Store) Find(ctx context.Context, f Filter) ([]models.Attendance, error) {
	cur, err := s.c.Find(ctx, f.bson())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Attendance
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of records matching f.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}
