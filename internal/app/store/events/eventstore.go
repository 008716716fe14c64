// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("event not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	now := time.Now().UTC()
	ev.ID = primitive.NewObjectID()
	ev.NameCI = text.Fold(ev.Name)
	ev.Date = ev.Date.UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Update replaces the mutable fields of an event and returns the stored
// result. _id and created_at are never touched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, ev models.Event) (models.Event, error) {
	set := bson.M{
		"event_name":    ev.Name,
		"event_name_ci": text.Fold(ev.Name),
		"event_date":    ev.Date.UTC(),
		"venue":         ev.Venue,
		"time":          ev.Time,
		"year":          ev.Years,
		"updated_at":    time.Now().UTC(),
	}
	var out models.Event
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("update event: %w", err)
	}
	return out, nil
}

// Delete removes an event by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FindAll returns every event in store order.
func (s *Store) FindAll(ctx context.Context) ([]models.Event, error) {
	return s.Find(ctx, bson.M{})
}

// FindUpcoming returns events whose date is strictly after now, in store order.
func (s *Store) FindUpcoming(ctx context.Context, now time.Time) ([]models.Event, error) {
	return s.Find(ctx, upcomingFilter(now))
}

// CountUpcoming counts the events FindUpcoming would return.
func (s *Store) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, upcomingFilter(now))
}

func upcomingFilter(now time.Time) bson.M {
	return bson.M{"event_date": bson.M{"$gt": now.UTC()}}
}

// Find returns events matching filter with optional find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of events matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
