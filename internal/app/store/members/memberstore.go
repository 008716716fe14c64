// internal/app/store/members/memberstore.go
package memberstore

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

var (
	ErrNotFound      = errors.New("member not found")
	ErrInvalidGender = errors.New("gender must be Male, Female or Others")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

func prepare(m models.Member, now time.Time) models.Member {
	m.ID = primitive.NewObjectID()
	m.NameCI = text.Fold(m.Name)
	m.CreatedAt = now
	m.UpdatedAt = now
	return m
}

func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	if !models.IsValidGender(m.Gender) {
		return models.Member{}, ErrInvalidGender
	}
	m = prepare(m, time.Now().UTC())
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

// InsertMany stores all members in one ordered InsertMany and returns them
// with IDs and timestamps assigned. An empty slice is a no-op.
func (s *Store) InsertMany(ctx context.Context, members []models.Member) ([]models.Member, error) {
	if len(members) == 0 {
		return []models.Member{}, nil
	}
	now := time.Now().UTC()
	out := make([]models.Member, len(members))
	docs := make([]interface{}, len(members))
	for i, m := range members {
		if !models.IsValidGender(m.Gender) {
			return nil, fmt.Errorf("member %d: %w", i, ErrInvalidGender)
		}
		out[i] = prepare(m, now)
		docs[i] = out[i]
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert members: %w", err)
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// Update replaces the mutable fields of a member and returns the stored result.
// An empty gender removes the field.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, m models.Member) (models.Member, error) {
	if !models.IsValidGender(m.Gender) {
		return models.Member{}, ErrInvalidGender
	}
	set := bson.M{
		"name":       m.Name,
		"name_ci":    text.Fold(m.Name),
		"student_no": m.StudentNo,
		"department": m.Department,
		"email":      m.Email,
		"year":       m.Year,
		"updated_at": time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if m.Gender == "" {
		update["$unset"] = bson.M{"gender": ""}
	} else {
		set["gender"] = m.Gender
	}

	var out models.Member
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("update member: %w", err)
	}
	return out, nil
}

// Delete removes a member by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FindAll returns every member in store order.
func (s *Store) FindAll(ctx context.Context) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of members matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
