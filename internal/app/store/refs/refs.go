// Package refs checks that referenced documents exist before a write.
//
// Deletes never cascade, so a reference that was valid on write may dangle
// later. Only writes are checked.
package refs

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnknownReference is wrapped by every failed reference check.
var ErrUnknownReference = errors.New("referenced record does not exist")

// Checker verifies ids against the events and members collections.
type Checker struct {
	events  *mongo.Collection
	members *mongo.Collection
}

func New(db *mongo.Database) *Checker {
	return &Checker{
		events:  db.Collection("events"),
		members: db.Collection("members"),
	}
}

func exists(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (bool, error) {
	err := c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Event returns an ErrUnknownReference error when id is not an event.
func (c *Checker) Event(ctx context.Context, id primitive.ObjectID) error {
	ok, err := exists(ctx, c.events, id)
	if err != nil {
		return fmt.Errorf("check event %s: %w", id.Hex(), err)
	}
	if !ok {
		return fmt.Errorf("%w: event %s", ErrUnknownReference, id.Hex())
	}
	return nil
}

// Member returns an ErrUnknownReference error when id is not a member.
func (c *Checker) Member(ctx context.Context, id primitive.ObjectID) error {
	ok, err := exists(ctx, c.members, id)
	if err != nil {
		return fmt.Errorf("check member %s: %w", id.Hex(), err)
	}
	if !ok {
		return fmt.Errorf("%w: member %s", ErrUnknownReference, id.Hex())
	}
	return nil
}
