// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a club event. Its display status (Upcoming/Today/Completed) is
// derived from Date at read time and is never stored.
type Event struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"event_name" json:"event_name"`
	NameCI    string             `bson:"event_name_ci" json:"-"`
	Date      time.Time          `bson:"event_date" json:"event_date"`
	Venue     string             `bson:"venue" json:"venue"`
	Time      string             `bson:"time" json:"time"` // free text, e.g. "18:30"
	Years     []string           `bson:"year" json:"year"` // invited years
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
