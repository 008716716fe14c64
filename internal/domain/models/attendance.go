// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance records whether a member attended an event.
// EventID and MemberID are checked on write but not kept in sync on delete.
type Attendance struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"eventID"`
	MemberID  primitive.ObjectID `bson:"member_id" json:"memberID"`
	Date      time.Time          `bson:"date" json:"date"`
	Status    bool               `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
