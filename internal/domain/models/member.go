// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values accepted on a Member. Gender is optional.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOthers = "Others"
)

// Member is a club member, created individually or by bulk CSV import.
type Member struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	StudentNo  string             `bson:"student_no" json:"studentNo"`
	Department string             `bson:"department" json:"department"`
	Email      string             `bson:"email" json:"email"`
	Year       string             `bson:"year" json:"year"`
	Gender     string             `bson:"gender,omitempty" json:"gender,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// IsValidGender reports whether g is empty or one of the canonical values.
func IsValidGender(g string) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOthers:
		return true
	}
	return false
}
