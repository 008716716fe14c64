// internal/domain/models/financial.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Financial record types. No other value is stored.
const (
	FinancialIncome  = "Income"
	FinancialExpense = "Expense"
)

// Financial is an income or expense entry, optionally tied to an event.
type Financial struct {
	ID          primitive.ObjectID  `bson:"_id" json:"_id"`
	Amount      float64             `bson:"amount" json:"amount"`
	Type        string              `bson:"type" json:"type"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Items       []string            `bson:"items" json:"items"`
	EventID     *primitive.ObjectID `bson:"event_id,omitempty" json:"eventID,omitempty"`
	CreatedBy   *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}

// IsValidFinancialType reports whether t is Income or Expense.
func IsValidFinancialType(t string) bool {
	return t == FinancialIncome || t == FinancialExpense
}
