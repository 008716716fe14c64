// Package inputval decodes and validates JSON request bodies and path ids.
package inputval

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-day form accepted for date fields.
const DateLayout = "2006-01-02"

// Error is a validation failure whose message is safe to show the client.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON reads the request body into dst and validates its struct tags.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &Error{Message: "Request body must be valid JSON."}
	}
	return Struct(dst)
}

// Struct validates v's `validate` tags and returns the first failure as an
// *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &Error{Message: describe(verrs[0])}
	}
	return err
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "mongodb":
		return field + " must be a valid id"
	default:
		return field + " is invalid"
	}
}

// IsValidEmail reports whether s is a single valid email address.
func IsValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// ObjectID parses the chi URL parameter name as an ObjectID.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, &Error{Message: "Invalid id"}
	}
	return id, nil
}

// OptionalObjectID parses a possibly empty hex id. Empty yields nil.
func OptionalObjectID(field, hex string) (*primitive.ObjectID, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, &Error{Message: field + " must be a valid id"}
	}
	return &id, nil
}

// ParseDate accepts a calendar day (YYYY-MM-DD, midnight in loc) or an
// RFC 3339 timestamp.
func ParseDate(field, s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, &Error{Message: field + " must be a date (YYYY-MM-DD or RFC 3339)"}
}
