// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/clubhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection the app writes to, in creation order.
var Collections = []string{"events", "members", "attendance", "financials"}

// EnsureAll creates the collections if missing and attaches JSON-Schema
// validators. Servers that don't support collMod validators (some DocumentDB
// versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	schemas := map[string]bson.M{
		"events":     eventsSchema(),
		"members":    membersSchema(),
		"attendance": attendanceSchema(),
		"financials": financialsSchema(),
	}

	for _, coll := range Collections {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		if err := setValidator(ctx, db, coll, schemas[coll]); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				continue
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection makes sure name exists. created is true only when this
// call created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, listErr := collectionExists(ctx, db, name); listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// Lost a race with another instance, or a prior run created it.
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErr(err error) (mongo.CommandError, bool) {
	var ce mongo.CommandError
	ok := errors.As(err, &ce)
	return ce, ok
}

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := commandErr(err); ok && ce.Code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := commandErr(err); ok && ce.Code == 59 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := commandErr(err); ok && ce.Code == 115 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func timestamps() bson.M {
	return bson.M{
		"created_at": bson.M{"bsonType": "date"},
		"updated_at": bson.M{"bsonType": "date"},
	}
}

func withTimestamps(props bson.M) bson.M {
	for k, v := range timestamps() {
		props[k] = v
	}
	return props
}

func eventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"event_name", "event_date", "created_at", "updated_at"},
			"properties": withTimestamps(bson.M{
				"event_name": nonBlank,
				"event_date": bson.M{"bsonType": "date"},
				"venue":      bson.M{"bsonType": "string"},
				"time":       bson.M{"bsonType": "string"},
				"year":       bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}},
			}),
		},
	}
}

func membersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "student_no", "department", "email", "year", "created_at", "updated_at"},
			"properties": withTimestamps(bson.M{
				"name":       nonBlank,
				"name_ci":    bson.M{"bsonType": "string"},
				"student_no": nonBlank,
				"department": nonBlank,
				"email":      nonBlank,
				"year":       nonBlank,
				"gender":     bson.M{"enum": bson.A{models.GenderMale, models.GenderFemale, models.GenderOthers}},
			}),
		},
	}
}

func attendanceSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"event_id", "member_id", "date", "status", "created_at", "updated_at"},
			"properties": withTimestamps(bson.M{
				"event_id":  bson.M{"bsonType": "objectId"},
				"member_id": bson.M{"bsonType": "objectId"},
				"date":      bson.M{"bsonType": "date"},
				"status":    bson.M{"bsonType": "bool"},
			}),
		},
	}
}

func financialsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"amount", "type", "created_at", "updated_at"},
			"properties": withTimestamps(bson.M{
				"amount":      bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}},
				"type":        bson.M{"enum": bson.A{models.FinancialIncome, models.FinancialExpense}},
				"description": bson.M{"bsonType": "string"},
				"items":       bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "string"}},
				"event_id":    bson.M{"bsonType": "objectId"},
				"created_by":  bson.M{"bsonType": "objectId"},
			}),
		},
	}
}
