// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup from EnsureSchema. Each ensure* function is
idempotent. Errors are aggregated so every problem is reported in one pass
and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureAttendance(ctx, db); err != nil {
		problems = append(problems, "attendance: "+err.Error())
	}
	if err := ensureFinancials(ctx, db); err != nil {
		problems = append(problems, "financials: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                       */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(p *bool) bool {
	return p != nil && *p
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo and DocumentDB report IndexOptionsConflict when an index with the same
// keys already exists under another name or with other options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		zap.L().Warn("list indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

// replaceIndex drops old and creates m in its place.
func replaceIndex(ctx context.Context, coll *mongo.Collection, old string, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if isDuplicateKeyErr(err) {
			return fmt.Errorf("cannot create unique index (duplicates present): %w", err)
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listIndexes(ctx, coll)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolOf(unique)),
		}

		if ex, ok := existing[sig]; ok {
			if boolOf(unique) == boolOf(ex.Unique) && (name == "" || ex.Name == name) {
				zap.L().Info("reusing existing index", append(fields, zap.Duration("took", time.Since(start)))...)
				continue
			}
			// Same keys but other name or options: align it.
			if err := replaceIndex(ctx, coll, ex.Name, m); err != nil {
				zap.L().Warn("index replace failed", append(fields, zap.String("from", ex.Name), zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
				continue
			}
			zap.L().Info("index replaced", append(fields, zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))...)
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil && isOptionsConflictErr(err) {
			// Another index appeared between List and CreateOne; reload and retry once.
			if ex, ok := listIndexes(ctx, coll)[sig]; ok {
				err = replaceIndex(ctx, coll, ex.Name, m)
				created = name
			}
		}
		if err != nil {
			zap.L().Warn("index ensure failed", append(fields, zap.Duration("took", time.Since(start)), zap.Error(err))...)
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured", append(fields,
			zap.String("created_name", created),
			zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("events"), []mongo.IndexModel{
		// fetchUpcomingEvents range scan and day filters
		{
			Keys:    bson.D{{Key: "event_date", Value: 1}},
			Options: options.Index().SetName("idx_events_date"),
		},
	})
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("members"), []mongo.IndexModel{
		// Not unique: a repeated create is allowed to duplicate a member.
		{
			Keys:    bson.D{{Key: "student_no", Value: 1}},
			Options: options.Index().SetName("idx_members_studentno"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_members_email"),
		},
	})
}

func ensureAttendance(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("attendance"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_attendance_event_member"),
		},
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}},
			Options: options.Index().SetName("idx_attendance_member"),
		},
	})
}

func ensureFinancials(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("financials"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_financials_type_created"),
		},
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("idx_financials_event"),
		},
	})
}
