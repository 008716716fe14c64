// internal/app/features/events/handler.go
package events

import (
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/cache"
	"github.com/dalemusser/clubhub/internal/app/system/listview"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the event routes.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Events   *eventstore.Store
	Upcoming *cache.Upcoming // nil disables caching
	Codec    *listview.Codec
	Loc      *time.Location

	// Now is the clock used for status and upcoming checks. Tests replace it.
	Now func() time.Time
}

// NewHandler wires the event store. loc is the location that defines a
// calendar day; nil means UTC.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, codec *listview.Codec, upcoming *cache.Upcoming, loc *time.Location, logger *zap.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Events:   eventstore.New(db),
		Upcoming: upcoming,
		Codec:    codec,
		Loc:      loc,
		Now:      time.Now,
	}
}

func (h *Handler) now() time.Time {
	return h.Now().In(h.Loc)
}
