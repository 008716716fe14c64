// internal/app/features/members/handler.go
package members

import (
	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Members.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Members: memberstore.New(db),
	}
}
