// internal/app/features/uploadcsv/handler.go
package uploadcsv

import (
	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/uploadcsv/csvutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ArchiveBucket is the GridFS bucket holding the raw bytes of every
// accepted upload.
const ArchiveBucket = "member_imports"

// FormField is the multipart field carrying the CSV file.
const FormField = "files"

// Handler provides HTTP handlers for bulk member import.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	MaxBytes int64
	MaxRows  int
}

// NewHandler constructs a Handler. Zero limits fall back to the csvutil
// defaults.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger, maxBytes int64, maxRows int) *Handler {
	if maxBytes <= 0 {
		maxBytes = csvutil.MaxUploadSize
	}
	if maxRows <= 0 {
		maxRows = csvutil.MaxRows
	}
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		MaxBytes: maxBytes,
		MaxRows:  maxRows,
	}
}
