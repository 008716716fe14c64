// internal/app/features/uploadcsv/upload.go
package uploadcsv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/features/uploadcsv/csvutil"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var acceptedTypes = map[string]bool{
	"text/csv":                 true,
	"application/vnd.ms-excel": true,
	"text/plain":               true,
}

// UploadResponse is the 201 body of a successful import.
type UploadResponse struct {
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Members []models.Member `json:"members"`
}

// RejectResponse is the 422 body of a file that failed validation.
type RejectResponse struct {
	Message string             `json:"message"`
	Errors  []csvutil.RowError `json:"errors"`
}

// HandleUpload handles POST /api/members/bulkupload/new/.
//
// The whole file is validated before anything is written. A single bad row
// rejects the file with 422 and the full list of row errors.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		if isTooLarge(err) {
			h.reject(w, http.StatusRequestEntityTooLarge, "too_large",
				fmt.Sprintf("File too large. Maximum size is %d bytes.", h.MaxBytes))
			return
		}
		h.reject(w, http.StatusBadRequest, "bad_request", "Request must be a multipart form.")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile(FormField)
	if err != nil {
		h.reject(w, http.StatusBadRequest, "bad_request", "No file uploaded.")
		return
	}
	defer file.Close()

	if !acceptedType(hdr.Header.Get("Content-Type")) {
		h.reject(w, http.StatusUnsupportedMediaType, "unsupported_type",
			"Unsupported file type. Upload a CSV file.")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		h.Log.Warn("read uploaded file", zap.Error(err), zap.String("filename", hdr.Filename))
		h.reject(w, http.StatusBadRequest, "bad_request", "Could not read the uploaded file.")
		return
	}

	parsed, err := csvutil.ParseMembersCSV(bytes.NewReader(raw), csvutil.ParseOptions{MaxRows: h.MaxRows})
	if errors.Is(err, csvutil.ErrTooManyRows) {
		h.reject(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("CSV file has more than %d rows.", h.MaxRows))
		return
	}
	if err != nil {
		metrics.ImportFiles.WithLabelValues("error").Inc()
		h.ErrLog.LogServerError(w, r, "parse member csv", err, "Could not read the uploaded file.")
		return
	}

	if parsed.HasErrors() {
		metrics.ImportFiles.WithLabelValues("rejected").Inc()
		h.Log.Info("member import rejected",
			zap.String("filename", hdr.Filename),
			zap.Int("errors", len(parsed.Errors)),
		)
		respond.JSON(w, http.StatusUnprocessableEntity, RejectResponse{
			Message: csvutil.Message(parsed.Errors),
			Errors:  parsed.Errors,
		})
		return
	}
	if len(parsed.Members) == 0 {
		h.reject(w, http.StatusUnprocessableEntity, "rejected", "CSV file contains no members.")
		return
	}

	members := make([]models.Member, len(parsed.Members))
	for i, p := range parsed.Members {
		members[i] = p.Member()
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "member bulk import")
	defer cancel()

	created, err := memberstore.New(h.DB).InsertMany(ctx, members)
	if err != nil {
		metrics.ImportFiles.WithLabelValues("error").Inc()
		h.ErrLog.LogServerError(w, r, "insert imported members", err, "Failed to import members.")
		return
	}

	h.archive(ctx, r, hdr.Filename, raw, created)

	metrics.ImportFiles.WithLabelValues("imported").Inc()
	metrics.ImportedMembers.Add(float64(len(created)))
	h.Log.Info("members imported",
		zap.String("filename", hdr.Filename),
		zap.Int("count", len(created)),
	)

	respond.JSON(w, http.StatusCreated, UploadResponse{
		Message: fmt.Sprintf("%d members imported.", len(created)),
		Count:   len(created),
		Members: created,
	})
}

func (h *Handler) reject(w http.ResponseWriter, status int, outcome, msg string) {
	metrics.ImportFiles.WithLabelValues(outcome).Inc()
	respond.Message(w, status, msg)
}

// archive stores the raw upload in GridFS. Failure is logged only; the
// members are already committed.
func (h *Handler) archive(ctx context.Context, r *http.Request, filename string, raw []byte, created []models.Member) {
	log := h.Log.With(
		zap.String("filename", filename),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)

	bucket, err := gridfs.NewBucket(h.DB, options.GridFSBucket().SetName(ArchiveBucket))
	if err != nil {
		log.Error("open import archive bucket", zap.Error(err))
		return
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = bucket.SetWriteDeadline(dl)
	}

	ids := make([]primitive.ObjectID, len(created))
	for i, m := range created {
		ids[i] = m.ID
	}
	meta := bson.M{
		"filename":   filename,
		"rows":       len(created),
		"member_ids": ids,
	}

	name := uuid.NewString() + ".csv"
	fileID, err := bucket.UploadFromStream(name, bytes.NewReader(raw), options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		log.Error("archive member import", zap.Error(err))
		return
	}
	log.Debug("member import archived", zap.String("archive_id", fileID.Hex()), zap.String("archive_name", name))
}

func acceptedType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return acceptedTypes[mt]
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
