// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs server-side failures and writes the JSON 500 body.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err with the request's method, path and request id,
// then responds 500 {"message": userMsg}. The error text never reaches the
// client.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	if userMsg == "" {
		userMsg = "Internal server error"
	}
	respond.Message(w, http.StatusInternalServerError, userMsg)
}
