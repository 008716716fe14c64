package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/cache"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Cache  *cache.Upcoming // optional
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the optional
// Redis-backed cache and a logger.
func NewHandler(client *mongo.Client, c *cache.Upcoming, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Cache:  c,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
//
// Redis is informational only: when configured and unreachable the cache
// field reads "unavailable" and the status stays ok.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		respond.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if h.Cache != nil {
		resp.Cache = "connected"
		if !h.Cache.Healthy(ctx) {
			h.Log.Warn("health-check: redis ping failed")
			resp.Cache = "unavailable"
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
