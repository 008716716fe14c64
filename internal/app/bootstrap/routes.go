// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	attendancefeature "github.com/dalemusser/clubhub/internal/app/features/attendance"
	dashboardfeature "github.com/dalemusser/clubhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/clubhub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/clubhub/internal/app/features/events"
	financialsfeature "github.com/dalemusser/clubhub/internal/app/features/financials"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	membersfeature "github.com/dalemusser/clubhub/internal/app/features/members"
	uploadcsvfeature "github.com/dalemusser/clubhub/internal/app/features/uploadcsv"
	"github.com/dalemusser/clubhub/internal/app/system/cache"
	"github.com/dalemusser/clubhub/internal/app/system/httplog"
	"github.com/dalemusser/clubhub/internal/app/system/listview"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/clubhub/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// Middleware order: peer capture, request id, real ip, access log, metrics,
// recoverer. The upload throttle keys on the captured peer, not on RealIP.
// Health and metrics are mounted at the root; the JSON API lives under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	upcoming := cache.NewUpcoming(deps.Redis, appCfg.UpcomingCacheTTL, logger)
	codec := listview.NewCodec([]byte(appCfg.ViewStateHashKey))

	r := chi.NewRouter()
	r.Use(ratelimit.Peer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.AccessLog(logger, "/health", "/metrics"))
	r.Use(metrics.Instrument)
	r.Use(middleware.Recoverer)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, upcoming, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		// Set before mounting so feature routers inherit the JSON bodies.
		api.NotFound(notFound)
		api.MethodNotAllowed(methodNotAllowed)

		eventsHandler := eventsfeature.NewHandler(db, errLog, codec, upcoming, appCfg.Loc(), logger)
		api.Mount("/events", eventsfeature.Routes(eventsHandler))

		uploadHandler := uploadcsvfeature.NewHandler(db, errLog, logger, appCfg.UploadMaxBytes, appCfg.CSVMaxRows)
		membersHandler := membersfeature.NewHandler(db, errLog, logger)
		var uploadLimiter *ratelimit.Limiter
		if appCfg.UploadRateLimit > 0 {
			uploadLimiter = ratelimit.New(appCfg.UploadRateLimit, time.Minute)
		}
		bulk := ratelimit.Middleware(uploadLimiter, logger)(uploadcsvfeature.Routes(uploadHandler))
		api.Mount("/members", membersfeature.Routes(membersHandler, bulk))

		attendanceHandler := attendancefeature.NewHandler(db, errLog, appCfg.Loc(), logger)
		api.Mount("/attendance", attendancefeature.Routes(attendanceHandler))

		financialsHandler := financialsfeature.NewHandler(db, errLog, logger)
		api.Mount("/financials", financialsfeature.Routes(financialsHandler))

		dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
	})

	return r, nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respond.NotFound(w, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
}
