package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "clubhub",
		TimeZone:         "UTC",
		Location:         time.UTC,
		ViewStateHashKey: devViewStateKey,
		UploadMaxBytes:   5 << 20,
		CSVMaxRows:       20000,
		UploadRateLimit:  10,
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}
	strongKey := strings.Repeat("k", 48)

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"dev defaults", dev, func(*AppConfig) {}, false},
		{"bad uri", dev, func(c *AppConfig) { c.MongoURI = "postgres://localhost:5432/clubhub" }, true},
		{"missing database", dev, func(c *AppConfig) { c.MongoDatabase = "" }, true},
		{"unknown zone", dev, func(c *AppConfig) { c.TimeZone = "Mars/Olympus" }, true},
		{"zero upload size", dev, func(c *AppConfig) { c.UploadMaxBytes = 0 }, true},
		{"zero rows", dev, func(c *AppConfig) { c.CSVMaxRows = 0 }, true},
		{"rate limit off", dev, func(c *AppConfig) { c.UploadRateLimit = 0 }, false},
		{"negative rate limit", dev, func(c *AppConfig) { c.UploadRateLimit = -1 }, true},
		{"empty key", dev, func(c *AppConfig) { c.ViewStateHashKey = "" }, true},
		{"prod dev key", prod, func(*AppConfig) {}, true},
		{"prod short key", prod, func(c *AppConfig) { c.ViewStateHashKey = "short" }, true},
		{"prod strong key", prod, func(c *AppConfig) { c.ViewStateHashKey = strongKey }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppConfigLoc(t *testing.T) {
	if got := (AppConfig{}).Loc(); got != time.UTC {
		t.Errorf("Loc() without location = %v, want UTC", got)
	}
	loc := time.FixedZone("X", 3600)
	if got := (AppConfig{Location: loc}).Loc(); got != loc {
		t.Errorf("Loc() = %v, want %v", got, loc)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	for i := 0; i < 2; i++ {
		if err := EnsureSchema(ctx, &config.CoreConfig{}, validAppConfig(), deps, testLogger()); err != nil {
			t.Fatalf("EnsureSchema run %d: %v", i+1, err)
		}
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, validAppConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/events/fetchall", http.StatusNotFound},
		{http.MethodGet, "/api/events/fetchUpcomingEvents", http.StatusNotFound},
		{http.MethodGet, "/api/events/view", http.StatusOK},
		{http.MethodGet, "/api/events/not-an-id", http.StatusBadRequest},
		{http.MethodGet, "/api/members/fetchall", http.StatusNotFound},
		{http.MethodPost, "/api/members/bulkupload/new/", http.StatusBadRequest},
		{http.MethodGet, "/api/attendance/fetchall", http.StatusNotFound},
		{http.MethodGet, "/api/financials/fetchall?type=Donation", http.StatusBadRequest},
		{http.MethodGet, "/api/financials/summary", http.StatusOK},
		{http.MethodGet, "/api/dashboard/summary", http.StatusOK},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
		{http.MethodPatch, "/api/events/fetchall", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: status %d, want %d (body %s)", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
		}
		if strings.HasPrefix(tt.path, "/api/") && rec.Header().Get("Content-Type") != "application/json" {
			t.Errorf("%s %s: content type %q, want application/json", tt.method, tt.path, rec.Header().Get("Content-Type"))
		}
	}
}

func TestBuildHandler_UploadThrottleIgnoresForwardedFor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	cfg := validAppConfig()
	cfg.UploadRateLimit = 1

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	want := []int{http.StatusBadRequest, http.StatusTooManyRequests}
	for i, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/members/bulkupload/new/", nil)
		req.RemoteAddr = "192.0.2.7:40000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want[i] {
			t.Errorf("request %d: status %d, want %d", i+1, rec.Code, want[i])
		}
	}
}
