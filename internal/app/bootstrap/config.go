// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/uploadcsv/csvutil"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devViewStateKey = "dev-only-change-me-please-0123456789ABCDEF"

// minHashKeyLen is the shortest view state key accepted in prod.
const minHashKeyLen = 32

// appConfigKeys defines the configuration keys for ClubHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, time_zone, etc.
//   - Environment variables: CLUBHUB_MONGO_URI, CLUBHUB_TIME_ZONE, etc.
//   - Command-line flags: --mongo_uri, --time_zone, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clubhub", Desc: "MongoDB database name"},
	{Name: "mongo_connect_attempts", Default: 5, Desc: "MongoDB connect attempts before startup fails"},

	{Name: "time_zone", Default: "UTC", Desc: "IANA time zone that defines a calendar day (e.g. Asia/Colombo)"},

	// Upcoming events cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the upcoming events cache (blank disables)"},
	{Name: "upcoming_cache_ttl", Default: "1m", Desc: "How long an upcoming events response stays cached"},

	{Name: "view_state_hash_key", Default: devViewStateKey, Desc: "HMAC key for list view state tokens (32+ bytes in prod)"},

	// Bulk import
	{Name: "upload_max_bytes", Default: csvutil.MaxUploadSize, Desc: "Maximum bulk upload request size in bytes"},
	{Name: "csv_max_rows", Default: csvutil.MaxRows, Desc: "Maximum data rows in one bulk upload"},
	{Name: "upload_rate_limit", Default: 10, Desc: "Bulk uploads allowed per client IP per minute (0 disables)"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list and aggregate operations"},
	{Name: "timeout_batch", Default: "60s", Desc: "Timeout for bulk import"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLUBHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:             appValues.String("mongo_uri"),
		MongoDatabase:        appValues.String("mongo_database"),
		MongoConnectAttempts: appValues.Int("mongo_connect_attempts"),

		TimeZone: appValues.String("time_zone"),

		RedisAddr:        appValues.String("redis_addr"),
		UpcomingCacheTTL: appValues.Duration("upcoming_cache_ttl", time.Minute),

		ViewStateHashKey: appValues.String("view_state_hash_key"),

		UploadMaxBytes:  int64(appValues.Int("upload_max_bytes")),
		CSVMaxRows:      appValues.Int("csv_max_rows"),
		UploadRateLimit: appValues.Int("upload_rate_limit"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutBatch:  appValues.Duration("timeout_batch", timeouts.DefaultBatch),
	}

	if loc, err := time.LoadLocation(appCfg.TimeZone); err == nil {
		appCfg.Location = loc
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It rejects a malformed MongoDB URI, an unknown time zone and
// non-positive limits. In prod the view state key must be at least 32
// bytes and must not be the development default.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}
	if _, err := time.LoadLocation(appCfg.TimeZone); err != nil {
		return fmt.Errorf("invalid time_zone %q: %w", appCfg.TimeZone, err)
	}
	if appCfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", appCfg.UploadMaxBytes)
	}
	if appCfg.CSVMaxRows <= 0 {
		return fmt.Errorf("csv_max_rows must be positive, got %d", appCfg.CSVMaxRows)
	}
	if appCfg.UploadRateLimit < 0 {
		return fmt.Errorf("upload_rate_limit must not be negative, got %d", appCfg.UploadRateLimit)
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if len(appCfg.ViewStateHashKey) < minHashKeyLen {
			return fmt.Errorf("view_state_hash_key must be at least %d bytes in prod", minHashKeyLen)
		}
		if appCfg.ViewStateHashKey == devViewStateKey {
			return errors.New("view_state_hash_key is the development default; set a secret key in prod")
		}
	} else if appCfg.ViewStateHashKey == devViewStateKey {
		logger.Warn("using development view_state_hash_key")
	}
	if appCfg.ViewStateHashKey == "" {
		return errors.New("view_state_hash_key must be set")
	}

	return nil
}
