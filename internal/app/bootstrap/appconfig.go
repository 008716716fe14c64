// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (CLUBHUB_*), configuration
// files, or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig
// carries the framework-level settings (ports, TLS, log level, env).
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI             string
	MongoDatabase        string
	MongoConnectAttempts int // attempts before ConnectDB gives up

	// TimeZone names the location whose calendar day decides event status
	// and how dates without a zone are read. Location is its resolved form;
	// nil when TimeZone does not load (ValidateConfig rejects that).
	TimeZone string
	Location *time.Location

	// Upcoming events cache. Blank RedisAddr disables caching.
	RedisAddr        string
	UpcomingCacheTTL time.Duration

	// HMAC key signing list view state tokens.
	ViewStateHashKey string

	// Bulk import limits
	UploadMaxBytes  int64
	CSVMaxRows      int
	UploadRateLimit int // per client IP per minute; 0 disables

	// Per-class request timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutBatch  time.Duration
}

// Loc returns the configured location, or UTC.
func (c AppConfig) Loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
