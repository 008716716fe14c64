// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Batch:  appCfg.TimeoutBatch,
	})
	t := timeouts.Current()

	logger.Info("clubhub configured",
		zap.String("time_zone", appCfg.Loc().String()),
		zap.Bool("upcoming_cache", deps.Redis != nil),
		zap.Int64("upload_max_bytes", appCfg.UploadMaxBytes),
		zap.Int("csv_max_rows", appCfg.CSVMaxRows),
		zap.Duration("timeout_short", t.Short),
		zap.Duration("timeout_medium", t.Medium),
		zap.Duration("timeout_batch", t.Batch),
	)
	return nil
}
