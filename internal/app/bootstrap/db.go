// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/cache"
	"github.com/dalemusser/clubhub/internal/app/system/indexes"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"github.com/flowchartsman/retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB, retrying with backoff, and builds the
// optional Redis client. A Redis that does not answer is logged and kept:
// the cache degrades to misses until it comes back.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	attempts := appCfg.MongoConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	client, err := connectMongo(ctx, appCfg.MongoURI, attempts, logger)
	if err != nil {
		return DBDeps{}, err
	}
	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	if appCfg.RedisAddr != "" {
		deps.Redis = cache.NewRedis(appCfg.RedisAddr)
		pctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		defer cancel()
		if err := deps.Redis.Ping(pctx).Err(); err != nil {
			logger.Warn("redis not reachable; upcoming events cache will miss",
				zap.String("addr", appCfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
		}
	}

	return deps, nil
}

func connectMongo(ctx context.Context, uri string, attempts int, logger *zap.Logger) (*mongo.Client, error) {
	var client *mongo.Client
	try := 0
	retrier := retry.NewRetrier(attempts, 100*time.Millisecond, 2*time.Second)
	err := retrier.Run(func() error {
		try++
		if err := ctx.Err(); err != nil {
			return err
		}
		cctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()

		c, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
		if err != nil {
			logger.Warn("mongo connect failed", zap.Int("attempt", try), zap.Error(err))
			return err
		}
		if err := c.Ping(cctx, readpref.Primary()); err != nil {
			logger.Warn("mongo ping failed", zap.Int("attempt", try), zap.Error(err))
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB after %d attempts: %w", try, err)
	}
	return client, nil
}

// EnsureSchema creates the collections with their JSON-schema validators,
// then reconciles indexes. Both steps are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("schema ensured")
	return nil
}
