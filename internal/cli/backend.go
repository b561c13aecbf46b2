package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"quizpad-service/internal/app"
	"quizpad-service/internal/config"
	"quizpad-service/internal/infra/memory"
	pgstore "quizpad-service/internal/infra/postgres"
	"quizpad-service/internal/infra/records"
	redisstore "quizpad-service/internal/infra/redis"
	"quizpad-service/internal/infra/sqlite"
)

// backend holds the opened key-value store and the clients behind it.
type backend struct {
	kv      records.KV
	redis   *redis.Client
	closers []func()
}

// openBackend connects the configured store backend. A redis client is opened
// whenever redis.addr is set, also for other backends, so it can serve as quiz cache.
func openBackend(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*backend, error) {
	b := &backend{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = b.redis.Close() })
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
	}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		b.kv = memory.NewKV()
	case config.BackendRedis:
		b.kv = redisstore.NewKV(b.redis)
	case config.BackendPostgres:
		if err := runMigrations(ctx, cfg, log); err != nil {
			b.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.kv = pgstore.NewKV(pool)
	case config.BackendSQLite:
		kv, err := sqlite.NewKV(cfg.SQLite.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = kv.Close() })
		b.kv = kv
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	log.WithField("backend", cfg.Store.Backend).Info("store opened")
	return b, nil
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// newService seeds the records and puts a quiz cache in front of the store.
// Shared stores (redis, postgres, sqlite) may have other processes deleting
// quizzes, so they are only cached in redis where every instance sees the
// invalidation. A process-local cache is used for the memory store alone.
func newService(ctx context.Context, cfg config.Config, log logrus.FieldLogger, b *backend) (*app.QuizService, error) {
	store := records.New(b.kv, cfg.Store.Prefix)
	if err := store.EnsureDefaults(ctx); err != nil {
		return nil, err
	}

	var quizzes app.QuizLoader
	ttl := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	loader := app.NewStoreLoader(store)
	switch {
	case ttl <= 0:
	case cfg.Store.Backend == config.BackendMemory:
		quizzes = memory.NewQuizCache(loader, ttl)
	case b.redis != nil && cfg.Store.Backend != config.BackendRedis:
		prefix := cfg.Store.Prefix
		if prefix == "" {
			prefix = records.DefaultPrefix
		}
		quizzes = redisstore.NewQuizCache(b.redis, loader, prefix, ttl)
	}

	return app.NewQuizService(store, quizzes,
		app.WithLogger(log),
		app.WithBaseURL(cfg.Server.PublicURL),
	), nil
}
