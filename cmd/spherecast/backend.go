package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/spherecast/spherecast/internal/config"
	"github.com/spherecast/spherecast/internal/database"
	"github.com/spherecast/spherecast/internal/kvstore"
	"github.com/spherecast/spherecast/internal/resolve"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// backend is an opened storage backend together with its health check.
type backend struct {
	store kvstore.Store
	ping  pingFunc
	close func()
}

func openBackend(ctx context.Context, cfg config.StorageConfig) (*backend, error) {
	var b *backend
	switch cfg.Backend {
	case config.BackendMemory:
		b = &backend{
			store: kvstore.NewMemory(),
			ping:  func(context.Context) error { return nil },
			close: func() {},
		}

	case config.BackendPostgres:
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		slog.Info("database migrations applied")
		b = &backend{store: kvstore.NewPostgres(db.Pool), ping: db.Ping, close: db.Close}

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		b = &backend{
			store: kvstore.NewRedis(client),
			ping:  func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close: func() { _ = client.Close() },
		}

	case config.BackendS3:
		s3, err := kvstore.NewS3(ctx, kvstore.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("storage initialization failed: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("storage bucket check failed: %w", err)
		}
		b = &backend{store: s3, ping: s3.EnsureBucket, close: func() {}}

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	b.store = kvstore.Instrument(b.store, cfg.Backend)
	return b, nil
}

func newResolveService(cfg config.ResolveConfig) *resolve.Service {
	client := &http.Client{Timeout: cfg.Timeout}
	hls := resolve.NewHLSExtractor(client)

	extractors := []resolve.Extractor{hls}
	if cfg.YTDLP {
		extractors = append(extractors, resolve.NewYTDLPExtractor())
	}

	rc := resolve.Config{
		Extractors: extractors,
		Titles:     resolve.NewPageTitles(client),
		Timeout:    cfg.Timeout,
	}
	if cfg.ExpandHLS {
		rc.ExpandHLS = hls
	}
	return resolve.NewService(rc)
}
