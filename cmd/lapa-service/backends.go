package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/feed"
	"github.com/pribylovaa/lapa-nations/internal/pkg/redact"
	"github.com/pribylovaa/lapa-nations/internal/storage"
	"github.com/pribylovaa/lapa-nations/internal/storage/memory"
	"github.com/pribylovaa/lapa-nations/internal/storage/minio"
	lapamongo "github.com/pribylovaa/lapa-nations/internal/storage/mongo"
	lparedis "github.com/pribylovaa/lapa-nations/internal/storage/redis"
)

// backends — внешние зависимости сервиса, собранные по конфигу.
type backends struct {
	store    storage.Storage
	sessions storage.Sessions
	images   storage.Images
	bus      feed.Bus

	closers []func()
}

// close освобождает ресурсы в обратном порядке открытия.
func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// openBackends подключает хранилище, Redis и MinIO. Незаданные Redis и MinIO
// заменяются локальными реализациями или отключаются.
// При ошибке уже открытые ресурсы закрываются.
func openBackends(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *backends, err error) {
	const op = "main/openBackends"

	b := &backends{}
	defer func() {
		if err != nil {
			b.close()
		}
	}()

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		m, err := lapamongo.New(dbCtx, cfg)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%s: mongo: %w", op, err)
		}
		b.closers = append(b.closers, func() { _ = m.Close(context.Background()) })
		b.store = m
		log.Info("mongo_connected", "url", redact.URL(cfg.DB.URL))
	default:
		b.store = memory.New(cfg)
		log.Info("memory_storage_initialized")
	}

	if cfg.Redis.URL == "" {
		b.sessions = memory.NewSessions()
		b.bus = feed.NewLocalBus()
	} else {
		rdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := lparedis.NewClient(rdCtx, cfg.Redis.URL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%s: redis: %w", op, err)
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })

		b.store = lparedis.NewCache(b.store, rdb, cfg.Redis.Prefix, cfg.Redis.CacheTTL)
		b.sessions = lparedis.NewSessions(rdb, cfg.Redis.Prefix, cfg.Redis.SessionTTL)
		b.bus = lparedis.NewBus(rdb, cfg.Redis.Prefix)
		log.Info("redis_connected", "url", redact.URL(cfg.Redis.URL), "cache_ttl", cfg.Redis.CacheTTL)
	}

	if cfg.S3.Endpoint != "" {
		s3Ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		img, err := minio.New(s3Ctx, cfg)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%s: minio: %w", op, err)
		}
		b.images = img
		log.Info("minio_connected", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	}

	return b, nil
}
