// service содержит бизнес-логику lapa-service: реестр стран, ленту новостей,
// глобальный поток комментариев, разворачивание ссылок и сессии.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/feed"
	"github.com/pribylovaa/lapa-nations/internal/links"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

const (
	defaultOwnerName = "Tidak Diketahui"
	anonymousAuthor  = "Pengguna Anonim"
)

// MetadataFetcher извлекает Open Graph метаданные страницы.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) (models.Metadata, error)
}

// Decider решает, полезнее ли развёрнутое превью голой ссылки.
// Возвращает текстовый вердикт ("Helpful ..." / "Not helpful ...").
type Decider interface {
	Decide(ctx context.Context, rawURL string, md models.Metadata) (string, error)
}

// Deps — необязательные зависимости сервиса. Нулевые значения отключают
// соответствующие операции (ErrUnavailable).
type Deps struct {
	Sessions storage.Sessions
	Images   storage.Images
	Fetcher  MetadataFetcher
	Decider  Decider
	Boards   *links.Registry
	Hub      *feed.Hub
}

// Service — описывает бизнес-логику lapa-service.
type Service struct {
	storage  storage.Storage
	sessions storage.Sessions
	images   storage.Images
	fetcher  MetadataFetcher
	decider  Decider
	boards   *links.Registry
	hub      *feed.Hub
	cfg      config.Config
	now      func() time.Time
}

// New создает новый экземпляр Service и регистрирует топики подписок в Hub.
func New(storage storage.Storage, cfg config.Config, deps Deps) *Service {
	s := &Service{
		storage:  storage,
		sessions: deps.Sessions,
		images:   deps.Images,
		fetcher:  deps.Fetcher,
		decider:  deps.Decider,
		boards:   deps.Boards,
		hub:      deps.Hub,
		cfg:      cfg,
		now:      time.Now,
	}

	if s.hub != nil {
		s.hub.Register(feed.TopicCountries, func(ctx context.Context) (any, error) {
			return s.ListCountries(ctx)
		})
		s.hub.Register(feed.TopicNews, func(ctx context.Context) (any, error) {
			return s.ListNews(ctx, models.NewsFilter{})
		})
		s.hub.Register(feed.TopicGlobalComments, func(ctx context.Context) (any, error) {
			return s.ListGlobalComments(ctx)
		})
	}

	return s
}

// timeNow — текущее время в UTC с точностью хранилищ (миллисекунды).
func (s *Service) timeNow() time.Time {
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	return now().UTC().Truncate(time.Millisecond)
}

func (s *Service) ownerPlaceholder() string {
	if s.cfg.Identity.DefaultOwnerName != "" {
		return s.cfg.Identity.DefaultOwnerName
	}

	return defaultOwnerName
}

func (s *Service) anonymousLabel() string {
	if s.cfg.Identity.AnonymousAuthor != "" {
		return s.cfg.Identity.AnonymousAuthor
	}

	return anonymousAuthor
}

// notify сообщает подписчикам об изменении топика. Ошибка шины не ломает
// уже закоммиченную операцию.
func (s *Service) notify(ctx context.Context, topic string) {
	if s.hub == nil {
		return
	}

	if err := s.hub.Notify(ctx, topic); err != nil {
		log.From(ctx).Warn("feed_notify_failed", slog.String("topic", topic), slog.String("err", err.Error()))
	}
}
