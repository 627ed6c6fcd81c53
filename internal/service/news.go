package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/lapa-nations/internal/feed"
	"github.com/pribylovaa/lapa-nations/internal/metrics"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// NewsDraft — черновик публикации.
// OwnerName необязателен: непустое значение, отличное от сохранённого,
// обновляет владельца страны-автора перед публикацией.
type NewsDraft struct {
	AuthorCountryID string
	OwnerName       string
	Title           string
	Description     string
	ImageURL        string
	ImageHint       string
	TaggedCountryID string
	IsMapUpdate     bool
	NewsType        string
}

// CommentNewsInput — комментарий к новости. Пустой Author — анонимная подпись.
type CommentNewsInput struct {
	NewsID string
	Author string
	Text   string
}

// PublishNews — публикация новости.
//
// Валидация (все нарушения собираются в один ValidationError):
//   - author_country_id, title, description обязательны;
//   - news_type: пусто, "domestik" или "internasional";
//   - author_country_id и tagged_country_id должны ссылаться на существующие страны.
//
// Поведение:
//   - id, timestamp, likes=0, comments=[] назначаются здесь/в хранилище;
//   - синхронизация владельца страны best effort: ошибка логируется.
func (s *Service) PublishNews(ctx context.Context, in NewsDraft) (*models.News, error) {
	const op = "service/news/PublishNews"

	in.AuthorCountryID = strings.TrimSpace(in.AuthorCountryID)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.ImageHint = strings.TrimSpace(in.ImageHint)
	in.TaggedCountryID = strings.TrimSpace(in.TaggedCountryID)

	lg := log.From(ctx).With("op", op, "author_country_id", in.AuthorCountryID)

	var missing []string
	if in.AuthorCountryID == "" {
		missing = append(missing, "author_country_id")
	}
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}

	newsType, err := models.ParseNewsType(in.NewsType)
	if err != nil {
		missing = append(missing, "news_type")
	}

	if len(missing) > 0 {
		lg.Warn("invalid argument", "fields", missing)
		return nil, fmt.Errorf("%s: %w", op, newValidationError(missing...))
	}

	author, err := s.resolveCountry(ctx, in.AuthorCountryID, "author_country_id")
	if err != nil {
		return nil, lookupError(lg, op, err)
	}

	var tagged *models.Country
	if in.TaggedCountryID != "" {
		tagged, err = s.resolveCountry(ctx, in.TaggedCountryID, "tagged_country_id")
		if err != nil {
			return nil, lookupError(lg, op, err)
		}
	}

	if in.OwnerName != "" && in.OwnerName != author.OwnerName {
		if err := s.storage.UpdateOwnerName(ctx, author.ID, in.OwnerName); err != nil {
			lg.Warn("owner sync failed", "err", err)
		} else {
			author.OwnerName = in.OwnerName
			s.notify(ctx, feed.TopicCountries)
		}
	}

	news, err := s.storage.CreateNews(ctx, models.News{
		Title:         in.Title,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		ImageHint:     in.ImageHint,
		AuthorCountry: *author,
		TaggedCountry: tagged,
		IsMapUpdate:   in.IsMapUpdate,
		Timestamp:     s.timeNow(),
		Likes:         0,
		Comments:      []models.Comment{},
		NewsType:      newsType,
	})
	if err != nil {
		lg.Error("storage error on CreateNews", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	metrics.NewsPublished.WithLabelValues(string(newsType)).Inc()
	s.notify(ctx, feed.TopicNews)

	return news, nil
}

// lookupError разводит ValidationError от resolveCountry и ошибки стораджа.
func lookupError(lg *slog.Logger, op string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		lg.Warn("referenced country not found", "fields", ve.Fields)
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Error("storage error on CountryByID", "err", err)
	return fmt.Errorf("%s: %w", op, ErrInternal)
}

// LikeNews — безусловный +1 к likes.
//
// Поведение/ошибки:
//   - ErrNotFound — новости нет;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) LikeNews(ctx context.Context, id string) (*models.News, error) {
	const op = "service/news/LikeNews"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("id"))
	}

	news, err := s.storage.IncrementLikes(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("news not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on IncrementLikes", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	metrics.NewsLikes.Inc()
	s.notify(ctx, feed.TopicNews)

	return news, nil
}

// CommentNews — комментарий в начало списка comments новости.
//
// Валидация:
//   - NewsID и Text (после TrimSpace) не пусты;
//   - пустой Author заменяется анонимной подписью.
//
// Поведение/ошибки:
//   - ErrNotFound — новости нет;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) CommentNews(ctx context.Context, in CommentNewsInput) (*models.Comment, error) {
	const op = "service/news/CommentNews"

	in.NewsID = strings.TrimSpace(in.NewsID)
	in.Author = strings.TrimSpace(in.Author)
	in.Text = strings.TrimSpace(in.Text)

	lg := log.From(ctx).With("op", op, "news_id", in.NewsID)

	var missing []string
	if in.NewsID == "" {
		missing = append(missing, "news_id")
	}
	if in.Text == "" {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		lg.Warn("invalid argument", "fields", missing)
		return nil, fmt.Errorf("%s: %w", op, newValidationError(missing...))
	}

	if in.Author == "" {
		in.Author = s.anonymousLabel()
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		Author:    in.Author,
		Text:      in.Text,
		Timestamp: s.timeNow(),
	}

	if err := s.storage.PrependComment(ctx, in.NewsID, comment); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("news not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on PrependComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	metrics.CommentsCreated.WithLabelValues("news").Inc()
	s.notify(ctx, feed.TopicNews)

	return &comment, nil
}

// ListNews — лента: timestamp DESC, при равенстве позже вставленная первой.
// Пустой filter.Type — все типы.
func (s *Service) ListNews(ctx context.Context, filter models.NewsFilter) ([]models.News, error) {
	const op = "service/news/ListNews"

	lg := log.From(ctx).With("op", op, "type", string(filter.Type))

	if filter.Type != "" {
		t, err := models.ParseNewsType(string(filter.Type))
		if err != nil {
			lg.Warn("invalid argument: news type")
			return nil, fmt.Errorf("%s: %w", op, newValidationError("type"))
		}
		filter.Type = t
	}

	list, err := s.storage.ListNews(ctx, filter)
	if err != nil {
		lg.Error("storage error on ListNews", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return list, nil
}

// NewsByID — новость по идентификатору.
func (s *Service) NewsByID(ctx context.Context, id string) (*models.News, error) {
	const op = "service/news/NewsByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("id"))
	}

	news, err := s.storage.NewsByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("news not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on NewsByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return news, nil
}
