package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/lapa-nations/internal/feed"
	"github.com/pribylovaa/lapa-nations/internal/metrics"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// GlobalCommentInput — сообщение в глобальный поток.
// Автор определяется так: AuthorCountryID, затем текущая страна сессии,
// затем Author (или анонимная подпись).
type GlobalCommentInput struct {
	AuthorCountryID string
	Author          string
	Text            string
	SessionID       string
}

// PostGlobalComment — добавление комментария в глобальный поток.
//
// Валидация:
//   - Text после TrimSpace не пуст;
//   - AuthorCountryID, если задан, ссылается на существующую страну;
//   - при feed.global_requires_identity без страны — ValidationError(author_country_id).
//
// Поведение/ошибки:
//   - ErrInternal — ошибки стораджа.
func (s *Service) PostGlobalComment(ctx context.Context, in GlobalCommentInput) (*models.Comment, error) {
	const op = "service/comments/PostGlobalComment"

	in.AuthorCountryID = strings.TrimSpace(in.AuthorCountryID)
	in.Author = strings.TrimSpace(in.Author)
	in.Text = strings.TrimSpace(in.Text)
	in.SessionID = strings.TrimSpace(in.SessionID)

	lg := log.From(ctx).With("op", op, "author_country_id", in.AuthorCountryID)

	if in.Text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("text"))
	}

	var country *models.Country
	switch {
	case in.AuthorCountryID != "":
		c, err := s.resolveCountry(ctx, in.AuthorCountryID, "author_country_id")
		if err != nil {
			return nil, lookupError(lg, op, err)
		}
		country = c
	case in.SessionID != "":
		country = s.sessionCountry(ctx, in.SessionID)
	}

	author := in.Author
	switch {
	case country != nil:
		author = country.CountryName
	case s.cfg.Feed.GlobalRequiresIdentity:
		lg.Warn("invalid argument: identity required")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("author_country_id"))
	case author == "":
		author = s.anonymousLabel()
	}

	comment, err := s.storage.CreateGlobalComment(ctx, models.Comment{
		Author:    author,
		Text:      in.Text,
		Timestamp: s.timeNow(),
	})
	if err != nil {
		lg.Error("storage error on CreateGlobalComment", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	metrics.CommentsCreated.WithLabelValues("global").Inc()
	s.notify(ctx, feed.TopicGlobalComments)

	return comment, nil
}

// ListGlobalComments — последние комментарии глобального потока, новые первыми.
// Размер выборки ограничен feed.global_limit.
func (s *Service) ListGlobalComments(ctx context.Context) ([]models.Comment, error) {
	const op = "service/comments/ListGlobalComments"

	list, err := s.storage.ListGlobalComments(ctx, s.cfg.Feed.GlobalLimit)
	if err != nil {
		log.From(ctx).With("op", op).Error("storage error on ListGlobalComments", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return list, nil
}

// sessionCountry — текущая страна сессии или nil.
// Сессия без страны или со ссылкой на удалённую страну трактуется как анонимная.
func (s *Service) sessionCountry(ctx context.Context, sessionID string) *models.Country {
	if s.sessions == nil {
		return nil
	}

	lg := log.From(ctx).With("session_id", sessionID)

	sess, err := s.sessions.Session(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			lg.Warn("session read failed", "err", err)
		}
		return nil
	}

	if sess.CountryID == "" {
		return nil
	}

	country, err := s.storage.CountryByID(ctx, sess.CountryID)
	if err != nil {
		lg.Warn("session country unavailable", "country_id", sess.CountryID, "err", err)
		return nil
	}

	return country
}
