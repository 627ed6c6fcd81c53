package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/lapa-nations/internal/links"
	"github.com/pribylovaa/lapa-nations/internal/metrics"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/pkg/redact"
	"github.com/pribylovaa/lapa-nations/internal/preview"
)

// Unfurl — метаданные ссылки и вердикт о полезности превью.
//
// Поведение/ошибки:
//   - ValidationError(url) — не абсолютный http(s) URL;
//   - сбой загрузки метаданных не ошибка: превью строится по пустым метаданным;
//   - PreviewError — сбой решения (модель недоступна, таймаут и т.п.).
func (s *Service) Unfurl(ctx context.Context, rawURL string) (*models.PreviewResult, error) {
	const op = "service/preview/Unfurl"

	started := time.Now()
	rawURL = strings.TrimSpace(rawURL)
	lg := log.From(ctx).With("op", op, "url", redact.URL(rawURL))

	if !isAbsoluteHTTP(rawURL) {
		lg.Warn("invalid argument: url")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("url"))
	}

	if s.decider == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	var md models.Metadata
	if s.fetcher != nil {
		fetched, err := s.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			lg.Warn("metadata fetch failed", "err", err)
		} else {
			md = fetched
		}
	}

	decision, err := s.decider.Decide(ctx, rawURL, md)
	if err != nil {
		metrics.RecordUnfurl("failed", started)
		lg.Error("decider failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, &PreviewError{URL: rawURL, Err: err})
	}

	res := &models.PreviewResult{
		Metadata:       md,
		UnfurlDecision: decision,
		Helpful:        preview.IsHelpful(decision, md),
	}

	outcome := "not_helpful"
	if res.Helpful {
		outcome = "helpful"
	}
	metrics.RecordUnfurl(outcome, started)

	return res, nil
}

// AddLink — развернуть ссылку и положить её в начало доски сессии.
// Заметка заполняется шаблоном "# <title или url>".
func (s *Service) AddLink(ctx context.Context, sessionID, rawURL string) (*models.LinkItem, error) {
	const op = "service/preview/AddLink"

	board, err := s.board(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}

	res, err := s.Unfurl(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rawURL = strings.TrimSpace(rawURL)
	item := board.Add(models.LinkItem{
		URL:       rawURL,
		Notes:     links.NoteTemplate(res.Title, rawURL),
		Preview:   *res,
		CreatedAt: s.timeNow(),
	})

	return &item, nil
}

// ListLinks — доска сессии, новые первыми.
func (s *Service) ListLinks(ctx context.Context, sessionID string) ([]models.LinkItem, error) {
	const op = "service/preview/ListLinks"

	board, err := s.board(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}

	return board.List(), nil
}

// DeleteLink — удалить ссылку с доски. Неизвестный id — ErrNotFound.
func (s *Service) DeleteLink(ctx context.Context, sessionID, id string) error {
	const op = "service/preview/DeleteLink"

	board, err := s.board(ctx, op, sessionID)
	if err != nil {
		return err
	}

	if err := board.Delete(strings.TrimSpace(id)); err != nil {
		return s.linkError(ctx, op, id, err)
	}

	return nil
}

// UpdateLinkNotes — заменить заметку. Неизвестный id — ErrNotFound.
func (s *Service) UpdateLinkNotes(ctx context.Context, sessionID, id, notes string) (*models.LinkItem, error) {
	const op = "service/preview/UpdateLinkNotes"

	board, err := s.board(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}

	item, err := board.UpdateNotes(strings.TrimSpace(id), notes)
	if err != nil {
		return nil, s.linkError(ctx, op, id, err)
	}

	return &item, nil
}

func (s *Service) board(ctx context.Context, op, sessionID string) (*links.Board, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		log.From(ctx).With("op", op).Warn("invalid argument: empty session_id")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("session_id"))
	}

	if s.boards == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	return s.boards.Board(sessionID), nil
}

func (s *Service) linkError(ctx context.Context, op, id string, err error) error {
	if errors.Is(err, links.ErrNotFound) {
		log.From(ctx).With("op", op, "id", id).Warn("link not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return fmt.Errorf("%s: %w", op, ErrInternal)
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
