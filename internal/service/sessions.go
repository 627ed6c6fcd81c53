package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// SessionPatch — частичное обновление сессии; nil-поля не меняются.
// Пустой CountryID сбрасывает текущую страну.
type SessionPatch struct {
	CountryID        *string
	TermsAccepted    *bool
	AlertDismissed   *bool
	DevInfoDismissed *bool
}

// SessionByID — состояние сессии. Неизвестная сессия отдаётся пустой.
func (s *Service) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	const op = "service/sessions/SessionByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "session_id", id)

	if id == "" {
		lg.Warn("invalid argument: empty session_id")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("session_id"))
	}

	if s.sessions == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	sess, err := s.loadSession(ctx, id)
	if err != nil {
		lg.Error("storage error on Session", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return sess, nil
}

// UpdateSession — применение патча к сессии.
//
// Поведение/ошибки:
//   - ErrNotFound — CountryID ссылается на несуществующую страну;
//   - ErrInternal — ошибки стораджа.
func (s *Service) UpdateSession(ctx context.Context, id string, patch SessionPatch) (*models.Session, error) {
	const op = "service/sessions/UpdateSession"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "session_id", id)

	if id == "" {
		lg.Warn("invalid argument: empty session_id")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("session_id"))
	}

	if s.sessions == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	if patch.CountryID != nil {
		cid := strings.TrimSpace(*patch.CountryID)
		patch.CountryID = &cid

		if cid != "" {
			if _, err := s.storage.CountryByID(ctx, cid); err != nil {
				switch {
				case errors.Is(err, storage.ErrNotFound):
					lg.Warn("country not found", "country_id", cid)
					return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
				default:
					lg.Error("storage error on CountryByID", "err", err)
					return nil, fmt.Errorf("%s: %w", op, ErrInternal)
				}
			}
		}
	}

	sess, err := s.loadSession(ctx, id)
	if err != nil {
		lg.Error("storage error on Session", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if patch.CountryID != nil {
		sess.CountryID = *patch.CountryID
	}
	if patch.TermsAccepted != nil {
		sess.TermsAccepted = *patch.TermsAccepted
	}
	if patch.AlertDismissed != nil {
		sess.AlertDismissed = *patch.AlertDismissed
	}
	if patch.DevInfoDismissed != nil {
		sess.DevInfoDismissed = *patch.DevInfoDismissed
	}
	sess.UpdatedAt = s.timeNow()

	if err := s.sessions.SaveSession(ctx, *sess); err != nil {
		lg.Error("storage error on SaveSession", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return sess, nil
}

// loadSession читает сессию; отсутствие — пустая сессия с данным id.
func (s *Service) loadSession(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.sessions.Session(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &models.Session{ID: id}, nil
		}
		return nil, err
	}

	return sess, nil
}

// bindSessionCountry делает страну текущей для сессии.
func (s *Service) bindSessionCountry(ctx context.Context, sessionID, countryID string) error {
	if s.sessions == nil {
		return nil
	}

	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.CountryID = countryID
	sess.UpdatedAt = s.timeNow()

	return s.sessions.SaveSession(ctx, *sess)
}
