package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// ImageUploadURL — presigned PUT для картинки будущей новости страны.
//
// Поведение/ошибки:
//   - ErrUnavailable — хранилище изображений не настроено;
//   - ErrNotFound — страны нет;
//   - ErrInvalidArgument — тип/размер вне ограничений;
//   - ErrInternal — иные ошибки.
func (s *Service) ImageUploadURL(ctx context.Context, countryID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service/images/ImageUploadURL"

	countryID = strings.TrimSpace(countryID)
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	lg := log.From(ctx).With("op", op, "country_id", countryID, "content_type", contentType)

	if s.images == nil {
		lg.Warn("images storage disabled")
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	if err := s.checkCountry(ctx, op, countryID); err != nil {
		return nil, err
	}

	info, err := s.images.ImageUploadURL(ctx, countryID, contentType, contentLength)
	if err != nil {
		return nil, imageError(lg, op, err)
	}

	return info, nil
}

// CheckImageUpload — подтверждение загрузки; возвращает публичный URL
// для NewsDraft.ImageURL.
func (s *Service) CheckImageUpload(ctx context.Context, countryID, key string) (string, error) {
	const op = "service/images/CheckImageUpload"

	countryID = strings.TrimSpace(countryID)
	key = strings.TrimSpace(key)
	lg := log.From(ctx).With("op", op, "country_id", countryID, "key", key)

	if s.images == nil {
		lg.Warn("images storage disabled")
		return "", fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	if key == "" {
		lg.Warn("invalid argument: empty key")
		return "", fmt.Errorf("%s: %w", op, newValidationError("image_key"))
	}

	if err := s.checkCountry(ctx, op, countryID); err != nil {
		return "", err
	}

	u, err := s.images.CheckImageUpload(ctx, countryID, key)
	if err != nil {
		return "", imageError(lg, op, err)
	}

	return u, nil
}

func (s *Service) checkCountry(ctx context.Context, op, countryID string) error {
	lg := log.From(ctx).With("op", op, "country_id", countryID)

	if countryID == "" {
		lg.Warn("invalid argument: empty country_id")
		return fmt.Errorf("%s: %w", op, newValidationError("country_id"))
	}

	if _, err := s.storage.CountryByID(ctx, countryID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("country not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on CountryByID", "err", err)
			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nil
}

func imageError(lg *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn("image constraints violated")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("image not uploaded")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		lg.Error("images storage error", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}
