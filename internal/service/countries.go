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

// RegisterCountryInput — регистрация страны.
// SessionID необязателен: если задан, новая страна становится текущей для сессии.
type RegisterCountryInput struct {
	CountryName string
	OwnerName   string
	SessionID   string
}

// RegisterCountry — регистрация новой страны.
//
// Валидация:
//   - CountryName после TrimSpace не пуст;
//   - пустой OwnerName заменяется плейсхолдером из конфигурации.
//
// Поведение/ошибки:
//   - DuplicateNameError — имя занято без учёта регистра;
//   - ErrConflict — коллизию поймал уникальный индекс хранилища;
//   - ErrInternal — прочие ошибки стораджа.
//
// Проверка имени и вставка — два отдельных обращения к хранилищу.
func (s *Service) RegisterCountry(ctx context.Context, in RegisterCountryInput) (*models.Country, error) {
	const op = "service/countries/RegisterCountry"

	in.CountryName = strings.TrimSpace(in.CountryName)
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.SessionID = strings.TrimSpace(in.SessionID)

	lg := log.From(ctx).With("op", op, "country_name", in.CountryName)

	if in.CountryName == "" {
		lg.Warn("invalid argument: empty country_name")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("country_name"))
	}

	if in.OwnerName == "" {
		in.OwnerName = s.ownerPlaceholder()
	}

	existing, err := s.storage.CountryByName(ctx, in.CountryName)
	switch {
	case err == nil:
		lg.Warn("duplicate country name", "existing_id", existing.ID)
		return nil, fmt.Errorf("%s: %w", op, &DuplicateNameError{Name: existing.CountryName})
	case !errors.Is(err, storage.ErrNotFound):
		lg.Error("storage error on CountryByName", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	country, err := s.storage.CreateCountry(ctx, models.Country{
		CountryName:      in.CountryName,
		OwnerName:        in.OwnerName,
		RegistrationDate: s.timeNow(),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("conflict")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		default:
			lg.Error("storage error on CreateCountry", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	metrics.CountriesRegistered.Inc()

	if in.SessionID != "" {
		if err := s.bindSessionCountry(ctx, in.SessionID, country.ID); err != nil {
			lg.Warn("session bind failed", "session_id", in.SessionID, "err", err)
		}
	}

	s.notify(ctx, feed.TopicCountries)

	return country, nil
}

// ListCountries — все страны по возрастанию даты регистрации.
func (s *Service) ListCountries(ctx context.Context) ([]models.Country, error) {
	const op = "service/countries/ListCountries"

	list, err := s.storage.ListCountries(ctx)
	if err != nil {
		log.From(ctx).With("op", op).Error("storage error on ListCountries", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return list, nil
}

// CountryByID — страна по идентификатору.
func (s *Service) CountryByID(ctx context.Context, id string) (*models.Country, error) {
	const op = "service/countries/CountryByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, newValidationError("id"))
	}

	country, err := s.storage.CountryByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("country not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on CountryByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return country, nil
}

// resolveCountry ищет страну по id, на который сослался клиент.
// Отсутствие страны — ValidationError по полю field.
func (s *Service) resolveCountry(ctx context.Context, id, field string) (*models.Country, error) {
	country, err := s.storage.CountryByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newValidationError(field)
		}

		return nil, err
	}

	return country, nil
}
