package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName — страна с таким именем уже зарегистрирована.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrConflict — конфликт уникальности, обнаруженный хранилищем.
	ErrConflict = errors.New("conflict")
	// ErrPreview — не удалось получить вердикт о превью.
	ErrPreview = errors.New("preview failed")
	// ErrUnavailable — операция отключена конфигурацией.
	ErrUnavailable = errors.New("unavailable")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// ValidationError — отсутствующие или неверные поля запроса.
type ValidationError struct {
	Fields []string
}

func newValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "missing or invalid field(s): " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// DuplicateNameError — имя страны занято (без учёта регистра).
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a country named %s is already registered", e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// PreviewError — сбой решения о превью для URL.
type PreviewError struct {
	URL string
	Err error
}

func (e *PreviewError) Error() string {
	return fmt.Sprintf("could not decide preview for %s", e.URL)
}

func (e *PreviewError) Unwrap() []error { return []error{ErrPreview, e.Err} }
