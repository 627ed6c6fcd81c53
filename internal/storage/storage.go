// storage описывает контракты хранилищ lapa-service.
// Реализации: mongo (основное), memory (локальный запуск/тесты),
// redis (сессии и read-through кэш поверх основного), minio (изображения).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/lapa-nations/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (имя страны при включённом уникальном индексе).
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument — нарушены ограничения запроса (тип/размер загрузки).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Storage — разделяемое хранилище коллекций countries, news и globalComments.
type Storage interface {
	// CreateCountry сохраняет страну; ID назначает хранилище.
	// ErrConflict — только при включённой уникальности имён.
	CreateCountry(ctx context.Context, country models.Country) (*models.Country, error)
	// CountryByID возвращает страну; ErrNotFound, если её нет.
	CountryByID(ctx context.Context, id string) (*models.Country, error)
	// CountryByName ищет страну по имени без учёта регистра; ErrNotFound, если её нет.
	CountryByName(ctx context.Context, name string) (*models.Country, error)
	// ListCountries возвращает страны по возрастанию даты регистрации.
	ListCountries(ctx context.Context) ([]models.Country, error)
	// UpdateOwnerName меняет владельца канонической записи страны.
	UpdateOwnerName(ctx context.Context, id, ownerName string) error

	// CreateNews сохраняет новость; ID назначает хранилище.
	CreateNews(ctx context.Context, news models.News) (*models.News, error)
	// NewsByID возвращает новость; ErrNotFound, если её нет.
	NewsByID(ctx context.Context, id string) (*models.News, error)
	// ListNews возвращает ленту: timestamp DESC, при равенстве — позже вставленная первой.
	ListNews(ctx context.Context, filter models.NewsFilter) ([]models.News, error)
	// IncrementLikes атомарно увеличивает likes на 1 и возвращает новость после изменения.
	IncrementLikes(ctx context.Context, id string) (*models.News, error)
	// PrependComment атомарно добавляет комментарий в начало news.comments.
	PrependComment(ctx context.Context, newsID string, comment models.Comment) error

	// CreateGlobalComment сохраняет комментарий глобального потока; ID назначает хранилище.
	CreateGlobalComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	// ListGlobalComments возвращает не более limit последних комментариев, новые первыми.
	ListGlobalComments(ctx context.Context, limit int64) ([]models.Comment, error)
}

// Sessions — состояние клиентских сессий.
type Sessions interface {
	// Session возвращает сессию; ErrNotFound, если её нет или истёк TTL.
	Session(ctx context.Context, id string) (*models.Session, error)
	// SaveSession сохраняет сессию целиком (upsert).
	SaveSession(ctx context.Context, session models.Session) error
}

// UploadInfo — информация для клиента о presigned PUT загрузке.
//   - UploadURL: конечная URL для PUT-запроса.
//   - ImageKey: ключ будущего объекта в бакете.
//   - Expires: время жизни подписи.
//   - RequiredHeader: заголовки, которые клиент обязан передать при PUT.
type UploadInfo struct {
	UploadURL      string
	ImageKey       string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// Images — загрузка изображений к новостям.
type Images interface {
	// ImageUploadURL генерирует presigned PUT; ErrInvalidArgument при неверном типе/размере.
	ImageUploadURL(ctx context.Context, countryID, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckImageUpload подтверждает загрузку и возвращает публичный URL.
	// ErrNotFound — объекта нет; ErrInvalidArgument — чужой ключ или нарушены ограничения.
	CheckImageUpload(ctx context.Context, countryID, key string) (string, error)
}
