// config реализует конфигурацию lapa-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// DriverMongo — основное хранилище (MongoDB).
	DriverMongo = "mongo"
	// DriverMemory — хранилище в памяти процесса (локальный запуск, демо).
	DriverMemory = "memory"

	// DeciderOllama — решение о превью через LLM (Ollama /api/generate).
	DeciderOllama = "ollama"
	// DeciderHeuristic — офлайн-решение по наличию метаданных.
	DeciderHeuristic = "heuristic"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Storage  StorageConfig  `yaml:"storage"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Images   ImagesConfig   `yaml:"images"`
	Identity IdentityConfig `yaml:"identity"`
	Feed     FeedConfig     `yaml:"feed"`
	Preview  PreviewConfig  `yaml:"preview"`
	Links    LinksConfig    `yaml:"links"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — REST/SSE API, health и метрики.
type HTTPConfig struct {
	Host     string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api"`
}

// GRPCConfig — gRPC-сервер (health-сервис для оркестратора).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50060"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string {
	return net.JoinHostPort(g.Host, g.Port)
}

// StorageConfig — выбор реализации хранилища.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`
}

// DBConfig — настройки подключения к MongoDB. Обязателен для driver=mongo.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// RedisConfig — сессии, read-through кэш и шина уведомлений между инстансами.
// Пустой URL отключает Redis: сессии хранятся в памяти, кэш и шина — локальные.
type RedisConfig struct {
	URL        string        `yaml:"url" env:"REDIS_URL"`
	Prefix     string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"lapa"`
	CacheTTL   time.Duration `yaml:"cache_ttl" env:"REDIS_CACHE_TTL" env-default:"30s"`
	SessionTTL time.Duration `yaml:"session_ttl" env:"REDIS_SESSION_TTL" env-default:"720h"`
}

// S3Config — MinIO/S3 для изображений новостей. Пустой Endpoint отключает загрузку.
type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	RootUser      string        `yaml:"root_user" env:"S3_ROOT_USER"`
	RootPassword  string        `yaml:"root_password" env:"S3_ROOT_PASSWORD"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-default:"news-images"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"10m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// ImagesConfig — ограничения на загружаемые изображения.
type ImagesConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"IMAGES_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"IMAGES_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
}

// IdentityConfig — реестр стран.
type IdentityConfig struct {
	// Подставляется, если владелец не указан.
	DefaultOwnerName string `yaml:"default_owner_name" env:"DEFAULT_OWNER_NAME" env-default:"Tidak Diketahui"`
	// Подставляется вместо пустого автора комментария.
	AnonymousAuthor string `yaml:"anonymous_author" env:"ANONYMOUS_AUTHOR" env-default:"Pengguna Anonim"`
	// Уникальный индекс по имени: гонка регистраций даёт ErrConflict вместо дубликата.
	EnforceUniqueNames bool `yaml:"enforce_unique_names" env:"ENFORCE_UNIQUE_NAMES" env-default:"false"`
}

// FeedConfig — лента и глобальный поток комментариев.
type FeedConfig struct {
	GlobalRequiresIdentity bool  `yaml:"global_requires_identity" env:"GLOBAL_REQUIRES_IDENTITY" env-default:"false"`
	GlobalLimit            int64 `yaml:"global_limit" env:"GLOBAL_LIMIT" env-default:"200"`
}

// PreviewConfig — разворачивание ссылок.
type PreviewConfig struct {
	Decider      string        `yaml:"decider" env:"PREVIEW_DECIDER" env-default:"ollama"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"PREVIEW_FETCH_TIMEOUT" env-default:"5s"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"PREVIEW_MAX_BODY_BYTES" env-default:"1048576"`
	UserAgent    string        `yaml:"user_agent" env:"PREVIEW_USER_AGENT" env-default:"lapa-unfurl/1.0"`
	// Интервал между запросами к одному хосту.
	HostInterval time.Duration `yaml:"host_interval" env:"PREVIEW_HOST_INTERVAL" env-default:"500ms"`
	LLM          LLMConfig     `yaml:"llm"`
}

// LLMConfig — параметры Ollama.
type LLMConfig struct {
	URL         string        `yaml:"url" env:"LLM_URL" env-default:"http://localhost:11434"`
	Model       string        `yaml:"model" env:"LLM_MODEL" env-default:"gemma3:4b"`
	Timeout     time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"30s"`
	Temperature float64       `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.1"`
	NumPredict  int           `yaml:"num_predict" env:"LLM_NUM_PREDICT" env-default:"64"`
}

// LinksConfig — сессионные доски ссылок.
type LinksConfig struct {
	MaxSessions int `yaml:"max_sessions" env:"LINKS_MAX_SESSIONS" env-default:"10000"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"10s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return readFile(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return readFile(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return readFile("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for storage.driver=%s", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q", DriverMongo, DriverMemory)
	}

	switch c.Preview.Decider {
	case DeciderOllama:
		if c.Preview.LLM.URL == "" || c.Preview.LLM.Model == "" {
			return fmt.Errorf("preview.llm.url and preview.llm.model are required for decider=%s", DeciderOllama)
		}
	case DeciderHeuristic:
	default:
		return fmt.Errorf("preview.decider must be %q or %q", DeciderOllama, DeciderHeuristic)
	}

	if c.Preview.MaxBodyBytes <= 0 {
		return fmt.Errorf("preview.max_body_bytes must be > 0")
	}

	if c.Preview.FetchTimeout <= 0 {
		return fmt.Errorf("preview.fetch_timeout must be > 0")
	}

	if c.Feed.GlobalLimit <= 0 {
		return fmt.Errorf("feed.global_limit must be > 0")
	}

	if c.Links.MaxSessions <= 0 {
		return fmt.Errorf("links.max_sessions must be > 0")
	}

	if c.Redis.URL != "" && c.Redis.SessionTTL < time.Minute {
		return fmt.Errorf("redis.session_ttl must be at least 1m")
	}

	if c.S3.Endpoint != "" {
		if c.S3.RootUser == "" || c.S3.RootPassword == "" || c.S3.Bucket == "" {
			return fmt.Errorf("s3.root_user, s3.root_password and s3.bucket are required when s3.endpoint is set")
		}

		if c.Images.MaxSizeBytes <= 0 {
			return fmt.Errorf("images.max_size_bytes must be > 0")
		}

		if len(c.Images.AllowedContentTypes) == 0 {
			return fmt.Errorf("images.allowed_content_types must not be empty")
		}
	}

	return nil
}
