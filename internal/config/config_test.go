package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return path
}

// chdir — смена текущего рабочего каталога с автоматическим откатом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// Полный корректный YAML (не зависит от дефолтов).
const sampleYAML = `
env: "prod"
http:
  host: "127.0.0.1"
  port: "9090"
  base_path: "/v1"
grpc:
  host: "127.0.0.1"
  port: "6001"
storage:
  driver: "mongo"
db:
  url: "mongodb://localhost:27017/lapa"
redis:
  url: "redis://localhost:6379/0"
  prefix: "ulnt"
  cache_ttl: 45s
  session_ttl: 24h
s3:
  endpoint: "http://minio:9000"
  root_user: "root"
  root_password: "rootpass"
  bucket: "images"
  presign_ttl: "17m"
  public_base_url: "http://cdn.local/images"
images:
  max_size_bytes: 1048576
  allowed_content_types: ["image/jpeg", "image/webp"]
identity:
  default_owner_name: "Unknown"
  anonymous_author: "Anonymous"
  enforce_unique_names: true
feed:
  global_requires_identity: true
  global_limit: 50
preview:
  decider: "heuristic"
  fetch_timeout: 3s
  max_body_bytes: 65536
  user_agent: "lapa-bot/2"
  host_interval: 1s
links:
  max_sessions: 10
timeouts:
  service: 7s
`

// Минимально валидный YAML: только обязательные поля, остальное — через env-default.
const minimalYAML = `
db:
  url: "mongodb://localhost/lapa-min"
`

// Некорректный YAML — для проверки ошибок парсинга.
const brokenYAML = `
db:
  url: "mongodb://broken"
images:
  allowed_content_types: ["image/jpeg"
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := HTTPConfig{Host: "127.0.0.1", Port: "8080"}
	require.Equal(t, "127.0.0.1:8080", cfg.Addr())
}

func TestGRPCConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := GRPCConfig{Host: "::1", Port: "50060"}
	require.Equal(t, "[::1]:50060", cfg.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr())
	require.Equal(t, "/v1", cfg.HTTP.BasePath)
	require.Equal(t, "6001", cfg.GRPC.Port)

	require.Equal(t, DriverMongo, cfg.Storage.Driver)
	require.Equal(t, "mongodb://localhost:27017/lapa", cfg.DB.URL)

	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	require.Equal(t, "ulnt", cfg.Redis.Prefix)
	require.Equal(t, 45*time.Second, cfg.Redis.CacheTTL)
	require.Equal(t, 24*time.Hour, cfg.Redis.SessionTTL)

	require.Equal(t, "images", cfg.S3.Bucket)
	require.Equal(t, 17*time.Minute, cfg.S3.PresignTTL)
	require.EqualValues(t, 1048576, cfg.Images.MaxSizeBytes)
	require.ElementsMatch(t, []string{"image/jpeg", "image/webp"}, cfg.Images.AllowedContentTypes)

	require.Equal(t, "Unknown", cfg.Identity.DefaultOwnerName)
	require.Equal(t, "Anonymous", cfg.Identity.AnonymousAuthor)
	require.True(t, cfg.Identity.EnforceUniqueNames)

	require.True(t, cfg.Feed.GlobalRequiresIdentity)
	require.EqualValues(t, 50, cfg.Feed.GlobalLimit)

	require.Equal(t, DeciderHeuristic, cfg.Preview.Decider)
	require.Equal(t, 3*time.Second, cfg.Preview.FetchTimeout)
	require.EqualValues(t, 65536, cfg.Preview.MaxBodyBytes)
	require.Equal(t, "lapa-bot/2", cfg.Preview.UserAgent)
	require.Equal(t, time.Second, cfg.Preview.HostInterval)

	require.Equal(t, 10, cfg.Links.MaxSessions)
	require.Equal(t, 7*time.Second, cfg.Timeouts.Service)
}

func TestLoad_WithExplicitPath_FileDoesNotExist(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(missing)
	require.Error(t, err)
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
}

func TestLoad_WithCONFIG_PATH_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)

	// Значения по умолчанию из env-default.
	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	require.Equal(t, "/api", cfg.HTTP.BasePath)
	require.Equal(t, "50060", cfg.GRPC.Port)
	require.Equal(t, DriverMongo, cfg.Storage.Driver)
	require.Empty(t, cfg.Redis.URL)
	require.Empty(t, cfg.S3.Endpoint)

	require.Equal(t, "Tidak Diketahui", cfg.Identity.DefaultOwnerName)
	require.Equal(t, "Pengguna Anonim", cfg.Identity.AnonymousAuthor)
	require.False(t, cfg.Identity.EnforceUniqueNames)
	require.False(t, cfg.Feed.GlobalRequiresIdentity)

	require.Equal(t, DeciderOllama, cfg.Preview.Decider)
	require.Equal(t, "http://localhost:11434", cfg.Preview.LLM.URL)
	require.Equal(t, 30*time.Second, cfg.Preview.LLM.Timeout)
	require.EqualValues(t, 1<<20, cfg.Preview.MaxBodyBytes)

	require.Equal(t, 10000, cfg.Links.MaxSessions)
	require.Equal(t, 10*time.Second, cfg.Timeouts.Service)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "mongodb://localhost:27017/lapa", cfg.DB.URL)
}

func TestLoad_EnvOnly_MemoryDriver(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PREVIEW_DECIDER", "heuristic")
	t.Setenv("ENV", "dev")
	t.Setenv("HTTP_PORT", "7001")
	t.Setenv("IMAGES_ALLOWED_CONTENT_TYPES", "image/png,image/gif")
	t.Setenv("GLOBAL_REQUIRES_IDENTITY", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Equal(t, DeciderHeuristic, cfg.Preview.Decider)
	require.Equal(t, "7001", cfg.HTTP.Port)
	require.ElementsMatch(t, []string{"image/png", "image/gif"}, cfg.Images.AllowedContentTypes)
	require.True(t, cfg.Feed.GlobalRequiresIdentity)
}

func TestLoad_Priority_ExplicitWinsOverEnvAndLocal(t *testing.T) {
	dir := t.TempDir()

	explicit := writeFile(t, dir, "explicit.yaml", `
env: "prod"
db: { url: "mongodb://explicit/db" }
`)
	badEnvPath := writeFile(t, dir, "env_bad.yaml", brokenYAML)
	t.Setenv("CONFIG_PATH", badEnvPath)

	writeFile(t, dir, "local.yaml", `
env: "local"
db: { url: "mongodb://local/db" }
`)

	chdir(t, dir)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "mongodb://explicit/db", cfg.DB.URL)
}

func TestLoad_Priority_ENVWinsOverLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, dir, "local.yaml", `
env: "local"
db: { url: "mongodb://local/db" }
`)
	envPath := writeFile(t, dir, "from_env.yaml", `
env: "dev"
db: { url: "mongodb://env/db" }
`)
	t.Setenv("CONFIG_PATH", envPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "mongodb://env/db", cfg.DB.URL)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			Storage: StorageConfig{Driver: DriverMemory},
			Preview: PreviewConfig{
				Decider:      DeciderHeuristic,
				FetchTimeout: time.Second,
				MaxBodyBytes: 1024,
			},
			Feed:  FeedConfig{GlobalLimit: 10},
			Links: LinksConfig{MaxSessions: 1},
		}
	}

	base := valid()
	require.NoError(t, base.validate())

	cases := map[string]func(c *Config){
		"unknown driver":      func(c *Config) { c.Storage.Driver = "sqlite" },
		"mongo without url":   func(c *Config) { c.Storage.Driver = DriverMongo },
		"unknown decider":     func(c *Config) { c.Preview.Decider = "coin" },
		"ollama without url":  func(c *Config) { c.Preview.Decider = DeciderOllama },
		"zero body limit":     func(c *Config) { c.Preview.MaxBodyBytes = 0 },
		"zero global limit":   func(c *Config) { c.Feed.GlobalLimit = 0 },
		"zero link sessions":  func(c *Config) { c.Links.MaxSessions = 0 },
		"s3 without creds":    func(c *Config) { c.S3.Endpoint = "http://minio:9000" },
		"short session ttl":   func(c *Config) { c.Redis.URL = "redis://x"; c.Redis.SessionTTL = time.Second },
		"zero fetch timeout":  func(c *Config) { c.Preview.FetchTimeout = 0 },
	}

	for name, mutate := range cases {
		c := valid()
		mutate(&c)
		require.Error(t, c.validate(), name)
	}
}
