package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

const allField = "all"

// errStaleFill — снимок устарел: после чтения хранилища прошла инвалидация.
var errStaleFill = errors.New("stale cache fill")

// Cache — read-through кэш списков поверх основного хранилища.
//
// Политика:
//   - основное хранилище — источник истины, запись всегда идёт в него;
//   - после успешной записи затрагиваемые ключи удаляются, а их поколение растёт;
//   - чтение списков сначала смотрит в Redis, промах заполняет кэш с TTL;
//   - заполнение после промаха условное (WATCH на поколение): если между чтением
//     основного хранилища и записью в кэш прошла инвалидация, снимок не пишется;
//   - ошибки Redis не ломают операцию: чтение уходит напрямую в основное хранилище.
//
// Остальные методы storage.Storage проксируются через встраивание.
type Cache struct {
	storage.Storage

	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewCache оборачивает next. Пустой prefix заменяется на "lapa".
func NewCache(next storage.Storage, rdb *goredis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "lapa"
	}

	return &Cache{Storage: next, rdb: rdb, prefix: prefix, ttl: ttl}
}

var _ storage.Storage = (*Cache)(nil)

func (c *Cache) countriesKey() string { return key(c.prefix, "cache", "countries") }
func (c *Cache) newsKey() string      { return key(c.prefix, "cache", "news") }
func (c *Cache) globalKey() string    { return key(c.prefix, "cache", "global") }

func (c *Cache) ListCountries(ctx context.Context) ([]models.Country, error) {
	var out []models.Country
	if c.getField(ctx, c.countriesKey(), allField, &out) {
		return out, nil
	}

	gen, genOK := c.generation(ctx, c.countriesKey())

	out, err := c.Storage.ListCountries(ctx)
	if err != nil {
		return nil, err
	}

	if genOK {
		c.setField(ctx, c.countriesKey(), allField, gen, out)
	}
	return out, nil
}

func (c *Cache) ListNews(ctx context.Context, filter models.NewsFilter) ([]models.News, error) {
	field := string(filter.Type)
	if field == "" {
		field = allField
	}

	var out []models.News
	if c.getField(ctx, c.newsKey(), field, &out) {
		return out, nil
	}

	gen, genOK := c.generation(ctx, c.newsKey())

	out, err := c.Storage.ListNews(ctx, filter)
	if err != nil {
		return nil, err
	}

	if genOK {
		c.setField(ctx, c.newsKey(), field, gen, out)
	}
	return out, nil
}

func (c *Cache) ListGlobalComments(ctx context.Context, limit int64) ([]models.Comment, error) {
	field := strconv.FormatInt(limit, 10)

	var out []models.Comment
	if c.getField(ctx, c.globalKey(), field, &out) {
		return out, nil
	}

	gen, genOK := c.generation(ctx, c.globalKey())

	out, err := c.Storage.ListGlobalComments(ctx, limit)
	if err != nil {
		return nil, err
	}

	if genOK {
		c.setField(ctx, c.globalKey(), field, gen, out)
	}
	return out, nil
}

func (c *Cache) CreateCountry(ctx context.Context, country models.Country) (*models.Country, error) {
	out, err := c.Storage.CreateCountry(ctx, country)
	if err == nil {
		c.invalidate(ctx, c.countriesKey())
	}

	return out, err
}

func (c *Cache) UpdateOwnerName(ctx context.Context, id, ownerName string) error {
	err := c.Storage.UpdateOwnerName(ctx, id, ownerName)
	if err == nil {
		c.invalidate(ctx, c.countriesKey())
	}

	return err
}

func (c *Cache) CreateNews(ctx context.Context, news models.News) (*models.News, error) {
	out, err := c.Storage.CreateNews(ctx, news)
	if err == nil {
		c.invalidate(ctx, c.newsKey())
	}

	return out, err
}

func (c *Cache) IncrementLikes(ctx context.Context, id string) (*models.News, error) {
	out, err := c.Storage.IncrementLikes(ctx, id)
	if err == nil {
		c.invalidate(ctx, c.newsKey())
	}

	return out, err
}

func (c *Cache) PrependComment(ctx context.Context, newsID string, comment models.Comment) error {
	err := c.Storage.PrependComment(ctx, newsID, comment)
	if err == nil {
		c.invalidate(ctx, c.newsKey())
	}

	return err
}

func (c *Cache) CreateGlobalComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	out, err := c.Storage.CreateGlobalComment(ctx, comment)
	if err == nil {
		c.invalidate(ctx, c.globalKey())
	}

	return out, err
}

// getField читает JSON из поля хэша. false — промах или ошибка Redis.
func (c *Cache) getField(ctx context.Context, k, field string, dst any) bool {
	raw, err := c.rdb.HGet(ctx, k, field).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			log.From(ctx).Warn("cache_read_failed", slog.String("key", k), slog.String("err", err.Error()))
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.From(ctx).Warn("cache_decode_failed", slog.String("key", k), slog.String("err", err.Error()))
		return false
	}

	return true
}

// generation — текущее поколение ключа k (0, если инвалидаций не было).
// false — Redis недоступен, заполнять кэш не нужно.
func (c *Cache) generation(ctx context.Context, k string) (int64, bool) {
	gen, err := c.rdb.Get(ctx, genKey(k)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		log.From(ctx).Warn("cache_read_failed", slog.String("key", genKey(k)), slog.String("err", err.Error()))
		return 0, false
	}

	return gen, true
}

// setField пишет снимок, только если поколение ключа всё ещё равно gen.
func (c *Cache) setField(ctx context.Context, k, field string, gen int64, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	gk := genKey(k)
	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, k, field, raw)
			if c.ttl > 0 {
				pipe.Expire(ctx, k, c.ttl)
			}
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, goredis.TxFailedErr):
		log.From(ctx).Debug("cache_fill_skipped", slog.String("key", k))
	default:
		log.From(ctx).Warn("cache_write_failed", slog.String("key", k), slog.String("err", err.Error()))
	}
}

// invalidate удаляет ключ и увеличивает его поколение одной транзакцией.
func (c *Cache) invalidate(ctx context.Context, k string) {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, genKey(k))
	pipe.Del(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		log.From(ctx).Warn("cache_invalidate_failed", slog.String("key", k), slog.String("err", err.Error()))
	}
}

func genKey(k string) string { return k + ":gen" }
