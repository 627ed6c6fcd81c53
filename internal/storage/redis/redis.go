// redis — вспомогательные хранилища поверх Redis:
//   - sessions.go: storage.Sessions (Redis Hash с TTL);
//   - cache.go: read-through кэш списков поверх основного storage.Storage;
//   - bus.go: pub/sub шина уведомлений ленты между инстансами.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// NewClient создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение (fail-fast на старте).
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	const op = "storage/redis/NewClient"

	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := goredis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return rdb, nil
}

func key(prefix string, parts ...string) string {
	k := prefix
	for _, p := range parts {
		k += ":" + p
	}

	return k
}
