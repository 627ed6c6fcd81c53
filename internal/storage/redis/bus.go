package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Bus — шина уведомлений ленты через Redis Pub/Sub.
// Каждое сообщение — имя топика; все инстансы получают его и перечитывают коллекцию.
type Bus struct {
	rdb     *goredis.Client
	channel string
}

// NewBus создаёт шину на канале "<prefix>:feed".
func NewBus(rdb *goredis.Client, prefix string) *Bus {
	if prefix == "" {
		prefix = "lapa"
	}

	return &Bus{rdb: rdb, channel: key(prefix, "feed")}
}

// Publish рассылает уведомление об изменении топика.
func (b *Bus) Publish(ctx context.Context, topic string) error {
	const op = "storage/redis/Bus.Publish"

	if err := b.rdb.Publish(ctx, b.channel, topic).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Listen подписывается на канал и вызывает fn для каждого уведомления.
// Блокируется до отмены ctx.
func (b *Bus) Listen(ctx context.Context, fn func(topic string)) error {
	const op = "storage/redis/Bus.Listen"

	ps := b.rdb.Subscribe(ctx, b.channel)
	defer ps.Close()

	// Дожидаемся подтверждения подписки, чтобы не терять ранние сообщения.
	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%s: subscribe: %w", op, err)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(msg.Payload)
		}
	}
}
