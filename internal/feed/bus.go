package feed

import (
	"context"
	"sync"
)

// LocalBus — Bus внутри одного процесса (один инстанс или тесты).
type LocalBus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func(string)
}

// NewLocalBus создаёт пустую шину.
func NewLocalBus() *LocalBus {
	return &LocalBus{listeners: make(map[int]func(string))}
}

// Publish синхронно вызывает всех слушателей.
func (b *LocalBus) Publish(_ context.Context, topic string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, fn := range b.listeners {
		fn(topic)
	}

	return nil
}

// Listen регистрирует fn до отмены ctx.
func (b *LocalBus) Listen(ctx context.Context, fn func(topic string)) error {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[id] = fn
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()

	return nil
}
