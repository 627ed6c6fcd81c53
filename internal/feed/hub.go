// feed реализует подписки на коллекции: после каждого изменения подписчики
// получают полный, заново отсортированный снимок коллекции.
//
// Схема:
//   - изменение вызывает Hub.Notify(topic) -> Bus.Publish;
//   - все инстансы получают сообщение из Bus.Listen и «пинают» топик;
//   - на каждый топик один диспетчер: pending-пинки схлопываются (канал ёмкостью 1),
//     коллекция загружается один раз и рассылается подписчикам в порядке регистрации.
//
// Если шина отвалилась, диспетчеры продолжают работать, а подписка на шину
// восстанавливается с экспоненциальной задержкой; после переподключения все
// топики перечитываются, чтобы не потерять пропущенные уведомления.
//
// Порядок снимков внутри одного топика совпадает с порядком загрузок;
// между топиками порядок не гарантируется.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pribylovaa/lapa-nations/internal/metrics"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

const (
	TopicCountries      = "countries"
	TopicNews           = "news"
	TopicGlobalComments = "global_comments"

	listenRetryMin = 200 * time.Millisecond
	listenRetryMax = 10 * time.Second
)

// ErrUnknownTopic — топик не зарегистрирован.
var ErrUnknownTopic = errors.New("unknown topic")

// Loader загружает полный снимок коллекции.
type Loader func(ctx context.Context) (any, error)

// Bus доставляет уведомления об изменениях всем инстансам.
type Bus interface {
	Publish(ctx context.Context, topic string) error
	// Listen блокируется до отмены ctx и вызывает fn на каждое уведомление.
	Listen(ctx context.Context, fn func(topic string)) error
}

type subscriber struct {
	id uint64
	fn func(any)
}

type topic struct {
	name string
	load Loader
	kick chan struct{}

	mu     sync.Mutex
	subs   []subscriber
	nextID uint64
}

// Hub — реестр топиков и их подписчиков.
type Hub struct {
	bus         Bus
	log         *slog.Logger
	loadTimeout time.Duration
	retryMin    time.Duration
	retryMax    time.Duration

	mu     sync.RWMutex
	topics map[string]*topic
}

// NewHub создаёт Hub. loadTimeout <= 0 — без отдельного дедлайна на загрузку.
func NewHub(bus Bus, logger *slog.Logger, loadTimeout time.Duration) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		bus:         bus,
		log:         logger,
		loadTimeout: loadTimeout,
		retryMin:    listenRetryMin,
		retryMax:    listenRetryMax,
		topics:      make(map[string]*topic),
	}
}

// Register добавляет топик. Вызывается до Run; повторная регистрация заменяет загрузчик.
func (h *Hub) Register(name string, load Loader) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t, ok := h.topics[name]; ok {
		t.load = load
		return
	}

	h.topics[name] = &topic{name: name, load: load, kick: make(chan struct{}, 1)}
}

func (h *Hub) topic(name string) (*topic, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.topics[name]
	return t, ok
}

// Subscribe регистрирует fn и планирует для топика начальный снимок.
// fn вызывается из горутины диспетчера и не должен блокироваться надолго.
func (h *Hub) Subscribe(name string, fn func(snapshot any)) (unsubscribe func(), err error) {
	t, ok := h.topic(name)
	if !ok {
		return nil, fmt.Errorf("feed/Subscribe %q: %w", name, ErrUnknownTopic)
	}

	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscriber{id: id, fn: fn})
	t.mu.Unlock()

	metrics.FeedSubscribers.WithLabelValues(name).Inc()
	t.poke()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			for i, s := range t.subs {
				if s.id == id {
					t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
					break
				}
			}
			t.mu.Unlock()

			metrics.FeedSubscribers.WithLabelValues(name).Dec()
		})
	}, nil
}

// Subscribe — типизированная обёртка над Hub.Subscribe для снимков []T.
func Subscribe[T any](h *Hub, name string, fn func([]T)) (func(), error) {
	return h.Subscribe(name, func(v any) {
		if items, ok := v.([]T); ok {
			fn(items)
		}
	})
}

// Notify сообщает об изменении топика. Если шина недоступна, обновляется
// хотя бы локальный инстанс, а ошибка возвращается вызывающему.
func (h *Hub) Notify(ctx context.Context, name string) error {
	if err := h.bus.Publish(ctx, name); err != nil {
		if t, ok := h.topic(name); ok {
			t.poke()
		}
		return fmt.Errorf("feed/Notify %q: %w", name, err)
	}

	return nil
}

// Run запускает диспетчеры топиков и слушает шину до отмены ctx.
// Ошибки шины не останавливают Run: подписка восстанавливается.
func (h *Hub) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.mu.RLock()
	topics := make([]*topic, 0, len(h.topics))
	for _, t := range h.topics {
		topics = append(topics, t)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup
	for _, t := range topics {
		wg.Add(1)
		go func(t *topic) {
			defer wg.Done()
			h.dispatch(runCtx, t)
		}(t)
	}

	h.listen(runCtx, topics)

	cancel()
	wg.Wait()

	return nil
}

// listen держит подписку на шину до отмены ctx, переподключаясь после ошибок.
func (h *Hub) listen(ctx context.Context, topics []*topic) {
	onMessage := func(name string) {
		if t, ok := h.topic(name); ok {
			t.poke()
		}
	}

	backoff := h.retryMin
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			// Уведомления за время разрыва потеряны: перечитываем всё.
			for _, t := range topics {
				t.poke()
			}
		}

		err := h.bus.Listen(ctx, onMessage)
		if ctx.Err() != nil {
			return
		}

		if err == nil {
			err = errors.New("listen returned before cancel")
		}
		h.log.Warn("feed_bus_listen_failed",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", backoff),
			slog.String("err", err.Error()),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, h.retryMax)
	}
}

func (t *topic) poke() {
	select {
	case t.kick <- struct{}{}:
	default:
	}
}

func (h *Hub) dispatch(ctx context.Context, t *topic) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.kick:
			h.refresh(ctx, t)
		}
	}
}

func (h *Hub) refresh(ctx context.Context, t *topic) {
	t.mu.Lock()
	subs := make([]subscriber, len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	// Логи загрузчика (хранилище, кэш) помечаются топиком.
	loadCtx := log.With(log.Into(ctx, h.log), "topic", t.name)
	if h.loadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(loadCtx, h.loadTimeout)
		defer cancel()
	}

	snapshot, err := t.load(loadCtx)
	if err != nil {
		metrics.FeedDeliveries.WithLabelValues(t.name, "load_failed").Inc()
		h.log.Warn("feed_load_failed", slog.String("topic", t.name), slog.String("err", err.Error()))
		return
	}

	metrics.FeedDeliveries.WithLabelValues(t.name, "ok").Inc()

	for _, s := range subs {
		h.deliver(t.name, s, snapshot)
	}
}

func (h *Hub) deliver(name string, s subscriber, snapshot any) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("feed_subscriber_panic",
				slog.String("topic", name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	s.fn(snapshot)
}
