package feed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// recorder накапливает снимки, полученные подписчиком.
type recorder struct {
	mu    sync.Mutex
	snaps [][]int
}

func (r *recorder) add(v []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, append([]int(nil), v...))
}

func (r *recorder) last() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

// state — «коллекция» под тестом.
type state struct {
	mu    sync.Mutex
	items []int
	loads atomic.Int64
}

func (s *state) push(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]int{v}, s.items...)
}

func (s *state) load(context.Context) (any, error) {
	s.loads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.items...), nil
}

func startHub(t *testing.T, h *Hub) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestHub_InitialSnapshotAndUpdates(t *testing.T) {
	st := &state{items: []int{1}}
	h := NewHub(NewLocalBus(), nil, time.Second)
	h.Register(TopicNews, st.load)
	startHub(t, h)

	rec := &recorder{}
	unsub, err := Subscribe(h, TopicNews, rec.add)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []int{1}, rec.last())

	st.push(2)
	require.Eventually(t, func() bool {
		_ = h.Notify(context.Background(), TopicNews)
		last := rec.last()
		return len(last) == 2 && last[0] == 2
	}, time.Second, 10*time.Millisecond)
}

func TestHub_Unsubscribe_StopsDelivery(t *testing.T) {
	st := &state{}
	h := NewHub(NewLocalBus(), nil, 0)
	h.Register(TopicGlobalComments, st.load)
	startHub(t, h)

	rec := &recorder{}
	unsub, err := Subscribe(h, TopicGlobalComments, rec.add)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	unsub()
	unsub() // повторный вызов безопасен

	st.push(7)
	_ = h.Notify(context.Background(), TopicGlobalComments)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, rec.count())
}

func TestHub_UnknownTopic(t *testing.T) {
	h := NewHub(NewLocalBus(), nil, 0)
	_, err := h.Subscribe("nope", func(any) {})
	require.ErrorIs(t, err, ErrUnknownTopic)
}

func TestHub_BurstOfNotifiesConverges(t *testing.T) {
	st := &state{}
	h := NewHub(NewLocalBus(), nil, 0)
	h.Register(TopicNews, st.load)
	startHub(t, h)

	rec := &recorder{}
	unsub, err := Subscribe(h, TopicNews, rec.add)
	require.NoError(t, err)
	defer unsub()
	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)

	const n = 100
	for i := 1; i <= n; i++ {
		st.push(i)
		_ = h.Notify(context.Background(), TopicNews)
	}

	require.Eventually(t, func() bool {
		_ = h.Notify(context.Background(), TopicNews)
		last := rec.last()
		return len(last) == n && last[0] == n
	}, 2*time.Second, 10*time.Millisecond)

	// Пинки схлопываются: загрузок не больше, чем уведомлений (+ начальная и добивающие).
	require.LessOrEqual(t, st.loads.Load(), int64(n+200))
}

func TestHub_PanickingSubscriberDoesNotBreakOthers(t *testing.T) {
	st := &state{items: []int{1}}
	h := NewHub(NewLocalBus(), nil, 0)
	h.Register(TopicCountries, st.load)
	startHub(t, h)

	_, err := h.Subscribe(TopicCountries, func(any) { panic("boom") })
	require.NoError(t, err)

	rec := &recorder{}
	_, err = Subscribe(h, TopicCountries, rec.add)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)
}

type failingBus struct{ *LocalBus }

func (b *failingBus) Publish(context.Context, string) error { return errors.New("bus down") }

func TestHub_NotifyFallsBackToLocalWhenBusFails(t *testing.T) {
	st := &state{}
	bus := &failingBus{LocalBus: NewLocalBus()}
	h := NewHub(bus, nil, 0)
	h.Register(TopicNews, st.load)
	startHub(t, h)

	rec := &recorder{}
	_, err := Subscribe(h, TopicNews, rec.add)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)

	st.push(5)
	require.Error(t, h.Notify(context.Background(), TopicNews))
	require.Eventually(t, func() bool { return len(rec.last()) == 1 }, time.Second, 5*time.Millisecond)
}

// flakyBus отказывает в первых failures подписках, затем работает как LocalBus.
type flakyBus struct {
	*LocalBus
	failures int32
	attempts atomic.Int32
}

func (b *flakyBus) Listen(ctx context.Context, fn func(string)) error {
	if b.attempts.Add(1) <= b.failures {
		return errors.New("subscribe failed")
	}
	return b.LocalBus.Listen(ctx, fn)
}

func TestHub_ListenFailureIsRetried(t *testing.T) {
	st := &state{}
	bus := &flakyBus{LocalBus: NewLocalBus(), failures: 2}
	h := NewHub(bus, nil, 0)
	h.retryMin = 5 * time.Millisecond
	h.retryMax = 20 * time.Millisecond
	h.Register(TopicNews, st.load)
	startHub(t, h)

	// Диспетчеры живы, пока шина переподключается.
	rec := &recorder{}
	_, err := Subscribe(h, TopicNews, rec.add)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.count() >= 1 }, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return bus.attempts.Load() > 2 }, time.Second, 5*time.Millisecond)

	st.push(7)
	require.Eventually(t, func() bool {
		_ = h.Notify(context.Background(), TopicNews)
		return len(rec.last()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHub_RunReturnsNilOnCancel(t *testing.T) {
	h := NewHub(&flakyBus{LocalBus: NewLocalBus(), failures: 1 << 30}, nil, 0)
	h.retryMin = time.Millisecond
	h.Register(TopicNews, (&state{}).load)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, h.Run(ctx))
}

func TestHub_LoaderLoggerCarriesTopic(t *testing.T) {
	var buf syncBuffer
	h := NewHub(NewLocalBus(), slog.New(slog.NewTextHandler(&buf, nil)), time.Second)
	h.Register(TopicGlobalComments, func(ctx context.Context) (any, error) {
		log.From(ctx).Info("loading")
		return []int{}, nil
	})
	startHub(t, h)

	_, err := Subscribe(h, TopicGlobalComments, func([]int) {})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		out := buf.String()
		return strings.Contains(out, "msg=loading") && strings.Contains(out, "topic=global_comments")
	}, time.Second, 5*time.Millisecond)
}

// syncBuffer — bytes.Buffer, безопасный для записи из горутины диспетчера.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
