package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/storage"
	"github.com/pribylovaa/lapa-nations/internal/storage/memory"
)

// newTestRedis поднимает miniredis и клиент к нему.
func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, rdb
}

// countingStore считает обращения к основному хранилищу за списками.
type countingStore struct {
	storage.Storage

	mu        sync.Mutex
	newsCalls int
	countries int
	global    int
}

func (s *countingStore) ListNews(ctx context.Context, f models.NewsFilter) ([]models.News, error) {
	s.mu.Lock()
	s.newsCalls++
	s.mu.Unlock()
	return s.Storage.ListNews(ctx, f)
}

func (s *countingStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	s.mu.Lock()
	s.countries++
	s.mu.Unlock()
	return s.Storage.ListCountries(ctx)
}

func (s *countingStore) ListGlobalComments(ctx context.Context, limit int64) ([]models.Comment, error) {
	s.mu.Lock()
	s.global++
	s.mu.Unlock()
	return s.Storage.ListGlobalComments(ctx, limit)
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://nope")
	require.Error(t, err)
}

func TestSessions_RoundTripAndTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	s := NewSessions(rdb, "t", time.Hour)

	_, err := s.Session(ctx, "s-1")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, s.SaveSession(ctx, models.Session{}), storage.ErrInvalidArgument)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, s.SaveSession(ctx, models.Session{
		ID: "s-1", CountryID: "c-9", TermsAccepted: true, DevInfoDismissed: true, UpdatedAt: now,
	}))

	got, err := s.Session(ctx, "s-1")
	require.NoError(t, err)
	require.Equal(t, "c-9", got.CountryID)
	require.True(t, got.TermsAccepted)
	require.False(t, got.AlertDismissed)
	require.True(t, got.DevInfoDismissed)
	require.Equal(t, now, got.UpdatedAt)

	require.Equal(t, time.Hour, mr.TTL("t:session:s-1"))

	mr.FastForward(2 * time.Hour)
	_, err = s.Session(ctx, "s-1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCache_ReadThroughAndInvalidate(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	next := &countingStore{Storage: memory.New(nil)}
	c := NewCache(next, rdb, "t", time.Minute)

	n, err := c.CreateNews(ctx, models.News{Title: "a", Timestamp: time.Now(), NewsType: models.NewsTypeDomestic})
	require.NoError(t, err)

	// Первый вызов — промах, второй — из кэша.
	list, err := c.ListNews(ctx, models.NewsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = c.ListNews(ctx, models.NewsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, next.newsCalls)

	// Фильтр по типу кэшируется отдельным полем.
	_, err = c.ListNews(ctx, models.NewsFilter{Type: models.NewsTypeDomestic})
	require.NoError(t, err)
	require.Equal(t, 2, next.newsCalls)

	// Запись инвалидирует кэш: следующий список видит новый лайк.
	_, err = c.IncrementLikes(ctx, n.ID)
	require.NoError(t, err)
	list, err = c.ListNews(ctx, models.NewsFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, list[0].Likes)
	require.Equal(t, 3, next.newsCalls)

	require.NoError(t, c.PrependComment(ctx, n.ID, models.Comment{ID: "k", Text: "hi", Timestamp: time.Now()}))
	list, err = c.ListNews(ctx, models.NewsFilter{})
	require.NoError(t, err)
	require.Len(t, list[0].Comments, 1)
}

func TestCache_CountriesAndGlobal(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	next := &countingStore{Storage: memory.New(nil)}
	c := NewCache(next, rdb, "t", time.Minute)

	lapa, err := c.CreateCountry(ctx, models.Country{CountryName: "Lapa", OwnerName: "x", RegistrationDate: time.Now()})
	require.NoError(t, err)

	_, _ = c.ListCountries(ctx)
	_, _ = c.ListCountries(ctx)
	require.Equal(t, 1, next.countries)

	require.NoError(t, c.UpdateOwnerName(ctx, lapa.ID, "y"))
	list, err := c.ListCountries(ctx)
	require.NoError(t, err)
	require.Equal(t, "y", list[0].OwnerName)
	require.Equal(t, 2, next.countries)

	_, err = c.CreateGlobalComment(ctx, models.Comment{Author: "a", Text: "1", Timestamp: time.Now()})
	require.NoError(t, err)
	_, _ = c.ListGlobalComments(ctx, 10)
	_, _ = c.ListGlobalComments(ctx, 10)
	require.Equal(t, 1, next.global)

	_, err = c.CreateGlobalComment(ctx, models.Comment{Author: "a", Text: "2", Timestamp: time.Now()})
	require.NoError(t, err)
	got, err := c.ListGlobalComments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

// gatedStore задерживает первый ListNews после чтения из хранилища.
type gatedStore struct {
	storage.Storage

	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (s *gatedStore) ListNews(ctx context.Context, f models.NewsFilter) ([]models.News, error) {
	out, err := s.Storage.ListNews(ctx, f)
	s.once.Do(func() {
		close(s.loaded)
		<-s.release
	})
	return out, err
}

func TestCache_InvalidationDuringFillKeepsFreshData(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	next := &gatedStore{Storage: memory.New(nil), loaded: make(chan struct{}), release: make(chan struct{})}
	c := NewCache(next, rdb, "t", time.Minute)

	n, err := c.CreateNews(ctx, models.News{Title: "a", Timestamp: time.Now(), NewsType: models.NewsTypeDomestic})
	require.NoError(t, err)

	// Читатель промахивается и получает снимок с likes=0.
	done := make(chan []models.News)
	go func() {
		list, _ := c.ListNews(ctx, models.NewsFilter{})
		done <- list
	}()
	<-next.loaded

	// Запись и инвалидация проходят до того, как читатель заполнит кэш.
	_, err = c.IncrementLikes(ctx, n.ID)
	require.NoError(t, err)
	close(next.release)

	stale := <-done
	require.Len(t, stale, 1)
	require.EqualValues(t, 0, stale[0].Likes)

	list, err := c.ListNews(ctx, models.NewsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.EqualValues(t, 1, list[0].Likes)
}

func TestCache_InvalidateBumpsGeneration(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	c := NewCache(memory.New(nil), rdb, "t", time.Minute)

	_, err := c.CreateNews(ctx, models.News{Title: "a", Timestamp: time.Now()})
	require.NoError(t, err)
	_, err = c.CreateNews(ctx, models.News{Title: "b", Timestamp: time.Now()})
	require.NoError(t, err)

	gen, err := mr.Get("t:cache:news:gen")
	require.NoError(t, err)
	require.Equal(t, "2", gen)
}

func TestCache_RedisDownFallsBackToStore(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	next := &countingStore{Storage: memory.New(nil)}
	c := NewCache(next, rdb, "t", time.Minute)

	mr.Close()

	_, err := c.CreateNews(ctx, models.News{Title: "a", Timestamp: time.Now()})
	require.NoError(t, err)

	list, err := c.ListNews(ctx, models.NewsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestBus_PublishListen(t *testing.T) {
	_, rdb := newTestRedis(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(rdb, "t")

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Listen(ctx, func(topic string) {
			mu.Lock()
			got = append(got, topic)
			mu.Unlock()
		})
	}()

	// Подписка асинхронна: публикуем, пока сообщение не дойдёт.
	require.Eventually(t, func() bool {
		require.NoError(t, bus.Publish(ctx, "news"))
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	require.Equal(t, "news", got[0])
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not stop after cancel")
	}
}
