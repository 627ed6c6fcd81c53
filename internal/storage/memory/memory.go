// memory — реализация storage.Storage и storage.Sessions в памяти процесса.
// Используется при storage.driver=memory и в тестах верхних слоёв.
// Все операции сериализуются одним мьютексом; наружу отдаются копии.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

type countryRec struct {
	models.Country
	seq uint64
}

type newsRec struct {
	models.News
	seq uint64
}

type commentRec struct {
	models.Comment
	seq uint64
}

// Store — in-memory хранилище коллекций countries, news и globalComments.
type Store struct {
	uniqueNames bool

	mu        sync.Mutex
	seq       uint64
	countries map[string]*countryRec
	news      map[string]*newsRec
	global    []commentRec
}

// New создаёт пустое хранилище. cfg может быть nil.
func New(cfg *config.Config) *Store {
	s := &Store{
		countries: make(map[string]*countryRec),
		news:      make(map[string]*newsRec),
	}

	if cfg != nil {
		s.uniqueNames = cfg.Identity.EnforceUniqueNames
	}

	return s
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func (s *Store) CreateCountry(_ context.Context, country models.Country) (*models.Country, error) {
	const op = "storage/memory/CreateCountry"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uniqueNames && s.findByNameLocked(country.CountryName) != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	country.ID = uuid.NewString()
	country.RegistrationDate = toMS(country.RegistrationDate)
	s.countries[country.ID] = &countryRec{Country: country, seq: s.next()}

	return &country, nil
}

func (s *Store) CountryByID(_ context.Context, id string) (*models.Country, error) {
	const op = "storage/memory/CountryByID"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.countries[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := rec.Country
	return &out, nil
}

func (s *Store) CountryByName(_ context.Context, name string) (*models.Country, error) {
	const op = "storage/memory/CountryByName"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.findByNameLocked(name)
	if rec == nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := rec.Country
	return &out, nil
}

func (s *Store) findByNameLocked(name string) *countryRec {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, rec := range s.countries {
		if strings.ToLower(rec.CountryName) == key {
			return rec
		}
	}

	return nil
}

func (s *Store) ListCountries(_ context.Context) ([]models.Country, error) {
	s.mu.Lock()
	recs := make([]*countryRec, 0, len(s.countries))
	for _, rec := range s.countries {
		recs = append(recs, rec)
	}
	s.mu.Unlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].RegistrationDate.Equal(recs[j].RegistrationDate) {
			return recs[i].RegistrationDate.Before(recs[j].RegistrationDate)
		}
		return recs[i].seq < recs[j].seq
	})

	out := make([]models.Country, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Country)
	}

	return out, nil
}

func (s *Store) UpdateOwnerName(_ context.Context, id, ownerName string) error {
	const op = "storage/memory/UpdateOwnerName"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.countries[strings.TrimSpace(id)]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	rec.OwnerName = ownerName
	return nil
}

func (s *Store) CreateNews(_ context.Context, news models.News) (*models.News, error) {
	news.ID = uuid.NewString()
	news.Timestamp = toMS(news.Timestamp)
	news.Comments = cloneComments(news.Comments)

	s.mu.Lock()
	s.news[news.ID] = &newsRec{News: news, seq: s.next()}
	s.mu.Unlock()

	out := cloneNews(news)
	return &out, nil
}

func (s *Store) NewsByID(_ context.Context, id string) (*models.News, error) {
	const op = "storage/memory/NewsByID"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.news[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := cloneNews(rec.News)
	return &out, nil
}

func (s *Store) ListNews(_ context.Context, filter models.NewsFilter) ([]models.News, error) {
	s.mu.Lock()
	recs := make([]newsRec, 0, len(s.news))
	for _, rec := range s.news {
		if filter.Type != "" && rec.NewsType != filter.Type {
			continue
		}
		recs = append(recs, newsRec{News: cloneNews(rec.News), seq: rec.seq})
	}
	s.mu.Unlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		}
		return recs[i].seq > recs[j].seq
	})

	out := make([]models.News, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.News)
	}

	return out, nil
}

func (s *Store) IncrementLikes(_ context.Context, id string) (*models.News, error) {
	const op = "storage/memory/IncrementLikes"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.news[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	rec.Likes++
	out := cloneNews(rec.News)

	return &out, nil
}

func (s *Store) PrependComment(_ context.Context, newsID string, comment models.Comment) error {
	const op = "storage/memory/PrependComment"

	comment.Timestamp = toMS(comment.Timestamp)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.news[strings.TrimSpace(newsID)]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	rec.Comments = append([]models.Comment{comment}, rec.Comments...)
	return nil
}

func (s *Store) CreateGlobalComment(_ context.Context, comment models.Comment) (*models.Comment, error) {
	comment.ID = uuid.NewString()
	comment.Timestamp = toMS(comment.Timestamp)

	s.mu.Lock()
	s.global = append(s.global, commentRec{Comment: comment, seq: s.next()})
	s.mu.Unlock()

	return &comment, nil
}

func (s *Store) ListGlobalComments(_ context.Context, limit int64) ([]models.Comment, error) {
	s.mu.Lock()
	recs := make([]commentRec, len(s.global))
	copy(recs, s.global)
	s.mu.Unlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].Timestamp.After(recs[j].Timestamp)
		}
		return recs[i].seq > recs[j].seq
	})

	if limit > 0 && int64(len(recs)) > limit {
		recs = recs[:limit]
	}

	out := make([]models.Comment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Comment)
	}

	return out, nil
}

func cloneComments(in []models.Comment) []models.Comment {
	out := make([]models.Comment, len(in))
	copy(out, in)
	return out
}

func cloneNews(n models.News) models.News {
	n.Comments = cloneComments(n.Comments)
	if n.TaggedCountry != nil {
		tagged := *n.TaggedCountry
		n.TaggedCountry = &tagged
	}

	return n
}
