package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// Sessions — storage.Sessions на Redis Hash.
// Поля: cid (страна), terms/alert/dev (0/1), upd (unix ms). TTL продлевается при записи.
type Sessions struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewSessions создаёт хранилище сессий. Пустой prefix заменяется на "lapa".
func NewSessions(rdb *goredis.Client, prefix string, ttl time.Duration) *Sessions {
	if prefix == "" {
		prefix = "lapa"
	}

	return &Sessions{rdb: rdb, prefix: prefix, ttl: ttl}
}

var _ storage.Sessions = (*Sessions)(nil)

func (s *Sessions) key(id string) string { return key(s.prefix, "session", id) }

func (s *Sessions) Session(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage/redis/Session"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	m, err := s.rdb.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	sess := &models.Session{
		ID:               id,
		CountryID:        m["cid"],
		TermsAccepted:    m["terms"] == "1",
		AlertDismissed:   m["alert"] == "1",
		DevInfoDismissed: m["dev"] == "1",
	}

	if upd, err := strconv.ParseInt(m["upd"], 10, 64); err == nil {
		sess.UpdatedAt = time.UnixMilli(upd).UTC()
	}

	return sess, nil
}

func (s *Sessions) SaveSession(ctx context.Context, session models.Session) error {
	const op = "storage/redis/SaveSession"

	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	kv := map[string]string{
		"cid":   session.CountryID,
		"terms": boolTo01(session.TermsAccepted),
		"alert": boolTo01(session.AlertDismissed),
		"dev":   boolTo01(session.DevInfoDismissed),
		"upd":   strconv.FormatInt(session.UpdatedAt.UnixMilli(), 10),
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(session.ID), kv)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(session.ID), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
