package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// Sessions — storage.Sessions в памяти процесса (без TTL).
type Sessions struct {
	mu    sync.RWMutex
	items map[string]models.Session
}

// NewSessions создаёт пустое хранилище сессий.
func NewSessions() *Sessions {
	return &Sessions{items: make(map[string]models.Session)}
}

var _ storage.Sessions = (*Sessions)(nil)

func (s *Sessions) Session(_ context.Context, id string) (*models.Session, error) {
	const op = "storage/memory/Session"

	s.mu.RLock()
	sess, ok := s.items[strings.TrimSpace(id)]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &sess, nil
}

func (s *Sessions) SaveSession(_ context.Context, session models.Session) error {
	const op = "storage/memory/SaveSession"

	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	session.UpdatedAt = toMS(session.UpdatedAt)

	s.mu.Lock()
	s.items[session.ID] = session
	s.mu.Unlock()

	return nil
}
