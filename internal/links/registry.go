package links

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry выдаёт доску по id сессии. Число досок ограничено:
// доски давно не использованных сессий вытесняются.
type Registry struct {
	mu     sync.Mutex
	boards *lru.Cache[string, *Board]
}

// NewRegistry создаёт реестр на size досок.
func NewRegistry(size int) (*Registry, error) {
	cache, err := lru.New[string, *Board](size)
	if err != nil {
		return nil, fmt.Errorf("links/NewRegistry: %w", err)
	}

	return &Registry{boards: cache}, nil
}

// Board возвращает доску сессии, создавая её при первом обращении.
func (r *Registry) Board(sessionID string) *Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.boards.Get(sessionID); ok {
		return b
	}

	b := NewBoard()
	r.boards.Add(sessionID, b)

	return b
}

// Len — число досок в памяти.
func (r *Registry) Len() int {
	return r.boards.Len()
}
