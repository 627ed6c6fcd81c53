// links хранит доски ссылок пользователя. Доска живёт в памяти процесса
// и привязана к сессии; между перезапусками не сохраняется.
package links

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/lapa-nations/internal/models"
)

// ErrNotFound — ссылки с таким id нет на доске.
var ErrNotFound = errors.New("link not found")

// NoteTemplate — стартовый текст заметки для новой ссылки.
func NoteTemplate(title, rawURL string) string {
	head := title
	if head == "" {
		head = rawURL
	}

	return "# " + head + "\n\nEnter your notes here..."
}

// Board — упорядоченный список ссылок, новые сверху.
type Board struct {
	mu    sync.RWMutex
	items []models.LinkItem
}

// NewBoard создаёт пустую доску.
func NewBoard() *Board {
	return &Board{}
}

// Add кладёт ссылку в начало доски. Пустые ID и CreatedAt заполняются.
func (b *Board) Add(item models.LinkItem) models.LinkItem {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append([]models.LinkItem{item}, b.items...)

	return item
}

// List возвращает копию доски.
func (b *Board) List() []models.LinkItem {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.LinkItem, len(b.items))
	copy(out, b.items)

	return out
}

// Delete убирает ссылку; порядок остальных сохраняется.
func (b *Board) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	b.items = append(b.items[:i:i], b.items[i+1:]...)

	return nil
}

// UpdateNotes заменяет заметку ссылки.
func (b *Board) UpdateNotes(id, notes string) (models.LinkItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return models.LinkItem{}, ErrNotFound
	}

	b.items[i].Notes = notes

	return b.items[i], nil
}

func (b *Board) indexOf(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}

	return -1
}
