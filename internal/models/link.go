package models

import "time"

// Metadata — Open Graph метаданные страницы. Любое поле может быть пустым.
type Metadata struct {
	Title       string
	Description string
	ImageURL    string
}

// IsEmpty сообщает, что ни одно поле метаданных не заполнено.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Description == "" && m.ImageURL == ""
}

// PreviewResult — результат разворачивания ссылки.
// Helpful — структурированный вердикт; UnfurlDecision — исходный текст модели.
type PreviewResult struct {
	Metadata
	UnfurlDecision string
	Helpful        bool
}

// LinkItem — закладка в сессионной доске ссылок.
type LinkItem struct {
	ID        string
	URL       string
	Notes     string
	Preview   PreviewResult
	CreatedAt time.Time
}
