package models

import (
	"fmt"
	"strings"
	"time"
)

// NewsType — тип публикации (вкладки ленты).
type NewsType string

const (
	NewsTypeDomestic      NewsType = "domestik"
	NewsTypeInternational NewsType = "internasional"
)

// ParseNewsType нормализует строку к NewsType.
// Пустая строка даёт NewsTypeDomestic.
func ParseNewsType(s string) (NewsType, error) {
	switch t := NewsType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return NewsTypeDomestic, nil
	case NewsTypeDomestic, NewsTypeInternational:
		return t, nil
	default:
		return "", fmt.Errorf("unknown news type %q", s)
	}
}

// News — опубликованная новость.
//
// AuthorCountry и TaggedCountry — денормализованные копии Country на момент
// публикации: последующие правки канонической записи их не меняют.
// Likes только растёт, Comments упорядочены от новых к старым.
type News struct {
	ID            string
	Title         string
	Description   string
	ImageURL      string
	ImageHint     string
	AuthorCountry Country
	TaggedCountry *Country
	IsMapUpdate   bool
	Timestamp     time.Time
	Likes         int64
	Comments      []Comment
	NewsType      NewsType
}

// NewsFilter — параметры выборки ленты. Пустой Type означает «все типы».
type NewsFilter struct {
	Type NewsType
}
