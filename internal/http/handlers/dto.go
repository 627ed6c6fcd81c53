package handlers

import (
	"time"

	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// JSON-представления для фронта (camelCase, как в коллекциях MongoDB).

type Country struct {
	ID               string    `json:"id"`
	CountryName      string    `json:"countryName"`
	OwnerName        string    `json:"ownerName"`
	RegistrationDate time.Time `json:"registrationDate"`
}

type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type News struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	ImageHint     string    `json:"imageHint,omitempty"`
	AuthorCountry Country   `json:"authorCountry"`
	TaggedCountry *Country  `json:"taggedCountry,omitempty"`
	IsMapUpdate   bool      `json:"isMapUpdate"`
	Timestamp     time.Time `json:"timestamp"`
	Likes         int64     `json:"likes"`
	Comments      []Comment `json:"comments"`
	NewsType      string    `json:"newsType"`
}

type PreviewResult struct {
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	UnfurlDecision string `json:"unfurlDecision"`
	Helpful        bool   `json:"helpful"`
}

type LinkItem struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Notes     string        `json:"notes"`
	Preview   PreviewResult `json:"preview"`
	CreatedAt time.Time     `json:"createdAt"`
}

type Session struct {
	ID               string   `json:"id"`
	CountryID        string   `json:"countryId,omitempty"`
	Country          *Country `json:"country,omitempty"`
	TermsAccepted    bool     `json:"termsAccepted"`
	AlertDismissed   bool     `json:"alertDismissed"`
	DevInfoDismissed bool     `json:"devInfoDismissed"`
}

type ImageUpload struct {
	UploadURL       string            `json:"uploadUrl"`
	ImageKey        string            `json:"imageKey"`
	ExpiresIn       int64             `json:"expiresIn"`
	RequiredHeaders map[string]string `json:"requiredHeaders,omitempty"`
}

// Запросы.

type RegisterCountryRequest struct {
	CountryName string `json:"countryName"`
	OwnerName   string `json:"ownerName"`
}

type PublishNewsRequest struct {
	AuthorCountryID string `json:"authorCountryId"`
	OwnerName       string `json:"ownerName"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ImageURL        string `json:"imageUrl"`
	ImageHint       string `json:"imageHint"`
	TaggedCountryID string `json:"taggedCountryId"`
	IsMapUpdate     bool   `json:"isMapUpdate"`
	NewsType        string `json:"newsType"`
}

type CommentRequest struct {
	AuthorCountryID string `json:"authorCountryId"`
	Author          string `json:"author"`
	Text            string `json:"text"`
}

type URLRequest struct {
	URL string `json:"url"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type SessionPatchRequest struct {
	CountryID        *string `json:"countryId"`
	TermsAccepted    *bool   `json:"termsAccepted"`
	AlertDismissed   *bool   `json:"alertDismissed"`
	DevInfoDismissed *bool   `json:"devInfoDismissed"`
}

type ImagePresignRequest struct {
	CountryID     string `json:"countryId"`
	ContentType   string `json:"contentType"`
	ContentLength int64  `json:"contentLength"`
}

type ImageConfirmRequest struct {
	CountryID string `json:"countryId"`
	ImageKey  string `json:"imageKey"`
}

type ImageConfirmResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Конвертеры.

func countryFromModel(c models.Country) Country {
	return Country{
		ID:               c.ID,
		CountryName:      c.CountryName,
		OwnerName:        c.OwnerName,
		RegistrationDate: c.RegistrationDate,
	}
}

func countriesFromModel(list []models.Country) []Country {
	out := make([]Country, 0, len(list))
	for _, c := range list {
		out = append(out, countryFromModel(c))
	}

	return out
}

func commentFromModel(c models.Comment) Comment {
	return Comment{ID: c.ID, Author: c.Author, Text: c.Text, Timestamp: c.Timestamp}
}

func commentsFromModel(list []models.Comment) []Comment {
	out := make([]Comment, 0, len(list))
	for _, c := range list {
		out = append(out, commentFromModel(c))
	}

	return out
}

func newsFromModel(n models.News) News {
	out := News{
		ID:            n.ID,
		Title:         n.Title,
		Description:   n.Description,
		ImageURL:      n.ImageURL,
		ImageHint:     n.ImageHint,
		AuthorCountry: countryFromModel(n.AuthorCountry),
		IsMapUpdate:   n.IsMapUpdate,
		Timestamp:     n.Timestamp,
		Likes:         n.Likes,
		Comments:      commentsFromModel(n.Comments),
		NewsType:      string(n.NewsType),
	}
	if n.TaggedCountry != nil {
		tc := countryFromModel(*n.TaggedCountry)
		out.TaggedCountry = &tc
	}

	return out
}

func newsListFromModel(list []models.News) []News {
	out := make([]News, 0, len(list))
	for _, n := range list {
		out = append(out, newsFromModel(n))
	}

	return out
}

func previewFromModel(p models.PreviewResult) PreviewResult {
	return PreviewResult{
		Title:          p.Title,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		UnfurlDecision: p.UnfurlDecision,
		Helpful:        p.Helpful,
	}
}

func linkFromModel(l models.LinkItem) LinkItem {
	return LinkItem{
		ID:        l.ID,
		URL:       l.URL,
		Notes:     l.Notes,
		Preview:   previewFromModel(l.Preview),
		CreatedAt: l.CreatedAt,
	}
}

func linksFromModel(list []models.LinkItem) []LinkItem {
	out := make([]LinkItem, 0, len(list))
	for _, l := range list {
		out = append(out, linkFromModel(l))
	}

	return out
}

func sessionFromModel(s models.Session) Session {
	return Session{
		ID:               s.ID,
		CountryID:        s.CountryID,
		TermsAccepted:    s.TermsAccepted,
		AlertDismissed:   s.AlertDismissed,
		DevInfoDismissed: s.DevInfoDismissed,
	}
}

func uploadFromStorage(u storage.UploadInfo) ImageUpload {
	return ImageUpload{
		UploadURL:       u.UploadURL,
		ImageKey:        u.ImageKey,
		ExpiresIn:       int64(u.Expires.Seconds()),
		RequiredHeaders: u.RequiredHeader,
	}
}
