package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

func (h *Handlers) PublishNews(w http.ResponseWriter, r *http.Request) {
	var in PublishNewsRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	n, err := h.Service.PublishNews(r.Context(), service.NewsDraft{
		AuthorCountryID: in.AuthorCountryID,
		OwnerName:       in.OwnerName,
		Title:           in.Title,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		ImageHint:       in.ImageHint,
		TaggedCountryID: in.TaggedCountryID,
		IsMapUpdate:     in.IsMapUpdate,
		NewsType:        in.NewsType,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newsFromModel(*n))
}

// ListNews — лента; ?type=domestik|internasional, без параметра — все типы.
func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	filter := models.NewsFilter{Type: models.NewsType(r.URL.Query().Get("type"))}

	list, err := h.Service.ListNews(r.Context(), filter)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsListFromModel(list))
}

func (h *Handlers) GetNews(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.NewsByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsFromModel(*n))
}

func (h *Handlers) LikeNews(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.LikeNews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsFromModel(*n))
}

func (h *Handlers) CommentNews(w http.ResponseWriter, r *http.Request) {
	var in CommentRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.Service.CommentNews(r.Context(), service.CommentNewsInput{
		NewsID: chi.URLParam(r, "id"),
		Author: in.Author,
		Text:   in.Text,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentFromModel(*c))
}
