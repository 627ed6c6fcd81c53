package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/http/middleware"
)

func (h *Handlers) Unfurl(w http.ResponseWriter, r *http.Request) {
	var in URLRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.Service.Unfurl(r.Context(), in.URL)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, previewFromModel(*res))
}

// Доска ссылок привязана к X-Session-Id.

func (h *Handlers) ListLinks(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListLinks(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, linksFromModel(list))
}

func (h *Handlers) AddLink(w http.ResponseWriter, r *http.Request) {
	var in URLRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, err := h.Service.AddLink(r.Context(), middleware.SessionID(r.Context()), in.URL)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, linkFromModel(*item))
}

func (h *Handlers) UpdateLinkNotes(w http.ResponseWriter, r *http.Request) {
	var in NotesRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	item, err := h.Service.UpdateLinkNotes(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id"), in.Notes)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, linkFromModel(*item))
}

func (h *Handlers) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteLink(r.Context(), middleware.SessionID(r.Context()), chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
