package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/http/middleware"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

func (h *Handlers) ListGlobalComments(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListGlobalComments(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentsFromModel(list))
}

func (h *Handlers) PostGlobalComment(w http.ResponseWriter, r *http.Request) {
	var in CommentRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.Service.PostGlobalComment(r.Context(), service.GlobalCommentInput{
		AuthorCountryID: in.AuthorCountryID,
		Author:          in.Author,
		Text:            in.Text,
		SessionID:       middleware.SessionID(r.Context()),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentFromModel(*c))
}
