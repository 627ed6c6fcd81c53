package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
)

func (h *Handlers) ImagePresign(w http.ResponseWriter, r *http.Request) {
	var in ImagePresignRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	info, err := h.Service.ImageUploadURL(r.Context(), in.CountryID, in.ContentType, in.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadFromStorage(*info))
}

func (h *Handlers) ImageConfirm(w http.ResponseWriter, r *http.Request) {
	var in ImageConfirmRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.Service.CheckImageUpload(r.Context(), in.CountryID, in.ImageKey)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ImageConfirmResponse{ImageURL: u})
}
