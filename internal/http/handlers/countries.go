package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/http/middleware"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

func (h *Handlers) RegisterCountry(w http.ResponseWriter, r *http.Request) {
	var in RegisterCountryRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.Service.RegisterCountry(r.Context(), service.RegisterCountryInput{
		CountryName: in.CountryName,
		OwnerName:   in.OwnerName,
		SessionID:   middleware.SessionID(r.Context()),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, countryFromModel(*c))
}

func (h *Handlers) ListCountries(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListCountries(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, countriesFromModel(list))
}

func (h *Handlers) GetCountry(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.CountryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, countryFromModel(*c))
}
