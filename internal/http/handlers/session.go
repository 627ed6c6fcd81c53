package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/http/middleware"
	"github.com/pribylovaa/lapa-nations/internal/models"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Service.SessionByID(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.sessionView(r, *sess))
}

func (h *Handlers) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var in SessionPatchRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess, err := h.Service.UpdateSession(r.Context(), middleware.SessionID(r.Context()), service.SessionPatch{
		CountryID:        in.CountryID,
		TermsAccepted:    in.TermsAccepted,
		AlertDismissed:   in.AlertDismissed,
		DevInfoDismissed: in.DevInfoDismissed,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.sessionView(r, *sess))
}

// sessionView дополняет сессию актуальной записью страны. Удалённая
// или недоступная страна отдаётся как отсутствующая.
func (h *Handlers) sessionView(r *http.Request, s models.Session) Session {
	out := sessionFromModel(s)
	if s.CountryID == "" {
		return out
	}

	c, err := h.Service.CountryByID(r.Context(), s.CountryID)
	switch {
	case err == nil:
		cv := countryFromModel(*c)
		out.Country = &cv
	case errors.Is(err, service.ErrNotFound):
	default:
		log.From(r.Context()).Warn("session_country_unavailable", "country_id", s.CountryID, "err", err)
	}

	return out
}
