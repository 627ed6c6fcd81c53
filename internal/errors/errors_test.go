package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/lapa-nations/internal/service"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"not_found", fmt.Errorf("op: %w", service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"duplicate", service.ErrDuplicateName, http.StatusConflict, "already_exists"},
		{"conflict", fmt.Errorf("op: %w", service.ErrConflict), http.StatusConflict, "conflict"},
		{"preview", service.ErrPreview, http.StatusBadGateway, "preview_failed"},
		{"unavailable", service.ErrUnavailable, http.StatusNotImplemented, "unimplemented"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", service.ErrInternal, http.StatusInternalServerError, "internal"},
		{"unknown", stderrors.New("db password leaked"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
			require.NotContains(t, resp.Error.Message, "password")
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_TypedErrorsCarryMessage(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		err := fmt.Errorf("service/news/PublishNews: %w", &service.ValidationError{Fields: []string{"title", "news_type"}})
		st, resp := ToHTTP(err)
		require.Equal(t, http.StatusBadRequest, st)
		require.Equal(t, "invalid_argument", resp.Error.Code)
		require.Equal(t, "missing or invalid field(s): title, news_type", resp.Error.Message)
		require.Equal(t, []string{"title", "news_type"}, resp.Error.Fields)
	})

	t.Run("duplicate", func(t *testing.T) {
		err := fmt.Errorf("op: %w", &service.DuplicateNameError{Name: "Republik Lapa"})
		st, resp := ToHTTP(err)
		require.Equal(t, http.StatusConflict, st)
		require.Equal(t, "already_exists", resp.Error.Code)
		require.Equal(t, "a country named Republik Lapa is already registered", resp.Error.Message)
	})

	t.Run("preview", func(t *testing.T) {
		err := fmt.Errorf("op: %w", &service.PreviewError{URL: "https://example.com", Err: stderrors.New("llm down")})
		st, resp := ToHTTP(err)
		require.Equal(t, http.StatusBadGateway, st)
		require.Equal(t, "preview_failed", resp.Error.Code)
		require.Equal(t, "could not decide preview for https://example.com", resp.Error.Message)
	})
}

func TestWriteError_SetsRequestIDAndJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/news/x", nil)
	r.Header.Set("X-Request-Id", "rid-1")
	w := httptest.NewRecorder()

	WriteError(w, r, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_found", body.Error.Code)
	require.Equal(t, "rid-1", body.Error.RequestID)
}
