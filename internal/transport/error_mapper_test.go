package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iskra-app/backend/internal/domain"
)

func TestDomainError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{domain.ErrMessageTooLarge, http.StatusBadRequest, "invalid_input"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrNotParticipant, http.StatusForbidden, "forbidden"},
		{domain.ErrUserNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrConversationNotFound, http.StatusNotFound, "not_found"},
		{errors.New("database exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, c := range cases {
		t.Run(c.code+fmt.Sprintf("_%d", c.status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)

			DomainError(rec, req, c.err)

			require.Equal(t, c.status, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, c.code, body["error"])
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestDomainError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/messages", nil)

	DomainError(rec, req, fmt.Errorf("post message: %w", domain.ErrNotParticipant))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDomainError_InternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)

	DomainError(rec, req, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotContains(t, body["message"], "pq:")
}
