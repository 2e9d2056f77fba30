package transport

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/domain"
	"github.com/iskra-app/backend/internal/observability"
)

// DomainError maps the service error taxonomy to HTTP responses. Anything
// outside the taxonomy is an internal error: logged in full, surfaced as a
// generic 500.
func DomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", "invalid request")
	case errors.Is(err, domain.ErrMessageTooLarge):
		WriteError(w, http.StatusBadRequest, "invalid_input", "message too large")
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "operation not permitted")
	case errors.Is(err, domain.ErrNotParticipant):
		WriteError(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, domain.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "user not found")
	case errors.Is(err, domain.ErrConversationNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "conversation not found")
	default:
		observability.GetLogger(r.Context()).Error("internal_error", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}
