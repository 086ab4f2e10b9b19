package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/benefits-api/internal/domain"
	"github.com/pkordes/benefits-api/internal/dto"
)

// errorResponse is the body of every 4xx/5xx response.
// Message is a []string for validation failures and a string otherwise.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    any    `json:"message"`
	Error      string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an errorResponse for status with the given message.
func writeError(w http.ResponseWriter, status int, message any) {
	writeJSON(w, status, errorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// writeServiceError maps an error returned by the service layer onto an HTTP
// response. Unknown errors are logged and reported as 500 without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs dto.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, []string(verrs))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, detail(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, detail(err, domain.ErrDuplicateName))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, []string{detail(err, domain.ErrValidation)})
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// detail extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.BenefitService.FindOne: not found: benefit with id 7 not found"
// → "benefit with id 7 not found". Falls back to the sentinel text.
func detail(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
