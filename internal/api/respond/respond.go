// Package respond centralizes the JSON response shapes used by the
// fuzzy-search endpoints (§6 HTTP).
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// WriteJSON writes data as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// matchesEnvelope is the `{"matches": ...}` shape shared by all three
// endpoints (§6).
type matchesEnvelope struct {
	Matches interface{} `json:"matches"`
}

// WriteMatches writes matches under the 200 `{"matches": ...}` envelope.
func WriteMatches(w http.ResponseWriter, matches interface{}) {
	WriteJSON(w, http.StatusOK, matchesEnvelope{Matches: matches})
}

// WriteEmptyMatches writes `{"matches": []}` at the given status code —
// the shape InputValidation failures use (§4.7.1 step 1, §8 scenario 6).
func WriteEmptyMatches(w http.ResponseWriter, statusCode int) {
	WriteJSON(w, statusCode, matchesEnvelope{Matches: []struct{}{}})
}

// ErrorResponse is the body used for errors that are not InputValidation
// (PoolExhaustion, and panics caught by the recovery middleware).
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteError writes a standardized error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

// WriteServiceUnavailable writes a 503, used when a worker pool could not
// be acquired before the configured deadline (§7 PoolExhaustion).
func WriteServiceUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, message)
}

// WriteInternalError writes a 500 Internal Server Error response. Its
// only caller is the panic-recovery middleware; a panic inside a Matcher
// is recovered by the handlers' runMatch and answered with an empty 200
// result, not with this response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
