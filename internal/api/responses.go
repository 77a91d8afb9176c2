package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	app_errors "pocketchat/internal/errors"
)

// Shared response DTOs and the helpers every handler uses to write JSON,
// so all endpoints answer with the same shapes and status mapping.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic success body for operations like DELETE that
// have no resource to send back.
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithError is the single place where business-layer errors become HTTP
// responses. It maps the sentinels in internal/errors to status codes and
// writes a standard ErrorResponse.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		// Validation messages from the service layer are written for the user
		// and carry no storage details, so they are passed through.
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		// The only conflict today is a send while a reply is outstanding.
		message = "A reply is still pending for the current chat."
	case errors.Is(err, app_errors.ErrInternal):
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	default:
		// Anything unclassified is a 500 with a generic message; the client
		// never sees driver or upstream error text.
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	// The full error goes to the log, the client gets only the message above.
	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON is the low-level writer: it marshals payload and writes it
// with the given status code and a JSON content type.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// Only reachable with a payload JSON cannot encode, a programming error.
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		// Usually the client went away mid-response.
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// decodeAndValidate reads a JSON body into dst and runs the validator on it.
// Both failure kinds wrap ErrValidation and therefore become a 400.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// The decoder's own message names Go types, so the client gets a fixed one.
		return fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation)
	}
	return validateRequest(dst)
}
