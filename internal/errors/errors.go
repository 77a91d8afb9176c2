package errors

import "errors"

// Sentinel errors shared by the service and API layers. Services wrap them with
// fmt.Errorf("...: %w", ...) and the API layer maps them to status codes with errors.Is.

var (
	// ErrNotFound signifies that a requested chat or setting could not be located.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input failed a business rule, such as an
	// unknown model name or an empty system prompt.
	// Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that the session is busy, e.g. a reply is still pending.
	// Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrInternal is a generic failure that hides storage details from clients.
	// Mapped to 500 Internal Server Error.
	ErrInternal = errors.New("internal server error")
)
