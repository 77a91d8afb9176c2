package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no chat has the requested id. The service
// layer translates it into app_errors.ErrNotFound or treats it as a no-op.
var ErrNotFound = errors.New("repository: not found")

// ParseError reports a persisted chat collection that could not be decoded.
// LoadAll recovers from it by treating the slot as empty.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("repository: could not parse stored chats under %q: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
