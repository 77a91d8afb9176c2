// Package kvstore provides the scoped key-value slots the chat history and
// settings are persisted in. Every backend stores opaque byte values under
// string keys and replaces a value atomically on Set.
package kvstore

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a caller passes an empty key.
var ErrEmptyKey = errors.New("kvstore: empty key")

// Store is a minimal get/set/delete key-value interface.
type Store interface {
	// Get returns the value for key. found is false when nothing is stored.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// namespaced joins a backend namespace and a caller key.
func namespaced(namespace, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if namespace == "" {
		return key, nil
	}
	return namespace + ":" + key, nil
}
