// Package store persists keyword-count records keyed by record name.
package store

import (
	"context"
	"errors"

	"github.com/yoanbernabeu/keycount/keywords"
)

var (
	// ErrNotFound is returned when no record exists under a name.
	ErrNotFound = errors.New("record not found")

	// ErrExists is returned by Create when a record is already present.
	ErrExists = errors.New("record already exists")

	// ErrParse is returned when a persisted record is malformed.
	ErrParse = errors.New("malformed record")
)

// Backend defines the interface for record storage backends
type Backend interface {
	// Exists reports whether a record is stored under name
	Exists(ctx context.Context, name string) (bool, error)

	// Read returns the persisted entries of a record, or ErrNotFound
	Read(ctx context.Context, name string) (keywords.Counts, error)

	// Create stores the non-zero entries of counts in vocabulary order.
	// It never overwrites: an existing record yields ErrExists.
	Create(ctx context.Context, name string, vocab keywords.Vocabulary, counts keywords.Counts) error

	// Remove deletes a record and reports whether it existed
	Remove(ctx context.Context, name string) (bool, error)

	// Location describes where a record lives, for messages
	Location(name string) string

	// Close cleanly shuts down the backend
	Close() error
}
