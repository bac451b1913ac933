// Package store persists the vocabulary set across runs and guarantees that
// no word is ever recorded twice.
package store

import (
	"fmt"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/vocab"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
)

// Store is a persistent, deduplicating set of vocabulary records.
//
// InsertIfAbsent is the single synchronization point for deduplication: within
// one run, no two calls for the same word may both report an insertion. Each
// successful insertion is durable before the call returns.
type Store interface {
	// Contains reports whether word is already recorded.
	Contains(word string) (bool, error)

	// InsertIfAbsent records rec unless its word already exists.
	// Returns true only when an insertion actually happened; an existing
	// record is never overwritten.
	InsertIfAbsent(rec vocab.Record) (bool, error)

	// Get returns the record for word, or a NOT_FOUND error.
	Get(word string) (*vocab.Record, error)

	// All returns every record ordered by word.
	All() ([]vocab.Record, error)

	// Count returns the number of stored records.
	Count() (int, error)

	// SetTranslation fills in the translation of an existing record. A
	// non-empty context replaces the stored context snippet.
	SetTranslation(word, translation, context string) error

	Close() error
}

// Open opens the store for the given backend name, creating the backing
// structure if absent.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendCSV:
		return OpenCSV(path)
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown storage backend %q (want sqlite or csv)", backend))
	}
}
