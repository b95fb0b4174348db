package storage

import (
	"context"
	"fmt"
)

// Kind names one logical record store
type Kind string

const (
	KindCredentials Kind = "credentials" // username -> password digest
	KindNames       Kind = "names"       // display name -> presence marker
	KindEndpoints   Kind = "endpoints"   // address -> note
)

// Kinds lists every store a backend must provide
var Kinds = []Kind{KindCredentials, KindNames, KindEndpoints}

// Validate reports ErrUnknownKind for anything outside Kinds
func (k Kind) Validate() error {
	for _, known := range Kinds {
		if k == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

//go:generate moq -out records_mock.go . RecordStorage

// RecordStorage is the persistence layer of the client.
// It works with whole mappings: Save replaces whatever was stored for the kind,
// so callers merge before saving.
type RecordStorage interface {
	// Load returns the mapping saved for kind.
	// A kind that was never saved yields an empty mapping, not an error.
	Load(ctx context.Context, kind Kind) (*Mapping, error)

	// Save durably overwrites the mapping stored for kind
	Save(ctx context.Context, kind Kind, m *Mapping) error

	// Close releases the backend
	Close() error
}
