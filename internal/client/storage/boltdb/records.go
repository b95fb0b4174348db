package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

// recordsKey holds the whole mapping of a bucket as one JSON document.
// A single value keeps insertion order and makes Save a full replace.
var recordsKey = []byte("records")

// Load retrieves the mapping stored for kind
// Returns an empty mapping if nothing was saved yet
func (s *Storage) Load(ctx context.Context, kind storage.Kind) (*storage.Mapping, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	m := storage.NewMapping()
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", kind)
		}

		data := bucket.Get(recordsKey)
		if data == nil {
			// Ничего не сохранено — пустой mapping
			return nil
		}

		// Десериализуем внутри транзакции: data валидна только до её конца
		if err := json.Unmarshal(data, m); err != nil {
			return fmt.Errorf("failed to unmarshal records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, storage.IOFailure("load", kind, err)
	}

	return m, nil
}

// Save overwrites the mapping stored for kind
func (s *Storage) Save(ctx context.Context, kind storage.Kind, m *storage.Mapping) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if m == nil {
		m = storage.NewMapping()
	}

	// Сериализуем до открытия транзакции записи
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal %s records: %w", kind, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket == nil {
			return fmt.Errorf("%s bucket not found", kind)
		}

		if err := bucket.Put(recordsKey, data); err != nil {
			return fmt.Errorf("failed to save records: %w", err)
		}
		return nil
	})
	return storage.IOFailure("save", kind, err)
}
