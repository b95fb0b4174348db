package sqlite

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

var _ storage.RecordStorage = (*Storage)(nil)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded migrations dir %q: %v", dir, err))
	}
	return sub
}

// Load returns the mapping of kind ordered by position
func (s *Storage) Load(ctx context.Context, kind storage.Kind) (*storage.Mapping, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM records WHERE kind = ? ORDER BY position`, string(kind))
	if err != nil {
		return nil, storage.IOFailure("load", kind, err)
	}
	defer rows.Close()

	m := storage.NewMapping()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, storage.IOFailure("load", kind, err)
		}
		m.Set(key, value)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.IOFailure("load", kind, err)
	}

	return m, nil
}

// Save replaces all rows of kind in one transaction
func (s *Storage) Save(ctx context.Context, kind storage.Kind, m *storage.Mapping) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.IOFailure("save", kind, err)
	}
	defer tx.Rollback() //nolint:errcheck // после Commit это no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, string(kind)); err != nil {
		return storage.IOFailure("save", kind, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (kind, position, key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return storage.IOFailure("save", kind, err)
	}
	defer stmt.Close()

	position := 0
	var insertErr error
	m.Range(func(key, value string) bool {
		if _, insertErr = stmt.ExecContext(ctx, string(kind), position, key, value); insertErr != nil {
			return false
		}
		position++
		return true
	})
	if insertErr != nil {
		return storage.IOFailure("save", kind, insertErr)
	}

	if err := tx.Commit(); err != nil {
		return storage.IOFailure("save", kind, err)
	}
	return nil
}
