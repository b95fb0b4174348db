// Package jsonfile stores client records as indented JSON objects, one file
// per record kind, using the directory layout of the TConect desktop client:
//
//	<data>/User/UserInfo.json   credentials
//	<data>/cache/Names.json     names
//	<data>/cache/IPs.json       endpoints
//
// Existing data directories can therefore be used as they are.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

// Storage is a RecordStorage over plain files
type Storage struct {
	mu     sync.Mutex
	paths  map[storage.Kind]string
	closed bool
}

// Compile-time check that Storage implements RecordStorage
var _ storage.RecordStorage = (*Storage)(nil)

// New creates storage rooted at dataDir. Directories are created lazily on Save.
func New(dataDir string) *Storage {
	return &Storage{
		paths: map[storage.Kind]string{
			storage.KindCredentials: filepath.Join(dataDir, "User", "UserInfo.json"),
			storage.KindNames:       filepath.Join(dataDir, "cache", "Names.json"),
			storage.KindEndpoints:   filepath.Join(dataDir, "cache", "IPs.json"),
		},
	}
}

// Path returns the file backing kind
func (s *Storage) Path(kind storage.Kind) string {
	return s.paths[kind]
}

// Load reads the file for kind; a missing file is an empty mapping
func (s *Storage) Load(ctx context.Context, kind storage.Kind) (*storage.Mapping, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	data, err := os.ReadFile(s.paths[kind])
	if errors.Is(err, fs.ErrNotExist) {
		return storage.NewMapping(), nil
	}
	if err != nil {
		return nil, storage.IOFailure("load", kind, err)
	}

	m := storage.NewMapping()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, storage.IOFailure("load", kind, err)
	}
	return m, nil
}

// Save writes the mapping to a temp file next to the target and renames it into place
func (s *Storage) Save(ctx context.Context, kind storage.Kind, m *storage.Mapping) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if m == nil {
		m = storage.NewMapping()
	}

	compact, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal %s records: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}

	path := s.paths[kind]
	if err := writeIndented(path, compact); err != nil {
		return storage.IOFailure("save", kind, err)
	}
	return nil
}

// Close marks storage closed; files need no cleanup
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func writeIndented(path string, compact []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// после успешного Rename файла уже нет, ошибку игнорируем
		_ = os.Remove(tmpName)
	}()

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "    "); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("indent records: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
