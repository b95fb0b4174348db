// Package storagetest provides an in-memory RecordStorage for tests,
// with switches to inject load and save failures.
package storagetest

import (
	"context"
	"sync"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

// Memory is a RecordStorage kept in process memory
type Memory struct {
	mu      sync.Mutex
	data    map[storage.Kind]*storage.Mapping
	loadErr error
	saveErr error
	saves   map[storage.Kind]int
}

var _ storage.RecordStorage = (*Memory)(nil)

// NewMemory creates empty storage
func NewMemory() *Memory {
	return &Memory{
		data:  make(map[storage.Kind]*storage.Mapping),
		saves: make(map[storage.Kind]int),
	}
}

// FailLoad makes every Load return err (nil clears it)
func (m *Memory) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes every Save return err (nil clears it)
func (m *Memory) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many successful saves kind received
func (m *Memory) Saves(kind storage.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[kind]
}

// Put seeds kind with a copy of mapping without counting a save
func (m *Memory) Put(kind storage.Kind, mapping *storage.Mapping) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[kind] = mapping.Clone()
}

// Load returns a copy of the stored mapping
func (m *Memory) Load(ctx context.Context, kind storage.Kind) (*storage.Mapping, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, storage.IOFailure("load", kind, m.loadErr)
	}
	if stored, ok := m.data[kind]; ok {
		return stored.Clone(), nil
	}
	return storage.NewMapping(), nil
}

// Save stores a copy of mapping
func (m *Memory) Save(ctx context.Context, kind storage.Kind, mapping *storage.Mapping) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return storage.IOFailure("save", kind, m.saveErr)
	}
	if mapping == nil {
		mapping = storage.NewMapping()
	}
	m.data[kind] = mapping.Clone()
	m.saves[kind]++
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
