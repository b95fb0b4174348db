// Package contacts remembers recently used sender names and listener endpoints.
//
// Both caches are loaded from storage when the cache is created and reloaded
// after every persisted change, so storage stays the source of truth.
// When storage cannot be read the cache keeps working in memory and
// refuses to write until a re-read succeeds.
package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

// presenceMarker is the value stored for a name; only the key matters
const presenceMarker = "true"

// Cache holds the names and endpoints caches
type Cache struct {
	mu        sync.Mutex
	storage   storage.RecordStorage
	logger    *slog.Logger
	names     *storage.Mapping
	endpoints *storage.Mapping
	// unread отмечает виды, которые не удалось прочитать из хранилища
	unread map[storage.Kind]bool
}

// NewCache creates the cache and loads both kinds from storage
func NewCache(ctx context.Context, s storage.RecordStorage, logger *slog.Logger) *Cache {
	c := &Cache{
		storage:   s,
		logger:    logger,
		names:     storage.NewMapping(),
		endpoints: storage.NewMapping(),
		unread:    make(map[storage.Kind]bool),
	}
	c.Reload(ctx)
	return c
}

// Reload re-reads both caches from storage.
// A kind that fails to load keeps its current in-memory content.
func (c *Cache) Reload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = c.load(ctx, storage.KindNames, c.names)
	c.endpoints = c.load(ctx, storage.KindEndpoints, c.endpoints)
}

func (c *Cache) load(ctx context.Context, kind storage.Kind, fallback *storage.Mapping) *storage.Mapping {
	m, err := c.storage.Load(ctx, kind)
	if err != nil {
		c.unread[kind] = true
		c.logger.WarnContext(ctx, "failed to load cache, using in-memory copy",
			slog.String("kind", string(kind)), slog.Any("error", err))
		return fallback
	}
	c.unread[kind] = false
	return m
}

// commit saves updated and makes it the in-memory copy.
// On save failure the change stays in memory and the error is returned.
// A kind that could not be read is re-read first and updated is merged
// over it; while it stays unreadable nothing is written, so records
// on disk are never replaced by the in-memory view.
func (c *Cache) commit(ctx context.Context, kind storage.Kind, updated *storage.Mapping) error {
	if c.unread[kind] {
		stored, err := c.storage.Load(ctx, kind)
		if err != nil {
			c.set(kind, updated)
			return fmt.Errorf("failed to save %s: storage could not be read: %w", kind, err)
		}
		c.unread[kind] = false
		updated.Range(func(k, v string) bool {
			stored.Set(k, v)
			return true
		})
		updated = stored
	}

	if err := c.storage.Save(ctx, kind, updated); err != nil {
		c.set(kind, updated)
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	c.set(kind, c.load(ctx, kind, updated))
	return nil
}

func (c *Cache) set(kind storage.Kind, m *storage.Mapping) {
	switch kind {
	case storage.KindNames:
		c.names = m
	case storage.KindEndpoints:
		c.endpoints = m
	}
}

// RecordName remembers a sender name. Blank input and known names are no-ops.
func (c *Cache) RecordName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.names.Has(name) {
		return nil
	}

	updated := c.names.Clone()
	updated.Set(name, presenceMarker)
	if err := c.commit(ctx, storage.KindNames, updated); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "name recorded", slog.String("name", name))
	return nil
}

// RecordEndpoint parses raw as "note - address" and upserts it.
// An existing address gets the new note; no duplicate is created.
// The returned Endpoint is normalized, Endpoint.String gives the canonical text.
func (c *Cache) RecordEndpoint(ctx context.Context, raw string) (Endpoint, error) {
	ep, err := ParseEndpoint(raw)
	if err != nil {
		return Endpoint{}, err
	}
	if err := c.SaveEndpoint(ctx, ep); err != nil {
		return ep, err
	}
	return ep, nil
}

// SaveEndpoint upserts an already parsed endpoint
func (c *Cache) SaveEndpoint(ctx context.Context, ep Endpoint) error {
	ep.Address = strings.TrimSpace(ep.Address)
	ep.Note = strings.TrimSpace(ep.Note)
	if ep.Address == "" {
		return &FormatError{Input: ep.String()}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Та же заметка — писать нечего
	if note, ok := c.endpoints.Get(ep.Address); ok && note == ep.Note {
		return nil
	}

	updated := c.endpoints.Clone()
	updated.Set(ep.Address, ep.Note)
	if err := c.commit(ctx, storage.KindEndpoints, updated); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "endpoint recorded",
		slog.String("address", ep.Address), slog.String("note", ep.Note))
	return nil
}

// Note returns the note stored for address
func (c *Cache) Note(address string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoints.Get(strings.TrimSpace(address))
}

// ListNames returns names in insertion order
func (c *Cache) ListNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.names.Keys()
}

// Endpoints returns endpoints in insertion order
func (c *Cache) Endpoints() []Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Endpoint, 0, c.endpoints.Len())
	c.endpoints.Range(func(address, note string) bool {
		out = append(out, Endpoint{Address: address, Note: note})
		return true
	})
	return out
}

// ListEndpoints returns endpoints as "note - address" strings in insertion order
func (c *Cache) ListEndpoints() []string {
	eps := c.Endpoints()
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.String()
	}
	return out
}
