package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is a string-to-string map that remembers insertion order.
// Re-setting an existing key updates its value in place and keeps its position.
// The zero value is ready to use.
type Mapping struct {
	entries *orderedmap.OrderedMap[string, string]
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{entries: orderedmap.New[string, string]()}
}

// Len returns number of entries
func (m *Mapping) Len() int {
	if m == nil || m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Has reports whether key is present
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Get returns value for key and whether it exists
func (m *Mapping) Get(key string) (string, bool) {
	if m == nil || m.entries == nil {
		return "", false
	}
	return m.entries.Get(key)
}

// Set inserts or updates key.
// It returns true when the key was not present before.
func (m *Mapping) Set(key, value string) bool {
	if m.entries == nil {
		m.entries = orderedmap.New[string, string]()
	}
	_, present := m.entries.Set(key, value)
	return !present
}

// Keys returns a copy of the keys in insertion order
func (m *Mapping) Keys() []string {
	out := make([]string, 0, m.Len())
	m.Range(func(k, _ string) bool {
		out = append(out, k)
		return true
	})
	return out
}

// Range calls fn for every entry in insertion order until fn returns false
func (m *Mapping) Range(fn func(key, value string) bool) {
	if m == nil || m.entries == nil {
		return
	}
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone returns an independent copy
func (m *Mapping) Clone() *Mapping {
	c := NewMapping()
	m.Range(func(k, v string) bool {
		c.Set(k, v)
		return true
	})
	return c
}

// MarshalJSON encodes the mapping as a JSON object with members in insertion order
func (m *Mapping) MarshalJSON() ([]byte, error) {
	if m == nil || m.entries == nil {
		return []byte("{}"), nil
	}
	data, err := m.entries.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode mapping: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes a JSON object keeping member order.
// Scalar non-string values (true, 1, null) are kept as their literal text,
// so presence markers written as booleans survive a round trip as keys.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to decode mapping: %w", err)
	}

	fresh := NewMapping()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		value, err := scalarText(pair.Value)
		if err != nil {
			return fmt.Errorf("failed to decode value for %q: %w", pair.Key, err)
		}
		fresh.Set(pair.Key, value)
	}

	*m = *fresh
	return nil
}

// scalarText returns strings unquoted and other scalars as their literal text
func scalarText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("nested values are not supported")
	default:
		return string(trimmed), nil
	}
}
