package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_SetKeepsInsertionOrder(t *testing.T) {
	m := NewMapping()
	assert.True(t, m.Set("b", "2"))
	assert.True(t, m.Set("a", "1"))
	assert.True(t, m.Set("c", "3"))

	// Повторная запись не меняет позицию
	assert.False(t, m.Set("b", "20"))

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "20", v)
}

func TestMapping_ZeroValueAndNil(t *testing.T) {
	var nilMap *Mapping
	assert.Equal(t, 0, nilMap.Len())
	assert.False(t, nilMap.Has("x"))
	assert.Empty(t, nilMap.Keys())

	var m Mapping
	m.Set("x", "y")
	assert.True(t, m.Has("x"))
}

func TestMapping_KeysReturnsCopy(t *testing.T) {
	m := NewMapping()
	m.Set("a", "1")
	keys := m.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, m.Keys())
}

func TestMapping_CloneIsIndependent(t *testing.T) {
	m := NewMapping()
	m.Set("a", "1")
	c := m.Clone()
	c.Set("b", "2")
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}

func TestMapping_JSONPreservesOrder(t *testing.T) {
	m := NewMapping()
	m.Set("10.0.0.9", "Room C")
	m.Set("10.0.0.1", "Room A")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"10.0.0.9":"Room C","10.0.0.1":"Room A"}`, string(data))

	decoded := NewMapping()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, []string{"10.0.0.9", "10.0.0.1"}, decoded.Keys())
}

func TestMapping_JSONRoundTripUnicodeAndEscapes(t *testing.T) {
	m := NewMapping()
	m.Set("Иван Петров", "true")
	m.Set(`say "hi"`, "a\tb")
	m.Set("10.0.0.5", "Кабинет 12")

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Mapping
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"Иван Петров", `say "hi"`, "10.0.0.5"}, back.Keys())

	v, ok := back.Get(`say "hi"`)
	require.True(t, ok)
	assert.Equal(t, "a\tb", v)
	v, _ = back.Get("10.0.0.5")
	assert.Equal(t, "Кабинет 12", v)
}

func TestMapping_UnmarshalScalarsAsText(t *testing.T) {
	// Формат Names.json клиента TConect: значения true
	data := []byte(`{"Alice": true, "Bob": true, "n": 12, "z": null}`)

	m := NewMapping()
	require.NoError(t, json.Unmarshal(data, m))
	assert.Equal(t, []string{"Alice", "Bob", "n", "z"}, m.Keys())

	v, _ := m.Get("Alice")
	assert.Equal(t, "true", v)
	v, _ = m.Get("n")
	assert.Equal(t, "12", v)
}

func TestMapping_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "array", data: `["a"]`},
		{name: "nested object", data: `{"a": {"b": 1}}`},
		{name: "nested array", data: `{"a": [1]}`},
		{name: "truncated", data: `{"a": "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMapping()
			err := json.Unmarshal([]byte(tt.data), m)
			assert.Error(t, err)
		})
	}
}

func TestMapping_EmptyObject(t *testing.T) {
	m := NewMapping()
	m.Set("stale", "x")
	require.NoError(t, json.Unmarshal([]byte(`{}`), m))
	assert.Equal(t, 0, m.Len())

	data, err := json.Marshal(NewMapping())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestKind_Validate(t *testing.T) {
	for _, k := range Kinds {
		assert.NoError(t, k.Validate())
	}
	err := Kind("secrets").Validate()
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestIOFailure(t *testing.T) {
	cause := errors.New("disk full")
	err := IOFailure("save", KindNames, cause)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to save names records")

	assert.NoError(t, IOFailure("load", KindNames, nil))
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", ErrStorageClosed), ErrIO)
}
