package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/teachconnect/internal/client/storage"
)

func createTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_EmptyKind(t *testing.T) {
	s := createTestStorage(t)
	for _, kind := range storage.Kinds {
		m, err := s.Load(context.Background(), kind)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	}
}

func TestSaveLoad_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)

	m := storage.NewMapping()
	m.Set("10.0.0.9", "Room C")
	m.Set("10.0.0.1", "Room A")
	m.Set("10.0.0.5", "")
	require.NoError(t, s.Save(ctx, storage.KindEndpoints, m))

	got, err := s.Load(ctx, storage.KindEndpoints)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.9", "10.0.0.1", "10.0.0.5"}, got.Keys())
	note, _ := got.Get("10.0.0.1")
	assert.Equal(t, "Room A", note)

	// Другие виды не затронуты
	names, err := s.Load(ctx, storage.KindNames)
	require.NoError(t, err)
	assert.Equal(t, 0, names.Len())
}

func TestSave_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)

	first := storage.NewMapping()
	first.Set("Alice", "true")
	first.Set("Bob", "true")
	require.NoError(t, s.Save(ctx, storage.KindNames, first))

	second := storage.NewMapping()
	second.Set("Carol", "true")
	require.NoError(t, s.Save(ctx, storage.KindNames, second))

	got, err := s.Load(ctx, storage.KindNames)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol"}, got.Keys())
}

func TestReopen_KeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.sqlite")

	s, err := New(ctx, path)
	require.NoError(t, err)
	m := storage.NewMapping()
	m.Set("teacher", "digest")
	require.NoError(t, s.Save(ctx, storage.KindCredentials, m))
	require.NoError(t, s.Close())

	// Повторное открытие не применяет миграции заново
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, storage.KindCredentials)
	require.NoError(t, err)
	assert.Equal(t, []string{"teacher"}, got.Keys())
}

func TestClosedAndUnknownKind(t *testing.T) {
	ctx := context.Background()
	s := createTestStorage(t)

	_, err := s.Load(ctx, storage.Kind("bogus"))
	assert.ErrorIs(t, err, storage.ErrUnknownKind)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Load(ctx, storage.KindNames)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, err, storage.ErrIO)
	assert.ErrorIs(t, s.Save(ctx, storage.KindNames, storage.NewMapping()), storage.ErrStorageClosed)
}
