package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStore(t *testing.T) (*FileStore, string) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	return s, dir
}

func TestFileStore_GetMissing(t *testing.T) {
	s, _ := setupFileStore(t)

	_, err := s.Get(context.Background(), "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SetThenGet(t *testing.T) {
	s, dir := setupFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart", `[{"id":"1"}]`))

	v, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, v)

	raw, err := os.ReadFile(filepath.Join(dir, "cart.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(raw))
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	s, dir := setupFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart", "first"))
	require.NoError(t, s.Set(ctx, "cart", "second"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	v, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}

func TestFileStore_Delete(t *testing.T) {
	s, _ := setupFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart", "x"))
	require.NoError(t, s.Delete(ctx, "cart"))
	require.NoError(t, s.Delete(ctx, "cart"), "deleting a missing key should not error")

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, _ := setupFileStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "../cart", "a/b", ".hidden"} {
		err := s.Set(ctx, key, "x")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, _ := setupFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, "cart", "x"), context.Canceled)
	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, context.Canceled)
}
