package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DealHunter/internal/domain"
)

func TestJSONStore_LoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "last_prices.json"))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, state)
	assert.Empty(t, state)
}

// TestJSONStore_RoundTrip verifies a replaced state reads back unchanged.
func TestJSONStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "last_prices.json")
	store := NewJSONStore(path)

	want := domain.PriceState{"item001": 45000, "item002": 1299.99, "item003": 0}
	require.NoError(t, store.Replace(ctx, want))

	got, err := NewJSONStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJSONStore_ReplaceOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore(filepath.Join(t.TempDir(), "last_prices.json"))

	require.NoError(t, store.Replace(ctx, domain.PriceState{"old": 1, "kept": 2}))
	require.NoError(t, store.Replace(ctx, domain.PriceState{"kept": 3}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PriceState{"kept": 3}, got)
}

func TestJSONStore_ReadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_prices.json")
	legacy := "{\n  \"item001\": 50000.0,\n  \"item002\": 12500\n}"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	got, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PriceState{"item001": 50000, "item002": 12500}, got)
}

func TestJSONStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_prices.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewJSONStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestJSONStore_ReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONStore(filepath.Join(dir, "last_prices.json"))

	require.NoError(t, store.Replace(context.Background(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "last_prices.json", entries[0].Name())
}

func TestJSONStore_ReplaceFailsWhenDirectoryIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := NewJSONStore(filepath.Join(blocker, "last_prices.json")).Replace(context.Background(), domain.PriceState{"a": 1})
	assert.Error(t, err)
}
