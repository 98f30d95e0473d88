package tokenstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_RoundTrip(t *testing.T) {
	store := NewFile(t.TempDir())

	require.NoError(t, store.Save("tok-123"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)
}

func TestFile_LoadMissing(t *testing.T) {
	store := NewFile(t.TempDir())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFile_Clear(t *testing.T) {
	store := NewFile(t.TempDir())
	require.NoError(t, store.Save("tok-123"))

	require.NoError(t, store.Clear())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFile_ClearMissing(t *testing.T) {
	store := NewFile(t.TempDir())
	require.NoError(t, store.Clear())
}

func TestFile_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	store := NewFile(dir)

	require.NoError(t, store.Save("tok-456"))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-456", got)
}

func TestFile_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewFile(dir).Save("persisted"))

	got, err := NewFile(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted", got)
}
