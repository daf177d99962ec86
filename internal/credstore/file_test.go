package credstore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

func TestFileBackendCorruptFileStartsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage{"), 0o600))

	_, ok := New(NewFileBackend(path), logger.Nop()).Load(context.Background())
	assert.False(t, ok)
}

func TestFileBackendWritesOwnerOnlyFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := New(NewFileBackend(path), logger.Nop())
	require.NoError(t, store.Save(context.Background(), alice))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(filepath.Join(dir, "credentials.json"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, backend.Write(ctx, Slots{Token: "t", User: "u"}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "credentials.json", entries[0].Name())
}

func TestFileBackendWriteFailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	backend := NewFileBackend(path)
	ctx := context.Background()
	require.NoError(t, backend.Write(ctx, Slots{Token: "old", User: "u"}))

	// The parent of this path is a regular file, so MkdirAll fails.
	broken := NewFileBackend(filepath.Join(path, "child.json"))
	require.Error(t, broken.Write(ctx, Slots{Token: "new", User: "u"}))

	got, err := backend.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", got.Token)
}
