package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSave(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "photo.JPG", []byte("image-bytes"))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(ref, "/uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"), "extension survives lowercased")
	assert.NotContains(t, ref, "photo", "original name is discarded")

	data, err := os.ReadFile(filepath.Join(store.BasePath(), strings.TrimPrefix(ref, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestFileStoreSave_RejectsNonImages(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"script.sh", "notes.txt", "archive.zip", "noext"} {
		_, err := store.Save(context.Background(), name, []byte("x"))
		assert.Error(t, err, name)
	}
}

func TestNewFileStore_RequiresPath(t *testing.T) {
	_, err := NewFileStore("  ")
	require.Error(t, err)
}
