package fs

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return backend
}

func TestNew(t *testing.T) {
	t.Run("missing base dir", func(t *testing.T) {
		_, err := New(Config{})
		assert.Error(t, err)
	})

	t.Run("creates base dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "contents")
		backend, err := New(Config{BaseDir: dir})
		require.NoError(t, err)
		assert.Equal(t, dir, backend.Dir())
	})
}

func TestUploadDownload(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "7.txt", strings.NewReader("field notes")))

	rc, err := backend.Download(ctx, "7.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "field notes", string(data))
}

func TestDownloadMissing(t *testing.T) {
	backend := newBackend(t)

	_, err := backend.Download(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, poicontent.ErrFileNotFound)
}

func TestDelete(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "7.txt", strings.NewReader("x")))
	require.NoError(t, backend.Delete(ctx, "7.txt"))

	assert.ErrorIs(t, backend.Delete(ctx, "7.txt"), poicontent.ErrFileNotFound)
	_, err := backend.Download(ctx, "7.txt")
	assert.ErrorIs(t, err, poicontent.ErrFileNotFound)
}

func TestGetMeta(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "7.txt", strings.NewReader("plain text payload")))

	meta, err := backend.GetMeta(ctx, "7.txt")
	require.NoError(t, err)
	assert.Equal(t, "7.txt", meta.Key)
	assert.Equal(t, int64(len("plain text payload")), meta.Size)
	assert.Contains(t, meta.ContentType, "text/plain")

	_, err = backend.GetMeta(ctx, "missing.txt")
	assert.ErrorIs(t, err, poicontent.ErrFileNotFound)
}

func TestKeyIsFlattened(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()

	// Path separators in a key must not escape the base directory.
	require.NoError(t, backend.Upload(ctx, "../../etc/7.txt", strings.NewReader("x")))

	rc, err := backend.Download(ctx, "7.txt")
	require.NoError(t, err)
	rc.Close()
}
