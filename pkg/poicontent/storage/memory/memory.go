package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// Backend is an in-memory implementation of the poicontent.FileStore
// interface, used by tests and the zero-configuration setup.
type Backend struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		files: make(map[string][]byte),
	}
}

// Upload stores the content of reader under key.
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.files[key] = data
	return nil
}

// Download opens the stored file for reading.
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.files[key]
	if !exists {
		return nil, poicontent.ErrFileNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the stored file.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.files[key]; !exists {
		return poicontent.ErrFileNotFound
	}

	delete(b.files, key)
	return nil
}

// GetMeta retrieves metadata for a stored file.
func (b *Backend) GetMeta(ctx context.Context, key string) (*poicontent.FileMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.files[key]
	if !exists {
		return nil, poicontent.ErrFileNotFound
	}

	return &poicontent.FileMeta{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
	}, nil
}
