// Package token issues the integer upload tokens handed out at
// content-creation time. Tokens are strictly increasing and survive process
// restarts.
package token

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Issuer hands out upload tokens. Implementations must guarantee strictly
// increasing values across concurrent calls and process restarts.
type Issuer interface {
	Next(ctx context.Context) (int64, error)
}

// FileIssuer persists the high-water mark in a single counter file. Each
// issue is an atomic increment-and-persist under a mutex; the file is written
// via create-and-rename so a crash never leaves a torn value behind.
type FileIssuer struct {
	mu   sync.Mutex
	path string
	last int64
}

// NewFileIssuer loads the counter file at path. A missing file starts the
// counter at zero. A file that exists but cannot be parsed is a fatal
// condition: reissuing a token below the visible high-water mark would hand
// out colliding tokens, so the constructor refuses to start.
func NewFileIssuer(path string) (*FileIssuer, error) {
	if path == "" {
		return nil, fmt.Errorf("counter file path is required")
	}

	iss := &FileIssuer{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return iss, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read counter file: %w", err)
	}

	last, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("counter file %s is corrupt: %w", path, err)
	}
	iss.last = last

	return iss, nil
}

// Next issues the next token, persisting the new high-water mark before
// returning it.
func (i *FileIssuer) Next(ctx context.Context) (int64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	next := i.last + 1
	if err := i.persist(next); err != nil {
		return 0, err
	}
	i.last = next
	return next, nil
}

// Last returns the highest token issued so far.
func (i *FileIssuer) Last() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}

func (i *FileIssuer) persist(value int64) error {
	dir := filepath.Dir(i.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create counter directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".counter-*")
	if err != nil {
		return fmt.Errorf("failed to create counter temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.WriteString(strconv.FormatInt(value, 10)); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("failed to write counter: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to close counter temp file: %w", err)
	}

	if err := os.Rename(name, i.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to persist counter: %w", err)
	}
	return nil
}
