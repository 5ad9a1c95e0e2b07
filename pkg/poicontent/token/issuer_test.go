package token

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileIssuer_FirstTokenIsOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter")

	iss, err := NewFileIssuer(path)
	require.NoError(t, err)

	got, err := iss.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestFileIssuer_MonotonicAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter")
	ctx := context.Background()

	iss, err := NewFileIssuer(path)
	require.NoError(t, err)

	for i := int64(1); i <= 3; i++ {
		got, err := iss.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	// Reopen as a restarted process would.
	reopened, err := NewFileIssuer(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reopened.Last())

	got, err := reopened.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
}

func TestFileIssuer_CorruptCounterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o644))

	_, err := NewFileIssuer(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestFileIssuer_EmptyPath(t *testing.T) {
	_, err := NewFileIssuer("")
	require.Error(t, err)
}

func TestFileIssuer_ConcurrentIssues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter")
	ctx := context.Background()

	iss, err := NewFileIssuer(path)
	require.NoError(t, err)

	const n = 50
	tokens := make([]int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := iss.Next(ctx)
			assert.NoError(t, err)
			tokens[i] = got
		}(i)
	}
	wg.Wait()

	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	for i, got := range tokens {
		assert.Equal(t, int64(i+1), got, "tokens must be distinct and contiguous")
	}

	// The persisted high-water mark matches the last issue.
	reopened, err := NewFileIssuer(path)
	require.NoError(t, err)
	assert.Equal(t, int64(n), reopened.Last())
}
