package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
	"github.com/filedrop/filedrop/internal/pkg/logger"
)

func newLocalStore(t *testing.T) *LocalStore {
	t.Helper()

	s, err := NewLocalStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return s
}

func TestLocalStoreRoundTrip(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	content := []byte("hello")
	key := "abc123notes.txt"

	err := s.Upload(ctx, key, bytes.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)

	rc, err := s.Read(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStoreReadMissingKey(t *testing.T) {
	s := newLocalStore(t)

	_, err := s.Read(context.Background(), "never-uploaded.txt")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrObjectNotFound))
}

func TestLocalStoreExists(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "missing.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Upload(ctx, "present.txt", strings.NewReader("x"), 1, "text/plain"))

	exists, err = s.Exists(ctx, "present.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStoreOverwriteSemantics(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "k.txt", strings.NewReader("first"), 5, "text/plain"))
	require.NoError(t, s.Upload(ctx, "k.txt", strings.NewReader("second"), 6, "text/plain"))

	rc, err := s.Read(ctx, "k.txt")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestLocalStoreKeyCannotEscapeRoot(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "../../etc/evil.txt", strings.NewReader("x"), 1, "text/plain"))

	entries, err := os.ReadDir(s.root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "evil.txt", entries[0].Name())
}

func TestLocalStoreHealth(t *testing.T) {
	s := newLocalStore(t)

	h := s.Health(context.Background())
	assert.True(t, h.OK())
	assert.Empty(t, h.Detail)
}

func TestLocalStoreHealthMissingRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "uploads")

	s, err := NewLocalStore(root, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(root))

	h := s.Health(context.Background())
	assert.False(t, h.OK())
	assert.NotEmpty(t, h.Detail)
}

func TestNewLocalStoreRequiresRoot(t *testing.T) {
	_, err := NewLocalStore("", logger.NewNop())
	require.Error(t, err)
}

func TestNewLocalStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStore(root, logger.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
