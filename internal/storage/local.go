package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
	"github.com/filedrop/filedrop/internal/pkg/logger"
)

// LocalStore implements Store on a directory of the local filesystem.
type LocalStore struct {
	root   string
	logger *logger.Logger
}

// NewLocalStore ensures the root directory exists and returns the store.
func NewLocalStore(root string, log *logger.Logger) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage root is required")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}

	s := &LocalStore{
		root:   root,
		logger: log.Named("storage.local"),
	}

	s.logger.Info("local store initialized", zap.String("root", root))
	return s, nil
}

// path maps a key to a file under the root. Keys are flattened to their
// base name so a hostile filename cannot escape the root directory.
func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.Base(filepath.Clean("/"+key)))
}

// Upload writes the full content in one blocking write. A colliding key
// is overwritten; collisions are prevented upstream by the random prefix
// in the object name.
func (s *LocalStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrStorageFailed, "create file for %q", key)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(s.path(key))
		return apperrors.Wrapf(err, apperrors.ErrStorageFailed, "write file for %q", key)
	}

	if err := f.Close(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrStorageFailed, "close file for %q", key)
	}

	return nil
}

// Read opens the file for streaming.
func (s *LocalStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrObjectNotFound, key)
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrStorageFailed, "open file for %q", key)
	}
	return f, nil
}

// Exists is a direct path-existence check.
func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.Wrapf(err, apperrors.ErrStorageFailed, "stat file for %q", key)
	}
	return true, nil
}

// Health verifies the root exists and is writable via a probe file.
func (s *LocalStore) Health(ctx context.Context) Health {
	info, err := os.Stat(s.root)
	if err != nil {
		return Unhealthy(fmt.Sprintf("storage root %q not accessible: %v", s.root, err))
	}
	if !info.IsDir() {
		return Unhealthy(fmt.Sprintf("storage root %q is not a directory", s.root))
	}

	probe, err := os.CreateTemp(s.root, ".healthcheck-*")
	if err != nil {
		return Unhealthy(fmt.Sprintf("storage root %q not writable: %v", s.root, err))
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return Healthy()
}
