package storage

import (
	"fmt"

	"github.com/filedrop/filedrop/internal/conf"
	"github.com/filedrop/filedrop/internal/pkg/logger"
)

// New builds the storage backend selected by the configuration. An
// unrecognized backend name fails fast so the process never serves
// traffic with a half-configured store.
func New(cfg *conf.Config, log *logger.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case conf.BackendMinIO:
		return NewMinIOStore(cfg.MinIO, log)
	case conf.BackendLocal:
		return NewLocalStore(cfg.Storage.LocalPath, log)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}
