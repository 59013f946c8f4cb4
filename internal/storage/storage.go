// Package storage provides the blob storage abstraction: a single Store
// interface with a MinIO-backed and a local-filesystem-backed
// implementation, selected by configuration at startup.
//
// Backend-specific failures never escape this package; every operation
// translates them into coded application errors, so callers only ever
// match on the generic storage-failed and not-found codes.
package storage

import (
	"context"
	"io"
)

// Health status values reported by Store.Health and the metadata store.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Health is the outcome of a backend health probe. Probes never fail;
// internal faults are captured as an unhealthy status with cause text.
type Health struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Healthy returns a healthy probe result.
func Healthy() Health {
	return Health{Status: StatusHealthy}
}

// Unhealthy returns an unhealthy probe result carrying the cause.
func Unhealthy(detail string) Health {
	return Health{Status: StatusUnhealthy, Detail: detail}
}

// OK reports whether the probe found the backend usable.
func (h Health) OK() bool {
	return h.Status == StatusHealthy
}

// Store is the capability contract every storage backend implements.
// Implementations are safe for concurrent use by multiple requests.
type Store interface {
	// Upload durably persists the content read from r under key. size is
	// the exact byte length, contentType the client-declared MIME type.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read returns a stream of the blob stored under key. The caller must
	// close it. A missing key yields a not-found coded error.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks for the blob without fetching it. A merely-absent key
	// is (false, nil); only backend connectivity failures return an error.
	Exists(ctx context.Context, key string) (bool, error)

	// Health probes the backend. It never returns an error.
	Health(ctx context.Context) Health
}
