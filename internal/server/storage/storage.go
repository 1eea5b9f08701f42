// Package storage persists document blobs under server-generated opaque
// locators. Two drivers exist: local disk and S3-compatible object storage.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore reads and writes blob bytes by locator. Implementations must
// treat deletion of an absent blob as success, and report an absent blob on
// Open with common.ErrBlobMissing so callers can tell a metadata/blob
// divergence apart from an ordinary missing resource.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// GenerateKey returns a fresh opaque locator for a blob. The client-supplied
// filename contributes at most a short sanitized extension; the name itself
// never reaches the storage layer.
func GenerateKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return uuid.NewString() + ext
}
