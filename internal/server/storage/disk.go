package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"lockbox/internal/common"
)

// DiskStore keeps blobs as files under a single root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed and returns a store
// bound to it.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// path maps a locator to a file path. Locators are server-generated, but the
// base-name reduction holds even for a corrupt one.
func (s *DiskStore) path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}

// Save streams r into a file named by key and returns the byte count.
// A partially written file is removed on error.
func (s *DiskStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	dst := s.path(key)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create blob %s: %w", key, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("write blob %s: %w", key, err)
	}
	return n, nil
}

// Open returns a reader over the blob's bytes, or common.ErrBlobMissing if
// no file exists for the locator.
func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrBlobMissing
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the blob. An already-absent blob counts as removed.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
