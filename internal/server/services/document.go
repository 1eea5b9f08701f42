package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"lockbox/internal/common"
	"lockbox/internal/dbx"
	"lockbox/internal/server/models"
	"lockbox/internal/server/repositories/repomanager"
	"lockbox/internal/server/storage"
)

// allowedMimeTypes is the closed set of content types a document may carry.
var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"image/svg+xml":   {},
	"application/pdf": {},
}

// UploadParams describes an incoming document. Size is the declared length
// from the transport; the stream is re-measured during save and wins.
// Name optionally overrides the display name derived from OriginalName.
type UploadParams struct {
	VaultID      string
	Name         string
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
}

// DocumentService manages document metadata together with the blob bytes
// behind it. Metadata lives in the database, bytes in a BlobStore; the
// service keeps the two from diverging: no blob is persisted for a request
// that cannot produce a metadata row, and no metadata row survives without
// its blob having been asked to go first on delete.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	maxBytes    int64
}

// NewDocumentService constructs a DocumentService. maxBytes caps the size of
// a single document's bytes.
func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, maxBytes int64) *DocumentService {
	return &DocumentService{db: db, repomanager: m, blobs: blobs, maxBytes: maxBytes}
}

func (s *DocumentService) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	return s.repomanager.Documents(s.db).List(ctx, ownerID)
}

// ListByVault returns the documents filed in one vault. The vault must exist
// under the caller; otherwise ErrVaultNotFound.
func (s *DocumentService) ListByVault(ctx context.Context, ownerID, vaultID string) ([]*models.Document, error) {
	if _, err := s.repomanager.Vaults(s.db).Get(ctx, vaultID, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrVaultNotFound
		}
		return nil, err
	}
	return s.repomanager.Documents(s.db).ListByVault(ctx, ownerID, vaultID)
}

func (s *DocumentService) Get(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.repomanager.Documents(s.db).Get(ctx, id, ownerID)
}

// Upload validates the request, stores the blob, and records the metadata in
// a transaction. Validation and the vault ownership check run before any
// byte is persisted; if the metadata write fails afterwards the freshly
// stored blob is removed again.
func (s *DocumentService) Upload(ctx context.Context, ownerID string, p UploadParams) (*models.Document, error) {
	if strings.TrimSpace(p.VaultID) == "" {
		return nil, common.ErrVaultRequired
	}
	mimeType := normalizeMimeType(p.MimeType)
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return nil, common.ErrUnsupportedFileType
	}
	if p.Size > s.maxBytes {
		return nil, common.ErrFileTooLarge
	}
	originalName := filepath.Base(strings.TrimSpace(p.OriginalName))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}

	if _, err := s.repomanager.Vaults(s.db).Get(ctx, p.VaultID, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrVaultNotFound
		}
		return nil, err
	}

	key := storage.GenerateKey(originalName)

	// The declared size is advisory. The stream itself is capped at one byte
	// over the limit so an oversized body is detected without draining it.
	n, err := s.blobs.Save(ctx, key, io.LimitReader(p.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storing blob: %w", err)
	}
	if n > s.maxBytes {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("%w: removing oversized blob: %w", common.ErrorInternal, delErr)
		}
		return nil, common.ErrFileTooLarge
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.TrimSuffix(originalName, filepath.Ext(originalName))
	}
	if name == "" {
		name = originalName
	}

	document := &models.Document{
		OwnerID:      ownerID,
		VaultID:      p.VaultID,
		Name:         name,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         n,
		StorageKey:   key,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Vaults(tx).Get(ctx, p.VaultID, ownerID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrVaultNotFound
			}
			return err
		}
		_, err := s.repomanager.Documents(tx).Create(ctx, document)
		return err
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("%w: removing blob after failed insert: %w", common.ErrorInternal, delErr)
		}
		return nil, err
	}
	return document, nil
}

// Open returns a document's metadata together with a reader over its bytes.
// The caller owns closing the reader. A metadata row whose blob has gone
// missing surfaces ErrBlobMissing, distinct from an ordinary not-found.
func (s *DocumentService) Open(ctx context.Context, id, ownerID string) (*models.Document, io.ReadCloser, error) {
	document, err := s.repomanager.Documents(s.db).Get(ctx, id, ownerID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, document.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return document, rc, nil
}

// Delete removes the blob first, then the metadata row. A blob that cannot
// be deleted aborts the whole operation so the row keeps pointing at the
// bytes that still exist.
func (s *DocumentService) Delete(ctx context.Context, id, ownerID string) error {
	document, err := s.repomanager.Documents(s.db).Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, document.StorageKey); err != nil {
		return fmt.Errorf("%w: deleting blob: %w", common.ErrorInternal, err)
	}
	return s.repomanager.Documents(s.db).Delete(ctx, id, ownerID)
}

// DeleteByVault removes every document filed in the vault, blob first, row
// second, so that deleting the vault itself never strands bytes in storage.
// A blob-delete failure aborts the sweep with the remaining rows intact.
func (s *DocumentService) DeleteByVault(ctx context.Context, ownerID, vaultID string) error {
	docs, err := s.repomanager.Documents(s.db).ListByVault(ctx, ownerID, vaultID)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if err := s.blobs.Delete(ctx, d.StorageKey); err != nil {
			return fmt.Errorf("%w: deleting blob: %w", common.ErrorInternal, err)
		}
		if err := s.repomanager.Documents(s.db).Delete(ctx, d.ID, ownerID); err != nil {
			return err
		}
	}
	return nil
}

func normalizeMimeType(mt string) string {
	mt = strings.ToLower(strings.TrimSpace(mt))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
