// Package documents provides the PostgreSQL-backed, owner-scoped repository
// for document metadata records. The blob bytes themselves live in the blob
// store under Document.StorageKey.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lockbox/internal/common"
	"lockbox/internal/dbx"
	"lockbox/internal/server/models"
)

// PostgresRepository implements document metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, user_id, vault_id, name, original_name, mime_type, size_bytes, storage_key, uploaded_at`

func scanDocument(row interface{ Scan(...any) error }, d *models.Document) error {
	return row.Scan(&d.ID, &d.OwnerID, &d.VaultID, &d.Name, &d.OriginalName,
		&d.MimeType, &d.Size, &d.StorageKey, &d.UploadedAt)
}

// List returns the owner's documents, newest first, stable on ties.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM documents
		 WHERE user_id = $1
		 ORDER BY uploaded_at DESC, id
		 `
	return r.queryMany(ctx, query, ownerID)
}

// ListByVault returns the owner's documents filed in the given vault.
func (r *PostgresRepository) ListByVault(ctx context.Context, ownerID, vaultID string) ([]*models.Document, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM documents
		 WHERE user_id = $1 AND vault_id = $2
		 ORDER BY uploaded_at DESC, id
		 `
	return r.queryMany(ctx, query, ownerID, vaultID)
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var item models.Document
		if err := scanDocument(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM documents
		 WHERE id = $1 AND user_id = $2
		 `

	d := &models.Document{}
	err := scanDocument(r.db.QueryRowContext(ctx, query, id, ownerID), d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, document *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (user_id, vault_id, name, original_name, mime_type, size_bytes, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		document.OwnerID, document.VaultID, document.Name, document.OriginalName,
		document.MimeType, document.Size, document.StorageKey).
		Scan(&document.ID, &document.UploadedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return document, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM documents WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
