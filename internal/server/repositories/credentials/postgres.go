// Package credentials provides the PostgreSQL-backed, owner-scoped
// repository for stored logins.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lockbox/internal/common"
	"lockbox/internal/dbx"
	"lockbox/internal/server/models"
)

// PostgresRepository implements credential storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the owner's credentials, newest first, stable on ties.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	query :=
		`SELECT id, user_id, vault_id, title, username, secret, url, notes, created_at, updated_at
		 FROM credentials
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Credential
	for rows.Next() {
		var item models.Credential
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.VaultID, &item.Title, &item.Username,
			&item.Secret, &item.URL, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Credential, error) {
	query :=
		`SELECT id, user_id, vault_id, title, username, secret, url, notes, created_at, updated_at
		 FROM credentials
		 WHERE id = $1 AND user_id = $2
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.VaultID, &c.Title, &c.Username,
		&c.Secret, &c.URL, &c.Notes, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	query :=
		`INSERT INTO credentials (user_id, vault_id, title, username, secret, url, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		credential.OwnerID, credential.VaultID, credential.Title, credential.Username,
		credential.Secret, credential.URL, credential.Notes).
		Scan(&credential.ID, &credential.CreatedAt, &credential.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}

// Update rewrites the mutable fields and advances updated_at server-side.
// The owner id is part of the match, never of the update.
func (r *PostgresRepository) Update(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	query :=
		`UPDATE credentials
		 SET vault_id = $3, title = $4, username = $5, secret = $6, url = $7, notes = $8, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		credential.ID, credential.OwnerID, credential.VaultID, credential.Title,
		credential.Username, credential.Secret, credential.URL, credential.Notes).
		Scan(&credential.CreatedAt, &credential.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return credential, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM credentials WHERE id = $1 AND user_id = $2`

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
