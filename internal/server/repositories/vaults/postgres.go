// Package vaults provides the PostgreSQL-backed, owner-scoped repository
// for vault records.
package vaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lockbox/internal/common"
	"lockbox/internal/dbx"
	"lockbox/internal/server/models"
)

// PostgresRepository implements vault storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the owner's vaults, newest first. Ties on created_at break by
// id so the order is stable.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Vault, error) {
	query :=
		`SELECT id, user_id, name, description, color, created_at FROM vaults
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Vault
	for rows.Next() {
		var item models.Vault
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Color, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Vault, error) {
	query :=
		`SELECT id, user_id, name, description, color, created_at FROM vaults
		 WHERE id = $1 AND user_id = $2
		 `

	vault := &models.Vault{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&vault.ID, &vault.OwnerID, &vault.Name, &vault.Description, &vault.Color, &vault.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vault, nil
}

func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query :=
		`INSERT INTO vaults (user_id, name, description, color)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		vault.OwnerID, vault.Name, vault.Description, vault.Color).Scan(&vault.ID, &vault.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vault, nil
}

// Update rewrites the mutable fields. The owner id is part of the match, not
// of the update, so ownership never changes.
func (r *PostgresRepository) Update(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query :=
		`UPDATE vaults SET name = $3, description = $4, color = $5
		 WHERE id = $1 AND user_id = $2
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		vault.ID, vault.OwnerID, vault.Name, vault.Description, vault.Color).Scan(&vault.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vault, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM vaults WHERE id = $1 AND user_id = $2`

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
