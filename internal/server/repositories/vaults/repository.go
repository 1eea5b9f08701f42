package vaults

import (
	"context"

	"lockbox/internal/server/models"
)

// Repository is owner-scoped: every lookup carries the owner id, and a row
// that exists under another owner behaves exactly like a missing row.
type Repository interface {
	List(ctx context.Context, ownerID string) ([]*models.Vault, error)
	Get(ctx context.Context, id, ownerID string) (*models.Vault, error)
	Create(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	Update(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	Delete(ctx context.Context, id, ownerID string) error
}
