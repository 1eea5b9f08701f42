package documents

import (
	"context"

	"lockbox/internal/server/models"
)

// Repository is owner-scoped: every lookup carries the owner id, and a row
// that exists under another owner behaves exactly like a missing row.
type Repository interface {
	List(ctx context.Context, ownerID string) ([]*models.Document, error)
	ListByVault(ctx context.Context, ownerID, vaultID string) ([]*models.Document, error)
	Get(ctx context.Context, id, ownerID string) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) (*models.Document, error)
	Delete(ctx context.Context, id, ownerID string) error
}
