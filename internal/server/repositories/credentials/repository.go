package credentials

import (
	"context"

	"lockbox/internal/server/models"
)

// Repository is owner-scoped: every lookup carries the owner id, and a row
// that exists under another owner behaves exactly like a missing row.
type Repository interface {
	List(ctx context.Context, ownerID string) ([]*models.Credential, error)
	Get(ctx context.Context, id, ownerID string) (*models.Credential, error)
	Create(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	Update(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	Delete(ctx context.Context, id, ownerID string) error
}
