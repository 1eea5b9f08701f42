package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lockbox/internal/common"
	"lockbox/internal/server/models"
	"lockbox/internal/server/repositories/repomanager"
)

// VaultParams carries the client-mutable fields of a vault. The owner id is
// never part of it; it always comes from the verified principal.
type VaultParams struct {
	Name        string
	Description string
	Color       string
}

// VaultService provides owner-scoped CRUD over vaults. Deleting a vault also
// deletes the documents filed in it (through the document service, so their
// blobs go first); credentials merely lose their vault link, which the
// schema handles with ON DELETE SET NULL.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	documents   *DocumentService
}

// NewVaultService constructs a VaultService.
func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, documents *DocumentService) *VaultService {
	return &VaultService{db: db, repomanager: m, documents: documents}
}

func (s *VaultService) List(ctx context.Context, ownerID string) ([]*models.Vault, error) {
	return s.repomanager.Vaults(s.db).List(ctx, ownerID)
}

func (s *VaultService) Get(ctx context.Context, id, ownerID string) (*models.Vault, error) {
	return s.repomanager.Vaults(s.db).Get(ctx, id, ownerID)
}

func (s *VaultService) Create(ctx context.Context, ownerID string, p VaultParams) (*models.Vault, error) {
	if err := validateVaultParams(&p); err != nil {
		return nil, err
	}
	if p.Color == "" {
		p.Color = randomColor()
	}

	vault := &models.Vault{
		OwnerID:     ownerID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
	}
	return s.repomanager.Vaults(s.db).Create(ctx, vault)
}

func (s *VaultService) Update(ctx context.Context, id, ownerID string, p VaultParams) (*models.Vault, error) {
	if err := validateVaultParams(&p); err != nil {
		return nil, err
	}
	// An omitted color keeps the stored one rather than rerolling it.
	if p.Color == "" {
		current, err := s.repomanager.Vaults(s.db).Get(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		p.Color = current.Color
	}
	if p.Color == "" {
		p.Color = randomColor()
	}

	vault := &models.Vault{
		ID:          id,
		OwnerID:     ownerID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
	}
	return s.repomanager.Vaults(s.db).Update(ctx, vault)
}

// Delete removes the vault and everything filed in it. The document sweep
// runs before the row delete; if a document's blob cannot be removed the
// vault survives, so nothing dangles.
func (s *VaultService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.repomanager.Vaults(s.db).Get(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.documents.DeleteByVault(ctx, ownerID, id); err != nil {
		return err
	}
	return s.repomanager.Vaults(s.db).Delete(ctx, id, ownerID)
}

func validateVaultParams(p *VaultParams) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: vault name is required", common.ErrorValidation)
	}
	if len(p.Name) > 100 {
		return fmt.Errorf("%w: vault name cannot exceed 100 characters", common.ErrorValidation)
	}
	if len(p.Description) > 500 {
		return fmt.Errorf("%w: description cannot exceed 500 characters", common.ErrorValidation)
	}
	return nil
}

// randomColor picks a default color for vaults created without one.
func randomColor() string {
	s, err := common.MakeRandHexString(3)
	if err != nil {
		return "#6366f1"
	}
	return "#" + s
}
