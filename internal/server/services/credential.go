package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lockbox/internal/common"
	"lockbox/internal/dbx"
	"lockbox/internal/server/models"
	"lockbox/internal/server/repositories/repomanager"
)

// CredentialParams carries the client-mutable fields of a credential.
// VaultID nil means the credential is not filed into any vault.
type CredentialParams struct {
	VaultID  *string
	Title    string
	Username string
	Secret   string
	URL      string
	Notes    string
}

// CredentialService provides owner-scoped CRUD over stored logins. When a
// vault id is supplied it must name a vault owned by the caller; the check
// runs in the same transaction as the write.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager) *CredentialService {
	return &CredentialService{db: db, repomanager: m}
}

func (s *CredentialService) List(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	return s.repomanager.Credentials(s.db).List(ctx, ownerID)
}

func (s *CredentialService) Get(ctx context.Context, id, ownerID string) (*models.Credential, error) {
	return s.repomanager.Credentials(s.db).Get(ctx, id, ownerID)
}

func (s *CredentialService) Create(ctx context.Context, ownerID string, p CredentialParams) (*models.Credential, error) {
	if err := validateCredentialParams(&p); err != nil {
		return nil, err
	}

	credential := &models.Credential{
		OwnerID:  ownerID,
		VaultID:  p.VaultID,
		Title:    p.Title,
		Username: p.Username,
		Secret:   p.Secret,
		URL:      p.URL,
		Notes:    p.Notes,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkVaultOwnership(ctx, tx, p.VaultID, ownerID); err != nil {
			return err
		}
		_, err := s.repomanager.Credentials(tx).Create(ctx, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return credential, nil
}

func (s *CredentialService) Update(ctx context.Context, id, ownerID string, p CredentialParams) (*models.Credential, error) {
	if err := validateCredentialParams(&p); err != nil {
		return nil, err
	}

	credential := &models.Credential{
		ID:       id,
		OwnerID:  ownerID,
		VaultID:  p.VaultID,
		Title:    p.Title,
		Username: p.Username,
		Secret:   p.Secret,
		URL:      p.URL,
		Notes:    p.Notes,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkVaultOwnership(ctx, tx, p.VaultID, ownerID); err != nil {
			return err
		}
		_, err := s.repomanager.Credentials(tx).Update(ctx, credential)
		return err
	})
	if err != nil {
		return nil, err
	}
	return credential, nil
}

func (s *CredentialService) Delete(ctx context.Context, id, ownerID string) error {
	return s.repomanager.Credentials(s.db).Delete(ctx, id, ownerID)
}

// checkVaultOwnership verifies the vault exists under the same owner. A
// vault owned by someone else reports vault-not-found, exactly like a
// nonexistent one.
func (s *CredentialService) checkVaultOwnership(ctx context.Context, tx dbx.DBTX, vaultID *string, ownerID string) error {
	if vaultID == nil || *vaultID == "" {
		return nil
	}
	if _, err := s.repomanager.Vaults(tx).Get(ctx, *vaultID, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrVaultNotFound
		}
		return err
	}
	return nil
}

func validateCredentialParams(p *CredentialParams) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Username = strings.TrimSpace(p.Username)
	if p.Title == "" || p.Username == "" || p.Secret == "" {
		return fmt.Errorf("%w: title, username and password are required", common.ErrorValidation)
	}
	if p.VaultID != nil && *p.VaultID == "" {
		p.VaultID = nil
	}
	return nil
}
