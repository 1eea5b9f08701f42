package httpapi

import (
	"time"

	"lockbox/internal/server/models"
)

// Outbound DTOs. The password hash and storage locator never appear here;
// owner ids are implied by the authenticated principal.

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type vaultDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	// Always zero for now; the field is part of the response contract.
	CredentialCount int `json:"credentialCount"`
}

type credentialDTO struct {
	ID        string    `json:"id"`
	VaultID   *string   `json:"vaultId"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type documentDTO struct {
	ID           string    `json:"id"`
	VaultID      string    `json:"vaultId"`
	Name         string    `json:"name"`
	OriginalName string    `json:"originalName"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"uploadDate"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toVaultDTO(v *models.Vault) vaultDTO {
	return vaultDTO{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Color:       v.Color,
		CreatedAt:   v.CreatedAt,
	}
}

func toVaultDTOs(vs []*models.Vault) []vaultDTO {
	out := make([]vaultDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVaultDTO(v))
	}
	return out
}

func toCredentialDTO(c *models.Credential) credentialDTO {
	return credentialDTO{
		ID:        c.ID,
		VaultID:   c.VaultID,
		Title:     c.Title,
		Username:  c.Username,
		Password:  c.Secret,
		URL:       c.URL,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCredentialDTOs(cs []*models.Credential) []credentialDTO {
	out := make([]credentialDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCredentialDTO(c))
	}
	return out
}

func toDocumentDTO(d *models.Document) documentDTO {
	return documentDTO{
		ID:           d.ID,
		VaultID:      d.VaultID,
		Name:         d.Name,
		OriginalName: d.OriginalName,
		Type:         d.MimeType,
		Size:         d.Size,
		UploadDate:   d.UploadedAt,
	}
}

func toDocumentDTOs(ds []*models.Document) []documentDTO {
	out := make([]documentDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDocumentDTO(d))
	}
	return out
}
