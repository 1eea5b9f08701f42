package models

import "time"

// Credential is a stored login. VaultID is nil when the credential is not
// filed into a vault. The secret is stored as submitted.
type Credential struct {
	ID        string
	OwnerID   string
	VaultID   *string
	Title     string
	Username  string
	Secret    string
	URL       string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
