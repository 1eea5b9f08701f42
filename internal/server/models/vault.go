package models

import "time"

// Vault is an optional organizational bucket for credentials and a required
// parent for documents. OwnerID is immutable after creation.
type Vault struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}
