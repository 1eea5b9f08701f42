package models

import "time"

// Document is the metadata record for an uploaded binary. StorageKey is the
// server-generated opaque locator of the blob; it is never derived from the
// client-supplied filename.
type Document struct {
	ID           string
	OwnerID      string
	VaultID      string
	Name         string
	OriginalName string
	MimeType     string
	Size         int64
	StorageKey   string
	UploadedAt   time.Time
}
