// Package common defines shared constants and sentinel errors used across
// lockbox components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Identity errors.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (invalid, expired or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Cross-entity ownership errors.
	ErrVaultNotFound = errors.New("vault not found")

	// Upload / blob lifecycle errors.
	ErrVaultRequired       = errors.New("vault required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrBlobMissing         = errors.New("blob missing")
)
