// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and resolving the current
// user from an issued token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"lockbox/internal/common"
	"lockbox/internal/server/auth"
	"lockbox/internal/server/config"
	"lockbox/internal/server/models"
	"lockbox/internal/server/repositories/repomanager"
)

// AuthResult bundles a freshly minted bearer token with the authenticated
// user's record. The password hash on the record is never serialized
// outward; transport DTOs carry only the public fields.
type AuthResult struct {
	Token string
	User  *models.User
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService provides authentication-related operations:
// - Register: create users and issue a first token
// - Login: verify credentials and mint a token
// - GetCurrentUser: resolve a principal id back to its user record
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user. The email is normalized to lower case and
// must not be registered yet; the password is hashed before anything is
// persisted.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}
	if len(name) < 2 || len(name) > 50 {
		return nil, fmt.Errorf("%w: name must be 2-50 characters", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateEmail
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	// The unique index on email still guards the check-then-create race.
	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.authResult(user)
}

// Login verifies the credentials and mints a token. Unknown email and wrong
// password collapse into the same error so accounts cannot be enumerated.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.authResult(user)
}

// GetCurrentUser returns the user record behind a principal id. A missing
// record means the subject was removed after token issuance; the token must
// then be treated as revoked by the caller.
func (s *UserService) GetCurrentUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, user.Name, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: user}, nil
}
