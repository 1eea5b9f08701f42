package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lockbox/internal/common"
	"lockbox/internal/server/auth"
	"lockbox/internal/server/config"
)

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func TestRegister_Success(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo()}
	s := newUserService(t, rm)

	res, err := s.Register(context.Background(), "Alice", "Alice@Example.COM", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "Alice", res.User.Name)

	// The stored hash must verify the original password and must not be it.
	assert.NotEqual(t, "hunter22", res.User.PasswordHash)
	assert.True(t, auth.CheckPassword("hunter22", res.User.PasswordHash))

	claims, err := auth.ParseToken(res.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegister_Validation(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo()}
	s := newUserService(t, rm)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@b.co", "secret1"},
		{"name too short", "A", "a@b.co", "secret1"},
		{"name too long", string(make([]byte, 51)), "a@b.co", "secret1"},
		{"bad email", "Alice", "not-an-email", "secret1"},
		{"email without dot", "Alice", "a@b", "secret1"},
		{"short password", "Alice", "a@b.co", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo()}
	s := newUserService(t, rm)

	_, err := s.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	// Same address, different case.
	_, err = s.Register(context.Background(), "Mallory", "ALICE@example.com", "hunter22")
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestLogin_RoundTrip(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo()}
	s := newUserService(t, rm)

	reg, err := s.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	res, err := s.Login(context.Background(), "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_UniformFailure(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo()}
	s := newUserService(t, rm)

	_, err := s.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	// Unknown account and wrong password must be indistinguishable.
	_, errUnknown := s.Login(context.Background(), "bob@example.com", "hunter22")
	_, errWrongPw := s.Login(context.Background(), "alice@example.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, common.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestGetCurrentUser(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsersRepo()}
	s := newUserService(t, rm)

	reg, err := s.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	user, err := s.GetCurrentUser(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = s.GetCurrentUser(context.Background(), "gone")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
