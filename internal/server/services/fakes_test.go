package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"lockbox/internal/common"
	"lockbox/internal/dbx"
	"lockbox/internal/server/models"
	credentialsrepo "lockbox/internal/server/repositories/credentials"
	documentsrepo "lockbox/internal/server/repositories/documents"
	"lockbox/internal/server/repositories/repomanager"
	usersrepo "lockbox/internal/server/repositories/users"
	vaultsrepo "lockbox/internal/server/repositories/vaults"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// fakeUsersRepo keeps users in memory so register/login can round-trip.
type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	seq     int

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		byEmail: map[string]*models.User{},
		byID:    map[string]*models.User{},
	}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	f.seq++
	u.ID = fmt.Sprintf("u%d", f.seq)
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeVaultsRepo struct {
	vaults map[string]*models.Vault

	getErr error
}

func newFakeVaultsRepo(vaults ...*models.Vault) *fakeVaultsRepo {
	f := &fakeVaultsRepo{vaults: map[string]*models.Vault{}}
	for _, v := range vaults {
		f.vaults[v.ID] = v
	}
	return f
}

func (f *fakeVaultsRepo) List(ctx context.Context, ownerID string) ([]*models.Vault, error) {
	var out []*models.Vault
	for _, v := range f.vaults {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVaultsRepo) Get(ctx context.Context, id, ownerID string) (*models.Vault, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.vaults[id]
	if !ok || v.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

func (f *fakeVaultsRepo) Create(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	v.ID = fmt.Sprintf("v%d", len(f.vaults)+1)
	v.CreatedAt = time.Now()
	f.vaults[v.ID] = v
	return v, nil
}

func (f *fakeVaultsRepo) Update(ctx context.Context, v *models.Vault) (*models.Vault, error) {
	old, ok := f.vaults[v.ID]
	if !ok || old.OwnerID != v.OwnerID {
		return nil, common.ErrorNotFound
	}
	v.CreatedAt = old.CreatedAt
	f.vaults[v.ID] = v
	return v, nil
}

func (f *fakeVaultsRepo) Delete(ctx context.Context, id, ownerID string) error {
	v, ok := f.vaults[id]
	if !ok || v.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.vaults, id)
	return nil
}

type fakeCredentialsRepo struct {
	items map[string]*models.Credential
	seq   int

	createErr error
	updateErr error
}

func newFakeCredentialsRepo(items ...*models.Credential) *fakeCredentialsRepo {
	f := &fakeCredentialsRepo{items: map[string]*models.Credential{}}
	for _, c := range items {
		f.items[c.ID] = c
	}
	return f
}

func (f *fakeCredentialsRepo) List(ctx context.Context, ownerID string) ([]*models.Credential, error) {
	var out []*models.Credential
	for _, c := range f.items {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCredentialsRepo) Get(ctx context.Context, id, ownerID string) (*models.Credential, error) {
	c, ok := f.items[id]
	if !ok || c.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	c.ID = fmt.Sprintf("c%d", f.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCredentialsRepo) Update(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	old, ok := f.items[c.ID]
	if !ok || old.OwnerID != c.OwnerID {
		return nil, common.ErrorNotFound
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = time.Now()
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeCredentialsRepo) Delete(ctx context.Context, id, ownerID string) error {
	c, ok := f.items[id]
	if !ok || c.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeDocumentsRepo struct {
	items map[string]*models.Document
	seq   int

	createErr error
	deleteErr error
}

func newFakeDocumentsRepo(items ...*models.Document) *fakeDocumentsRepo {
	f := &fakeDocumentsRepo{items: map[string]*models.Document{}}
	for _, d := range items {
		f.items[d.ID] = d
	}
	return f
}

func (f *fakeDocumentsRepo) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.items {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentsRepo) ListByVault(ctx context.Context, ownerID, vaultID string) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.items {
		if d.OwnerID == ownerID && d.VaultID == vaultID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentsRepo) Get(ctx context.Context, id, ownerID string) (*models.Document, error) {
	d, ok := f.items[id]
	if !ok || d.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return d, nil
}

func (f *fakeDocumentsRepo) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	d.ID = fmt.Sprintf("d%d", f.seq)
	d.UploadedAt = time.Now()
	f.items[d.ID] = d
	return d, nil
}

func (f *fakeDocumentsRepo) Delete(ctx context.Context, id, ownerID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	d, ok := f.items[id]
	if !ok || d.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	v *fakeVaultsRepo
	c *fakeCredentialsRepo
	d *fakeDocumentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Vaults(db dbx.DBTX) vaultsrepo.Repository           { return m.v }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository { return m.c }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documentsrepo.Repository     { return m.d }

// fakeBlobStore records saved and deleted keys so tests can assert no blob
// outlives (or precedes) its metadata.
type fakeBlobStore struct {
	saved   map[string][]byte
	deleted []string

	saveErr   error
	openErr   error
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: map[string][]byte{}}
}

func (f *fakeBlobStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.saved[key] = data
	return int64(len(data)), nil
}

func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.saved[key]
	if !ok {
		return nil, common.ErrBlobMissing
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.saved, key)
	f.deleted = append(f.deleted, key)
	return nil
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
