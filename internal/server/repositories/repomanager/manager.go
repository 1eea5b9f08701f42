package repomanager

import (
	"context"
	"database/sql"

	"lockbox/internal/dbx"
	"lockbox/internal/server/repositories/credentials"
	"lockbox/internal/server/repositories/documents"
	"lockbox/internal/server/repositories/users"
	"lockbox/internal/server/repositories/vaults"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Vaults(db dbx.DBTX) vaults.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	Documents(db dbx.DBTX) documents.Repository
}
