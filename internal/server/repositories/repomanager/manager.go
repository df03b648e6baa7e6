package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/saasadmin/internal/dbx"
	"github.com/dmitrijs2005/saasadmin/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/saasadmin/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
