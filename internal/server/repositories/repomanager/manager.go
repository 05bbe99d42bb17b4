package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/quickqr/internal/dbx"
	"github.com/dmitrijs2005/quickqr/internal/server/repositories/codes"
	"github.com/dmitrijs2005/quickqr/internal/server/repositories/scans"
	"github.com/dmitrijs2005/quickqr/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Codes(db dbx.DBTX) codes.Repository
	Scans(db dbx.DBTX) scans.Repository
}
