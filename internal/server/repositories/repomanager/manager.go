package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/talentbridge/internal/dbx"
	"github.com/dmitrijs2005/talentbridge/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/talentbridge/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
