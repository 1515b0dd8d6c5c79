package repomanager

import (
	"context"
	"database/sql"

	"github.com/cloudsafe/cloudsafe/internal/dbx"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/activities"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/files"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Activities(db dbx.DBTX) activities.Repository
}
