package repomanager

import (
	"context"
	"database/sql"

	"github.com/saydemoon/internship-portal/internal/dbx"
	"github.com/saydemoon/internship-portal/internal/server/repositories/profiles"
	"github.com/saydemoon/internship-portal/internal/server/repositories/refreshtokens"
	"github.com/saydemoon/internship-portal/internal/server/repositories/submissions"
	"github.com/saydemoon/internship-portal/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Submissions(db dbx.DBTX) submissions.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
