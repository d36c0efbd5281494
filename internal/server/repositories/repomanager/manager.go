package repomanager

import (
	"context"
	"database/sql"

	"github.com/lmwansa/studentportal/internal/server/repositories/students"
)

// RepositoryManager vends repository implementations and exposes a schema
// migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Students(db *sql.DB) students.Repository
}
