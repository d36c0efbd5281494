// Package students persists the credential records and profile rows of the
// portal. It is the only owner of password hashes at the storage layer.
package students

import (
	"context"

	"github.com/lmwansa/studentportal/internal/server/models"
)

// Repository is the credential store contract used by the auth service.
type Repository interface {
	// Create inserts a new student with its course rows. The username
	// uniqueness check and the insert behave as one atomic unit; a
	// conflicting concurrent create surfaces common.ErrorDuplicateUser.
	Create(ctx context.Context, student *models.Student) (*models.Student, error)

	// GetByUsername loads a student with profile and courses, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.Student, error)

	// UpdatePasswordHash replaces the stored hash, or returns
	// common.ErrorNotFound when the username does not exist.
	UpdatePasswordHash(ctx context.Context, username string, newHash string) error
}
