package profiles

import (
	"context"

	"github.com/saydemoon/internship-portal/internal/server/models"
)

type Repository interface {
	// Get returns the profile row for the user id, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Profile, error)
	// Create inserts a new profile row. A concurrent insert for the same id
	// yields common.ErrorAlreadyExists (unique-key race, benign to callers
	// that re-read).
	Create(ctx context.Context, profile *models.Profile) error
}
