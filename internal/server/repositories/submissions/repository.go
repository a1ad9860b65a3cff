package submissions

import (
	"context"

	"github.com/saydemoon/internship-portal/internal/server/models"
)

type Repository interface {
	// SelectAll returns every submission ordered by creation time,
	// newest first.
	SelectAll(ctx context.Context) ([]*models.Submission, error)
	// Latest returns the most recent submission for the user, or
	// common.ErrorNotFound.
	Latest(ctx context.Context, userID string) (*models.Submission, error)
	// Create inserts a new submission row (write-once; decisions go through
	// UpdateDecision).
	Create(ctx context.Context, s *models.Submission) (*models.Submission, error)
	// UpdateDecision sets status and feedback for one submission.
	UpdateDecision(ctx context.Context, id int64, status models.Decision, feedback string) error
}
