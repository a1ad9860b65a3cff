package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/server/models"
	"github.com/saydemoon/internship-portal/internal/server/repositories/repomanager"
)

// SubmissionService handles the applicant side: creating application rows
// and reading back the latest one. Evaluator reads go through the live
// working set, not through here.
type SubmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(db *sql.DB, m repomanager.RepositoryManager) *SubmissionService {
	return &SubmissionService{db: db, repomanager: m}
}

// Create inserts a new application for the user. Status and feedback start
// empty; only an evaluator decision sets them.
func (s *SubmissionService) Create(ctx context.Context, userID string, sub *models.Submission) (*models.Submission, error) {
	if sub.FullName == "" || sub.Email == "" {
		return nil, common.ErrorInvalidSubmission
	}

	sub.UserID = userID
	sub.Status = ""
	sub.Feedback = ""

	created, err := s.repomanager.Submissions(s.db).Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("error creating submission: %v", err)
	}
	return created, nil
}

// Latest returns the user's most recent application, or common.ErrorNotFound
// when they have not applied yet.
func (s *SubmissionService) Latest(ctx context.Context, userID string) (*models.Submission, error) {
	sub, err := s.repomanager.Submissions(s.db).Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading submission: %v", err)
	}
	return sub, nil
}
