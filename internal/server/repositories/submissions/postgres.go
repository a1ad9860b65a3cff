// Package submissions provides a PostgreSQL-backed repository for
// application rows. Every write here is observed by the change-feed
// trigger, so the evaluator's working set stays current without re-fetching.
package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/dbx"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

const selectColumns = `id, user_id, full_name, email, phone, location,
		COALESCE(hobby, ''), COALESCE(profile_picture, ''), COALESCE(zip_file, ''),
		COALESCE(feedback, ''), COALESCE(status, ''), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SelectAll(ctx context.Context) ([]*models.Submission, error) {
	query := `SELECT ` + selectColumns + `
		 FROM submissions
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Submission
	for rows.Next() {
		s := &models.Submission{}
		if err := scanSubmission(rows.Scan, s); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, userID string) (*models.Submission, error) {
	query := `SELECT ` + selectColumns + `
		 FROM submissions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	s := &models.Submission{}
	err := scanSubmission(r.db.QueryRowContext(ctx, query, userID).Scan, s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	query :=
		`INSERT INTO submissions (user_id, full_name, email, phone, location, hobby, profile_picture, zip_file)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.FullName, s.Email, s.Phone, s.Location, s.Hobby, s.ProfilePicture, s.ZipFile).
		Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) UpdateDecision(ctx context.Context, id int64, status models.Decision, feedback string) error {
	query :=
		`UPDATE submissions SET status = $2, feedback = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, string(status), feedback)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func scanSubmission(scan func(dest ...any) error, s *models.Submission) error {
	return scan(&s.ID, &s.UserID, &s.FullName, &s.Email, &s.Phone, &s.Location,
		&s.Hobby, &s.ProfilePicture, &s.ZipFile, &s.Feedback, &s.Status, &s.CreatedAt)
}
