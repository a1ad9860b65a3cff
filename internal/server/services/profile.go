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

// ProvisionResult reports whether EnsureProfile created a new profile row
// and which role is now authoritative for the user.
type ProvisionResult struct {
	Created bool
	Role    models.Role
}

// ProfileService guarantees exactly one profile (role-binding) row per user.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// EnsureProfile resolves the profile row for the identity, creating it on
// first authenticated access.
//
// If a row already exists its role is authoritative and selected is ignored:
// this call runs on every protected-page mount and must never flip a user's
// role. For a new user the role is selected if provided, else the
// signup-time hint on the identity, else the call fails with
// common.ErrorMissingRole and the caller must prompt for an explicit choice.
//
// Two near-simultaneous first-time calls may both observe "absent" and race
// on the insert; the unique key rejects the loser, which is treated as
// "already provisioned": re-read and return the stored role.
func (s *ProfileService) EnsureProfile(ctx context.Context, ident *models.Identity, selected models.Role) (*ProvisionResult, error) {
	if ident == nil || ident.UserID == "" {
		return nil, common.ErrorNoUser
	}
	if selected != "" && !selected.Valid() {
		return nil, common.ErrorInvalidRole
	}

	repo := s.repomanager.Profiles(s.db)

	existing, err := repo.Get(ctx, ident.UserID)
	if err == nil {
		return &ProvisionResult{Created: false, Role: existing.Role}, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorRead, err)
	}

	// New user: prefer an explicit selection, otherwise fall back to the
	// hint recorded at signup time.
	role := selected
	if role == "" {
		role = ident.RoleHint
	}
	if role == "" {
		return nil, common.ErrorMissingRole
	}

	err = repo.Create(ctx, &models.Profile{ID: ident.UserID, Role: role, FullName: ""})
	if errors.Is(err, common.ErrorAlreadyExists) {
		winner, rerr := repo.Get(ctx, ident.UserID)
		if rerr != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorRead, rerr)
		}
		return &ProvisionResult{Created: false, Role: winner.Role}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInsert, err)
	}

	return &ProvisionResult{Created: true, Role: role}, nil
}

// Role returns the provisioned role for a user id, or common.ErrorNotFound
// when no profile row exists yet.
func (s *ProfileService) Role(ctx context.Context, userID string) (models.Role, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}
