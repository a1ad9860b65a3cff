package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/dbx"
	"github.com/saydemoon/internship-portal/internal/server/models"
	"github.com/saydemoon/internship-portal/internal/server/repositories/profiles"
	"github.com/saydemoon/internship-portal/internal/server/repositories/refreshtokens"
	"github.com/saydemoon/internship-portal/internal/server/repositories/submissions"
	"github.com/saydemoon/internship-portal/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: make(map[string]*models.User)}
}

func (r *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeProfilesRepo struct {
	profiles  map[string]*models.Profile
	getErr    error
	createErr error

	// onCreate runs before the insert is applied; lets a test lose the
	// first-insert race by slipping a winning row in underneath.
	onCreate func()

	getCalls    int
	createCalls int
}

func newFakeProfilesRepo() *fakeProfilesRepo {
	return &fakeProfilesRepo{profiles: make(map[string]*models.Profile)}
}

func (r *fakeProfilesRepo) Get(ctx context.Context, id string) (*models.Profile, error) {
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (r *fakeProfilesRepo) Create(ctx context.Context, profile *models.Profile) error {
	r.createCalls++
	if r.onCreate != nil {
		r.onCreate()
	}
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.profiles[profile.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.profiles[profile.ID] = profile
	return nil
}

type fakeSubmissionsRepo struct {
	latest    *models.Submission
	updateErr error
	createErr error

	created         []*models.Submission
	updatedID       int64
	updatedStatus   models.Decision
	updatedFeedback string
	updateCalls     int
}

func (r *fakeSubmissionsRepo) SelectAll(ctx context.Context) ([]*models.Submission, error) {
	return nil, nil
}

func (r *fakeSubmissionsRepo) Latest(ctx context.Context, userID string) (*models.Submission, error) {
	if r.latest == nil || r.latest.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return r.latest, nil
}

func (r *fakeSubmissionsRepo) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	s.ID = int64(len(r.created) + 1)
	r.created = append(r.created, s)
	r.latest = s
	return s, nil
}

func (r *fakeSubmissionsRepo) UpdateDecision(ctx context.Context, id int64, status models.Decision, feedback string) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedID = id
	r.updatedStatus = status
	r.updatedFeedback = feedback
	return nil
}

type fakeRefreshTokensRepo struct {
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshTokensRepo() *fakeRefreshTokensRepo {
	return &fakeRefreshTokensRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshTokensRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.tokens[token] = &models.RefreshToken{
		UserID:  userID,
		Token:   token,
		Expires: time.Now().Add(validity),
	}
	return nil
}

func (r *fakeRefreshTokensRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (r *fakeRefreshTokensRepo) Delete(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeRepoManager struct {
	users         users.Repository
	profiles      profiles.Repository
	submissions   submissions.Repository
	refreshTokens refreshtokens.Repository
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository { return m.profiles }

func (m *fakeRepoManager) Submissions(db dbx.DBTX) submissions.Repository { return m.submissions }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}
