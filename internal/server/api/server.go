// Package api exposes the portal over HTTP: authentication, profile
// provisioning, the guarded submission endpoints for both roles, and
// artifact upload. Route access is enforced by the guard package.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saydemoon/internship-portal/internal/logging"
	"github.com/saydemoon/internship-portal/internal/server/artifact"
	"github.com/saydemoon/internship-portal/internal/server/guard"
	"github.com/saydemoon/internship-portal/internal/server/models"
	"github.com/saydemoon/internship-portal/internal/server/services"
)

// UserService is the authentication surface the API needs.
type UserService interface {
	Signup(ctx context.Context, email, password string, roleHint models.Role) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// ProfileService provisions and reads role bindings.
type ProfileService interface {
	EnsureProfile(ctx context.Context, ident *models.Identity, selected models.Role) (*services.ProvisionResult, error)
}

// SubmissionService is the applicant-side submission surface.
type SubmissionService interface {
	Create(ctx context.Context, userID string, sub *models.Submission) (*models.Submission, error)
	Latest(ctx context.Context, userID string) (*models.Submission, error)
}

// ReviewService executes evaluation decisions.
type ReviewService interface {
	Decide(ctx context.Context, id int64, decision models.Decision) (services.Outcome, error)
}

// WorkingSet is the evaluator's live submission list. Err reports a failed
// initial load; the list endpoint must not serve a silently empty set.
type WorkingSet interface {
	Snapshot() []*models.Submission
	SetFeedback(id int64, feedback string) error
	Err() error
}

// Uploader stores artifact bytes.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Server is the HTTP front of the portal.
type Server struct {
	addr   string
	log    logging.Logger
	engine *gin.Engine
}

// NewServer builds the gin engine and wires all routes.
func NewServer(
	addr string,
	log logging.Logger,
	g *guard.Guard,
	users UserService,
	profiles ProfileService,
	submissions SubmissionService,
	reviews ReviewService,
	set WorkingSet,
	resolver *artifact.Resolver,
	uploader Uploader,
) *Server {
	s := &Server{addr: addr, log: log}

	engine := gin.New()
	engine.Use(gin.Recovery())

	h := &handlers{
		log:         log,
		guard:       g,
		users:       users,
		profiles:    profiles,
		submissions: submissions,
		reviews:     reviews,
		set:         set,
		resolver:    resolver,
		uploader:    uploader,
	}

	auth := engine.Group("/api/auth")
	{
		auth.POST("/signup", h.signup)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
	}

	// Any authenticated user; runs on every protected-page mount.
	engine.POST("/api/profile/ensure", requireRole(g, ""), h.ensureProfile)
	engine.GET("/api/guard/check", h.guardCheck)

	developer := engine.Group("/api", requireRole(g, models.RoleDeveloper))
	{
		developer.POST("/submissions", h.createSubmission)
		developer.GET("/submissions/latest", h.latestSubmission)
		developer.POST("/artifacts", h.uploadArtifact)
	}

	evaluator := engine.Group("/api", requireRole(g, models.RoleEvaluator))
	{
		evaluator.GET("/submissions", h.listSubmissions)
		evaluator.PUT("/submissions/:id/feedback", h.setFeedback)
		evaluator.POST("/submissions/:id/decision", h.decide)
	}

	// Browser navigation paths get the redirecting form of the guard.
	pages := engine.Group("/dashboard")
	{
		pages.GET("/submit", g.Middleware(models.RoleDeveloper), h.dashboardPage("submit"))
		pages.GET("/evaluate", g.Middleware(models.RoleEvaluator), h.dashboardPage("evaluate"))
	}

	s.engine = engine
	return s
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.log.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
