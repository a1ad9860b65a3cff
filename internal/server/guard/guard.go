// Package guard decides, per request, whether the caller may reach a page
// or must be redirected, based on the authenticated identity and the
// provisioned profile role.
package guard

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/logging"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

// State is the terminal outcome of a guard check.
type State int

const (
	// Allowed lets the request through.
	Allowed State = iota
	// RedirectLogin sends an unauthenticated caller to the login page,
	// preserving the requested path for post-login continuation.
	RedirectLogin
	// RedirectForbidden sends an authenticated caller with the wrong role
	// to the not-authorized page.
	RedirectForbidden
)

// Decision is the result of one Check call. Location is set only for the
// redirect states.
type Decision struct {
	State    State
	Location string
	Identity *models.Identity
	Role     models.Role
}

// IdentitySource resolves the identity behind an access token.
// common.ErrorNoUser means "nobody is logged in".
type IdentitySource interface {
	CurrentUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// RoleSource resolves the provisioned role for a user id.
type RoleSource interface {
	Role(ctx context.Context, userID string) (models.Role, error)
}

// publicPaths never require an identity. Checking them against the identity
// source anyway would add a token parse per request for no decision change.
var publicPaths = map[string]struct{}{
	"/":               {},
	"/login":          {},
	"/signup":         {},
	"/auth/callback":  {},
	"/not-authorized": {},
}

// Guard evaluates access decisions for guarded paths.
type Guard struct {
	identities IdentitySource
	roles      RoleSource
	log        logging.Logger
}

// New constructs a Guard.
func New(identities IdentitySource, roles RoleSource, log logging.Logger) *Guard {
	return &Guard{identities: identities, roles: roles, log: log}
}

// Check evaluates access to path for the caller identified by accessToken.
// required is the role the path demands; empty means any authenticated user.
//
// Public paths are allowed without consulting the identity source at all.
// When the role lookup fails or no profile row exists yet the caller is
// treated as a developer, the less privileged role; a wrong guess sends a
// real evaluator to the forbidden page, never a developer into the
// evaluator area.
func (g *Guard) Check(ctx context.Context, accessToken, path string, required models.Role) Decision {
	if _, ok := publicPaths[path]; ok {
		return Decision{State: Allowed}
	}

	ident, err := g.identities.CurrentUser(ctx, accessToken)
	if err != nil {
		return Decision{
			State:    RedirectLogin,
			Location: "/login?next=" + url.QueryEscape(path),
		}
	}

	if required == "" {
		return Decision{State: Allowed, Identity: ident}
	}

	role, err := g.roles.Role(ctx, ident.UserID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			g.log.Warn(ctx, "role lookup failed, defaulting to developer", "user_id", ident.UserID, "error", err)
		}
		role = models.RoleDeveloper
	}

	if role != required {
		return Decision{
			State:    RedirectForbidden,
			Location: "/not-authorized",
			Identity: ident,
			Role:     role,
		}
	}

	return Decision{State: Allowed, Identity: ident, Role: role}
}

// SafeContinuation validates a post-login continuation target taken from the
// ?next= query parameter. Only site-local absolute paths are honored;
// anything else falls back to the role's dashboard so a crafted link cannot
// bounce a fresh login to another origin.
func SafeContinuation(next string, role models.Role) string {
	if isSiteLocalPath(next) {
		return next
	}
	return RoleHome(role)
}

// RoleHome returns the dashboard path for a role.
func RoleHome(role models.Role) string {
	if role == models.RoleEvaluator {
		return "/dashboard/evaluate"
	}
	return "/dashboard/submit"
}

func isSiteLocalPath(p string) bool {
	if p == "" || !strings.HasPrefix(p, "/") {
		return false
	}
	// "//host" is scheme-relative and would leave the site.
	if strings.HasPrefix(p, "//") {
		return false
	}
	if strings.Contains(p, "://") {
		return false
	}
	return true
}
