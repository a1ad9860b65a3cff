package models

// Role is the per-user access role. It is set exactly once when the
// profile row is provisioned and never reassigned afterwards.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleEvaluator Role = "evaluator"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleDeveloper || r == RoleEvaluator
}
