package auth

import "strings"

// Role is the access level carried in a token.
type Role string

const (
	// RoleViewer may read the catalog and run calculations and exports.
	RoleViewer Role = "viewer"
	// RoleAdmin may also reload the catalog and read the audit trail.
	RoleAdmin Role = "admin"
)

var roleLevels = map[Role]int{
	RoleViewer: 1,
	RoleAdmin:  2,
}

// NormalizeRole parses a role name, ignoring case and surrounding space.
func NormalizeRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := roleLevels[role]; !ok {
		return "", false
	}
	return role, true
}

// Allows reports whether r grants at least the required level.
func (r Role) Allows(required Role) bool {
	level, ok := roleLevels[r]
	return ok && level >= roleLevels[required]
}
