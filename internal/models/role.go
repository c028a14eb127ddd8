package models

// Roles recognized by the system.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
	RoleEditor     = "editor"
	RoleViewer     = "viewer"
)

// DefaultRoles is seeded into the roles collection at bootstrap when the
// collection is empty.
var DefaultRoles = []string{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer}

var signupRoles = map[string]bool{
	RoleUser:       true,
	RoleAdmin:      true,
	RoleSuperAdmin: true,
}

// NormalizeRole keeps recognized signup roles and silently downgrades
// anything else to RoleUser.
func NormalizeRole(role string) string {
	if signupRoles[role] {
		return role
	}
	return RoleUser
}
