package constants

// Role is carried in API tokens and gates write endpoints
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleImporter Role = "importer"
	RoleAdmin    Role = "admin"
)

// String is used in logs and token claims
func (r Role) String() string { return string(r) }

// Allows reports whether r satisfies the required role
func (r Role) Allows(required Role) bool {
	return r.rank() >= required.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleImporter:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

// ParseRole maps unknown values to no role at all
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleViewer, RoleImporter, RoleAdmin:
		return r
	}
	return ""
}
