package domain

// PrincipalType differentiates staff roles and students in token claims
// and route authorization.
type PrincipalType string

const (
	PrincipalTypeFaculty PrincipalType = "faculty"
	PrincipalTypeAdmin   PrincipalType = "admin"
	PrincipalTypeStudent PrincipalType = "student"
)

// Valid reports whether the type is one of the known principal types.
func (t PrincipalType) Valid() bool {
	switch t {
	case PrincipalTypeFaculty, PrincipalTypeAdmin, PrincipalTypeStudent:
		return true
	}
	return false
}

// IsStaff reports whether the type resolves against the staff collection.
func (t PrincipalType) IsStaff() bool {
	return t == PrincipalTypeFaculty || t == PrincipalTypeAdmin
}

// Principal is the common capability exposed by both staff members and
// students after resolution. Authorization code works against this
// interface; only role and permission checks need the concrete variant.
type Principal interface {
	PrincipalID() string
	Type() PrincipalType
	IsActive() bool
	PermissionSet() []string
}
