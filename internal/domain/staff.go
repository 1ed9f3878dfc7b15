package domain

import "time"

// StaffRole enumerates staff account roles.
type StaffRole string

const (
	StaffRoleFaculty StaffRole = "faculty"
	StaffRoleAdmin   StaffRole = "admin"
)

// StaffMember models a faculty member or administrator.
type StaffMember struct {
	ID            string
	EmployeeID    string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Role          StaffRole
	Department    string
	Phone         string
	Active        bool
	Permissions   []string
	LastLogin     *time.Time
	BiometricData *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name.
func (s *StaffMember) FullName() string {
	return s.FirstName + " " + s.LastName
}

// PrincipalID implements Principal.
func (s *StaffMember) PrincipalID() string { return s.ID }

// Type maps the staff role onto a principal type.
func (s *StaffMember) Type() PrincipalType {
	if s.Role == StaffRoleAdmin {
		return PrincipalTypeAdmin
	}
	return PrincipalTypeFaculty
}

// IsActive implements Principal.
func (s *StaffMember) IsActive() bool { return s.Active }

// PermissionSet implements Principal.
func (s *StaffMember) PermissionSet() []string { return s.Permissions }

// HasPermission reports membership in the staff permission set.
func (s *StaffMember) HasPermission(permission string) bool {
	for _, p := range s.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
