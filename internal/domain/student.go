package domain

import (
	"fmt"
	"time"
)

// Year and semester bounds for enrolled students.
const (
	MinYear     = 1
	MaxYear     = 4
	MinSemester = 1
	MaxSemester = 8
)

// EmergencyContact holds a student's emergency contact details.
type EmergencyContact struct {
	Name     string
	Phone    string
	Relation string
}

// Student models an enrolled student account.
type Student struct {
	ID               string
	RollNumber       string
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Department       string
	Year             int
	Semester         int
	Phone            string
	EmergencyContact EmergencyContact
	Active           bool
	ClassIDs         []string
	BiometricData    *string
	LastLogin        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName joins first and last name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// PrincipalID implements Principal.
func (s *Student) PrincipalID() string { return s.ID }

// Type implements Principal.
func (s *Student) Type() PrincipalType { return PrincipalTypeStudent }

// IsActive implements Principal.
func (s *Student) IsActive() bool { return s.Active }

// PermissionSet implements Principal. Students carry no permissions, so
// every permission-gated operation denies them.
func (s *Student) PermissionSet() []string { return nil }

// ValidateEnrollment rejects out-of-range year or semester values before
// they reach persistence.
func (s *Student) ValidateEnrollment() error {
	if s.Year < MinYear || s.Year > MaxYear {
		return fmt.Errorf("year must be between %d and %d, got %d", MinYear, MaxYear, s.Year)
	}
	if s.Semester < MinSemester || s.Semester > MaxSemester {
		return fmt.Errorf("semester must be between %d and %d, got %d", MinSemester, MaxSemester, s.Semester)
	}
	return nil
}
