package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
)

// Resolution errors. Both map to 401 responses; not-found and inactive
// keep distinct reason codes internally.
var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPrincipalInactive = errors.New("principal inactive")
)

// PrincipalResolver loads the current principal record for verified
// token claims, dispatching on the declared principal type. Liveness is
// re-checked on every call and never cached, so a deactivation between
// token issuance and a later request takes effect immediately.
type PrincipalResolver struct {
	staff    repository.StaffRepository
	students repository.StudentRepository
}

// NewPrincipalResolver constructs a resolver over the two collections.
func NewPrincipalResolver(staff repository.StaffRepository, students repository.StudentRepository) *PrincipalResolver {
	return &PrincipalResolver{staff: staff, students: students}
}

// Resolve returns the live principal for the id and type, or
// ErrPrincipalNotFound / ErrPrincipalInactive. An unrecognized type is
// treated as not found. Read-only; no side effects.
func (r *PrincipalResolver) Resolve(ctx context.Context, principalID string, principalType domain.PrincipalType) (domain.Principal, error) {
	var principal domain.Principal

	switch principalType {
	case domain.PrincipalTypeFaculty, domain.PrincipalTypeAdmin:
		staff, err := r.staff.GetByID(ctx, principalID)
		if err != nil {
			return nil, mapLookupError(err)
		}
		principal = staff
	case domain.PrincipalTypeStudent:
		student, err := r.students.GetByID(ctx, principalID)
		if err != nil {
			return nil, mapLookupError(err)
		}
		principal = student
	default:
		return nil, ErrPrincipalNotFound
	}

	if !principal.IsActive() {
		return nil, ErrPrincipalInactive
	}
	return principal, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPrincipalNotFound
	}
	return err
}
