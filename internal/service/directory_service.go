package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// DirectoryService manages the two principal collections: student and
// staff account lifecycle, permission grants and deactivation. It never
// touches attendance data.
type DirectoryService struct {
	staff      repository.StaffRepository
	students   repository.StudentRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// DirectoryDependencies encapsulates repositories for the directory.
type DirectoryDependencies struct {
	StaffRepo   repository.StaffRepository
	StudentRepo repository.StudentRepository
	Dispatcher  events.Dispatcher
}

// NewDirectoryService constructs the service.
func NewDirectoryService(cfg config.Config, deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		staff:      deps.StaffRepo,
		students:   deps.StudentRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// CreateStudent hashes the initial password and persists the student.
// Enrollment bounds are validated before the write.
func (s *DirectoryService) CreateStudent(ctx context.Context, student *domain.Student, password string) error {
	if err := student.ValidateEnrollment(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	student.PasswordHash = hash
	student.Active = true

	if err := s.students.Create(ctx, student); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UpdateStudent updates profile fields. The password hash is not
// touched here; password changes go through the auth service.
func (s *DirectoryService) UpdateStudent(ctx context.Context, student *domain.Student) error {
	if err := student.ValidateEnrollment(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if err := s.students.Update(ctx, student); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetStudent loads a student by id with the default projection.
func (s *DirectoryService) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return student, nil
}

// ListStudents lists students by filter.
func (s *DirectoryService) ListStudents(ctx context.Context, filter repository.StudentFilter) ([]domain.Student, error) {
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return students, nil
}

// DeactivateStudent flips the active flag instead of deleting. The
// guard rejects the account on its next request.
func (s *DirectoryService) DeactivateStudent(ctx context.Context, id string) error {
	if err := s.students.SetActive(ctx, id, false); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventAccountDeactivated, id, domain.PrincipalTypeStudent, nil)
	return nil
}

// CreateStaff hashes the initial password and persists the staff
// member.
func (s *DirectoryService) CreateStaff(ctx context.Context, staff *domain.StaffMember, password string) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	staff.PasswordHash = hash
	staff.Active = true

	if err := s.staff.Create(ctx, staff); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// UpdateStaff updates profile fields, leaving the password hash alone.
func (s *DirectoryService) UpdateStaff(ctx context.Context, staff *domain.StaffMember) error {
	if err := s.staff.Update(ctx, staff); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetStaff loads a staff member by id with the default projection.
func (s *DirectoryService) GetStaff(ctx context.Context, id string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// ListStaff lists staff members by filter.
func (s *DirectoryService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	staff, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// SetStaffPermissions replaces the staff permission set.
func (s *DirectoryService) SetStaffPermissions(ctx context.Context, id string, permissions []string) error {
	if err := s.staff.UpdatePermissions(ctx, id, permissions); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventPermissionsChanged, id, domain.PrincipalTypeFaculty, events.PermissionsChangedPayload{Permissions: permissions})
	return nil
}

// DeactivateStaff flips the active flag instead of deleting.
func (s *DirectoryService) DeactivateStaff(ctx context.Context, id string) error {
	if err := s.staff.SetActive(ctx, id, false); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventAccountDeactivated, id, domain.PrincipalTypeFaculty, nil)
	return nil
}

func (s *DirectoryService) publish(ctx context.Context, eventType events.EventType, principalID string, principalType domain.PrincipalType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		PrincipalID:   principalID,
		PrincipalType: principalType,
		Timestamp:     time.Now(),
		Payload:       payload,
	})
}
