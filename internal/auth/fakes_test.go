package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
)

// In-memory repositories for guard and resolver tests.

type fakeStaffRepo struct {
	records map[string]*domain.StaffMember
	err     error
}

func newFakeStaffRepo(members ...*domain.StaffMember) *fakeStaffRepo {
	repo := &fakeStaffRepo{records: make(map[string]*domain.StaffMember)}
	for _, m := range members {
		repo.records[m.ID] = m
	}
	return repo
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.records[staff.ID] = staff
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	if _, ok := r.records[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.records[staff.ID] = staff
	return nil
}

func (r *fakeStaffRepo) UpdatePassword(_ context.Context, id, hash string) error {
	staff, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.PasswordHash = hash
	return nil
}

func (r *fakeStaffRepo) UpdatePermissions(_ context.Context, id string, permissions []string) error {
	staff, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.Permissions = permissions
	return nil
}

func (r *fakeStaffRepo) UpdateLastLogin(context.Context, string) error { return nil }

func (r *fakeStaffRepo) SetActive(_ context.Context, id string, active bool) error {
	staff, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.Active = active
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	if r.err != nil {
		return nil, r.err
	}
	staff, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return staff, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, staff := range r.records {
		if staff.Email == email {
			return staff, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetBiometric(context.Context, string) (*string, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeStaffRepo) List(context.Context, repository.StaffFilter) ([]domain.StaffMember, error) {
	var result []domain.StaffMember
	for _, staff := range r.records {
		result = append(result, *staff)
	}
	return result, nil
}

type fakeStudentRepo struct {
	records map[string]*domain.Student
	err     error
}

func newFakeStudentRepo(students ...*domain.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{records: make(map[string]*domain.Student)}
	for _, s := range students {
		repo.records[s.ID] = s
	}
	return repo
}

func (r *fakeStudentRepo) Create(_ context.Context, student *domain.Student) error {
	r.records[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *domain.Student) error {
	if _, ok := r.records[student.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.records[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) UpdatePassword(_ context.Context, id, hash string) error {
	student, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	student.PasswordHash = hash
	return nil
}

func (r *fakeStudentRepo) UpdateLastLogin(context.Context, string) error { return nil }

func (r *fakeStudentRepo) SetActive(_ context.Context, id string, active bool) error {
	student, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	student.Active = active
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
	if r.err != nil {
		return nil, r.err
	}
	student, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return student, nil
}

func (r *fakeStudentRepo) GetByEmail(_ context.Context, email string) (*domain.Student, error) {
	for _, student := range r.records {
		if student.Email == email {
			return student, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStudentRepo) GetBiometric(context.Context, string) (*string, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeStudentRepo) List(context.Context, repository.StudentFilter) ([]domain.Student, error) {
	var result []domain.Student
	for _, student := range r.records {
		result = append(result, *student)
	}
	return result, nil
}
