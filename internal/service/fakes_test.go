package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
)

// In-memory repositories and a recording dispatcher for service tests.

type fakeStaffRepo struct {
	records    map[string]*domain.StaffMember
	lastLogins map[string]int
}

func newFakeStaffRepo(members ...*domain.StaffMember) *fakeStaffRepo {
	repo := &fakeStaffRepo{
		records:    make(map[string]*domain.StaffMember),
		lastLogins: make(map[string]int),
	}
	for _, m := range members {
		repo.records[m.ID] = m
	}
	return repo
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
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

func (r *fakeStaffRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.lastLogins[id]++
	return nil
}

func (r *fakeStaffRepo) SetActive(_ context.Context, id string, active bool) error {
	staff, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	staff.Active = active
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
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
	records    map[string]*domain.Student
	lastLogins map[string]int
}

func newFakeStudentRepo(students ...*domain.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{
		records:    make(map[string]*domain.Student),
		lastLogins: make(map[string]int),
	}
	for _, s := range students {
		repo.records[s.ID] = s
	}
	return repo
}

func (r *fakeStudentRepo) Create(_ context.Context, student *domain.Student) error {
	if err := student.ValidateEnrollment(); err != nil {
		return err
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	r.records[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *domain.Student) error {
	if err := student.ValidateEnrollment(); err != nil {
		return err
	}
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

func (r *fakeStudentRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.lastLogins[id]++
	return nil
}

func (r *fakeStudentRepo) SetActive(_ context.Context, id string, active bool) error {
	student, ok := r.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	student.Active = active
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*domain.Student, error) {
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

type fakeResetRepo struct {
	byToken map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byToken: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	r.byToken[token.Token] = token
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	token, ok := r.byToken[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return token, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	for _, token := range r.byToken {
		if token.ID == id {
			now := token.ExpiresAt
			token.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
