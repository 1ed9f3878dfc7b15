package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// StudentRepository handles persistence for student accounts. The same
// projection rules as for staff apply: password_hash only on the login
// lookup, biometric_data only via GetBiometric.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	GetBiometric(ctx context.Context, id string) (*string, error)
	List(ctx context.Context, filter StudentFilter) ([]domain.Student, error)
}

// StudentFilter defines query params for student listing.
type StudentFilter struct {
	Department *string
	Year       *int
	Semester   *int
	Active     *bool
	Limit      int
	Offset     int
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	if err := student.ValidateEnrollment(); err != nil {
		return err
	}

	const query = `
        INSERT INTO students (roll_number, email, password_hash, first_name, last_name, department, year, semester, phone, emergency_name, emergency_phone, emergency_relation, active_flag, class_ids)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		student.RollNumber,
		strings.ToLower(student.Email),
		student.PasswordHash,
		student.FirstName,
		student.LastName,
		student.Department,
		student.Year,
		student.Semester,
		student.Phone,
		student.EmergencyContact.Name,
		student.EmergencyContact.Phone,
		student.EmergencyContact.Relation,
		student.Active,
		student.ClassIDs,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	if err := student.ValidateEnrollment(); err != nil {
		return err
	}

	const query = `
        UPDATE students
        SET email=$1, first_name=$2, last_name=$3, department=$4, year=$5, semester=$6, phone=$7, emergency_name=$8, emergency_phone=$9, emergency_relation=$10, active_flag=$11, class_ids=$12, updated_at=NOW()
        WHERE id=$13`

	cmd, err := r.pool.Exec(ctx, query,
		strings.ToLower(student.Email),
		student.FirstName,
		student.LastName,
		student.Department,
		student.Year,
		student.Semester,
		student.Phone,
		student.EmergencyContact.Name,
		student.EmergencyContact.Phone,
		student.EmergencyContact.Relation,
		student.Active,
		student.ClassIDs,
		student.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE students SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) UpdateLastLogin(ctx context.Context, id string) error {
	const query = `
        UPDATE students SET last_login=NOW()
        WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *studentRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
        UPDATE students SET active_flag=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	const query = `
        SELECT id, roll_number, email, first_name, last_name, department, year, semester, phone, emergency_name, emergency_phone, emergency_relation, active_flag, class_ids, last_login, created_at, updated_at
        FROM students WHERE id=$1`

	return r.scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *studentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	const query = `
        SELECT id, roll_number, email, password_hash, first_name, last_name, department, year, semester, phone, emergency_name, emergency_phone, emergency_relation, active_flag, class_ids, last_login, created_at, updated_at
        FROM students WHERE email=$1`

	var student domain.Student
	if err := r.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&student.ID,
		&student.RollNumber,
		&student.Email,
		&student.PasswordHash,
		&student.FirstName,
		&student.LastName,
		&student.Department,
		&student.Year,
		&student.Semester,
		&student.Phone,
		&student.EmergencyContact.Name,
		&student.EmergencyContact.Phone,
		&student.EmergencyContact.Relation,
		&student.Active,
		&student.ClassIDs,
		&student.LastLogin,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) GetBiometric(ctx context.Context, id string) (*string, error) {
	const query = `
        SELECT biometric_data FROM students WHERE id=$1`

	var data *string
	if err := r.pool.QueryRow(ctx, query, id).Scan(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]domain.Student, error) {
	query := `
        SELECT id, roll_number, email, first_name, last_name, department, year, semester, phone, emergency_name, emergency_phone, emergency_relation, active_flag, class_ids, last_login, created_at, updated_at
        FROM students`
	args := []any{}
	clauses := []string{}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		clauses = append(clauses, fmt.Sprintf("year=$%d", len(args)))
	}
	if filter.Semester != nil {
		args = append(args, *filter.Semester)
		clauses = append(clauses, fmt.Sprintf("semester=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY roll_number"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Student
	for rows.Next() {
		var student domain.Student
		if err := rows.Scan(
			&student.ID,
			&student.RollNumber,
			&student.Email,
			&student.FirstName,
			&student.LastName,
			&student.Department,
			&student.Year,
			&student.Semester,
			&student.Phone,
			&student.EmergencyContact.Name,
			&student.EmergencyContact.Phone,
			&student.EmergencyContact.Relation,
			&student.Active,
			&student.ClassIDs,
			&student.LastLogin,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, student)
	}
	return result, rows.Err()
}

func (r *studentRepository) scanStudent(row pgx.Row) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.ID,
		&student.RollNumber,
		&student.Email,
		&student.FirstName,
		&student.LastName,
		&student.Department,
		&student.Year,
		&student.Semester,
		&student.Phone,
		&student.EmergencyContact.Name,
		&student.EmergencyContact.Phone,
		&student.EmergencyContact.Relation,
		&student.Active,
		&student.ClassIDs,
		&student.LastLogin,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &student, nil
}
