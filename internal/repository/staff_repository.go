package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// StaffRepository handles persistence for faculty and admin accounts.
// Default reads exclude password_hash and biometric_data; the hash is
// only returned by the login lookup and the biometric template only by
// its explicit getter.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffMember) error
	Update(ctx context.Context, staff *domain.StaffMember) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdatePermissions(ctx context.Context, id string, permissions []string) error
	UpdateLastLogin(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	GetByID(ctx context.Context, id string) (*domain.StaffMember, error)
	GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error)
	GetBiometric(ctx context.Context, id string) (*string, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	Role       *domain.StaffRole
	Department *string
	Active     *bool
	Limit      int
	Offset     int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        INSERT INTO staff_members (employee_id, email, password_hash, first_name, last_name, role, department, phone, active_flag, permissions)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.EmployeeID,
		strings.ToLower(staff.Email),
		staff.PasswordHash,
		staff.FirstName,
		staff.LastName,
		staff.Role,
		staff.Department,
		staff.Phone,
		staff.Active,
		staff.Permissions,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffMember) error {
	const query = `
        UPDATE staff_members
        SET email=$1, first_name=$2, last_name=$3, role=$4, department=$5, phone=$6, active_flag=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		strings.ToLower(staff.Email),
		staff.FirstName,
		staff.LastName,
		staff.Role,
		staff.Department,
		staff.Phone,
		staff.Active,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `
        UPDATE staff_members SET password_hash=$1, updated_at=NOW()
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

func (r *staffRepository) UpdatePermissions(ctx context.Context, id string, permissions []string) error {
	const query = `
        UPDATE staff_members SET permissions=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, permissions, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) UpdateLastLogin(ctx context.Context, id string) error {
	const query = `
        UPDATE staff_members SET last_login=NOW()
        WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *staffRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
        UPDATE staff_members SET active_flag=$1, updated_at=NOW()
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

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	const query = `
        SELECT id, employee_id, email, first_name, last_name, role, department, phone, active_flag, permissions, last_login, created_at, updated_at
        FROM staff_members WHERE id=$1`

	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.EmployeeID,
		&staff.Email,
		&staff.FirstName,
		&staff.LastName,
		&staff.Role,
		&staff.Department,
		&staff.Phone,
		&staff.Active,
		&staff.Permissions,
		&staff.LastLogin,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	const query = `
        SELECT id, employee_id, email, password_hash, first_name, last_name, role, department, phone, active_flag, permissions, last_login, created_at, updated_at
        FROM staff_members WHERE email=$1`

	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&staff.ID,
		&staff.EmployeeID,
		&staff.Email,
		&staff.PasswordHash,
		&staff.FirstName,
		&staff.LastName,
		&staff.Role,
		&staff.Department,
		&staff.Phone,
		&staff.Active,
		&staff.Permissions,
		&staff.LastLogin,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetBiometric(ctx context.Context, id string) (*string, error) {
	const query = `
        SELECT biometric_data FROM staff_members WHERE id=$1`

	var data *string
	if err := r.pool.QueryRow(ctx, query, id).Scan(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.StaffMember, error) {
	query := `
        SELECT id, employee_id, email, first_name, last_name, role, department, phone, active_flag, permissions, last_login, created_at, updated_at
        FROM staff_members`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
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

	var result []domain.StaffMember
	for rows.Next() {
		var staff domain.StaffMember
		if err := rows.Scan(
			&staff.ID,
			&staff.EmployeeID,
			&staff.Email,
			&staff.FirstName,
			&staff.LastName,
			&staff.Role,
			&staff.Department,
			&staff.Phone,
			&staff.Active,
			&staff.Permissions,
			&staff.LastLogin,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}
