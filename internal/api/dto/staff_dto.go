package dto

import "time"

// StaffCreateRequest payload for creating a faculty or admin account.
type StaffCreateRequest struct {
	EmployeeID  string   `json:"employee_id" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	FirstName   string   `json:"first_name" validate:"required"`
	LastName    string   `json:"last_name" validate:"required"`
	Role        string   `json:"role" validate:"required,oneof=faculty admin"`
	Department  string   `json:"department" validate:"required"`
	Phone       string   `json:"phone" validate:"required"`
	Permissions []string `json:"permissions"`
}

// StaffUpdateRequest payload for staff profile updates.
type StaffUpdateRequest struct {
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=faculty admin"`
	Department string `json:"department" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

// StaffPermissionsRequest payload for replacing a permission set.
type StaffPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// StaffResponse is the default staff projection returned by the API.
type StaffResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	Department  string     `json:"department"`
	Phone       string     `json:"phone"`
	Active      bool       `json:"active"`
	Permissions []string   `json:"permissions"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
