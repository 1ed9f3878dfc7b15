package dto

import "time"

// EmergencyContactPayload mirrors the student emergency contact block.
type EmergencyContactPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// StudentCreateRequest payload for enrolling a student account.
type StudentCreateRequest struct {
	RollNumber       string                  `json:"roll_number" validate:"required"`
	Email            string                  `json:"email" validate:"required,email"`
	Password         string                  `json:"password" validate:"required,min=6"`
	FirstName        string                  `json:"first_name" validate:"required"`
	LastName         string                  `json:"last_name" validate:"required"`
	Department       string                  `json:"department" validate:"required"`
	Year             int                     `json:"year" validate:"required,min=1,max=4"`
	Semester         int                     `json:"semester" validate:"required,min=1,max=8"`
	Phone            string                  `json:"phone" validate:"required"`
	EmergencyContact EmergencyContactPayload `json:"emergency_contact"`
}

// StudentUpdateRequest payload for profile updates. Password changes
// are excluded; they go through the auth endpoints.
type StudentUpdateRequest struct {
	Email            string                  `json:"email" validate:"required,email"`
	FirstName        string                  `json:"first_name" validate:"required"`
	LastName         string                  `json:"last_name" validate:"required"`
	Department       string                  `json:"department" validate:"required"`
	Year             int                     `json:"year" validate:"required,min=1,max=4"`
	Semester         int                     `json:"semester" validate:"required,min=1,max=8"`
	Phone            string                  `json:"phone" validate:"required"`
	EmergencyContact EmergencyContactPayload `json:"emergency_contact"`
	ClassIDs         []string                `json:"class_ids"`
}

// StudentResponse is the default student projection returned by the
// API. Password hash and biometric template are never included.
type StudentResponse struct {
	ID               string                  `json:"id"`
	RollNumber       string                  `json:"roll_number"`
	Email            string                  `json:"email"`
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Department       string                  `json:"department"`
	Year             int                     `json:"year"`
	Semester         int                     `json:"semester"`
	Phone            string                  `json:"phone"`
	EmergencyContact EmergencyContactPayload `json:"emergency_contact"`
	Active           bool                    `json:"active"`
	ClassIDs         []string                `json:"class_ids,omitempty"`
	LastLogin        *time.Time              `json:"last_login,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}
