package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/repository"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// StudentsHandler exposes the student directory endpoints.
type StudentsHandler struct {
	directory *service.DirectoryService
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(directory *service.DirectoryService) *StudentsHandler {
	return &StudentsHandler{directory: directory}
}

// List handles GET /api/v1/students.
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	filter := repository.StudentFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return apperrors.NewValidationError("year must be an integer", nil)
		}
		filter.Year = &year
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return apperrors.NewValidationError("active must be a boolean", nil)
		}
		filter.Active = &active
	}

	students, err := h.directory.ListStudents(c.UserContext(), filter)
	if err != nil {
		return err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		responses = append(responses, toStudentResponse(&students[i]))
	}
	return ok(c, responses)
}

// Get handles GET /api/v1/students/:id.
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	student, err := h.directory.GetStudent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, toStudentResponse(student))
}

// Create handles POST /api/v1/students.
func (h *StudentsHandler) Create(c *fiber.Ctx) error {
	var req dto.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	student := &domain.Student{
		RollNumber: req.RollNumber,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Year:       req.Year,
		Semester:   req.Semester,
		Phone:      req.Phone,
		EmergencyContact: domain.EmergencyContact{
			Name:     req.EmergencyContact.Name,
			Phone:    req.EmergencyContact.Phone,
			Relation: req.EmergencyContact.Relation,
		},
	}
	if err := h.directory.CreateStudent(c.UserContext(), student, req.Password); err != nil {
		return err
	}
	return created(c, toStudentResponse(student))
}

// Update handles PUT /api/v1/students/:id.
func (h *StudentsHandler) Update(c *fiber.Ctx) error {
	var req dto.StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	student, err := h.directory.GetStudent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	student.Email = req.Email
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Department = req.Department
	student.Year = req.Year
	student.Semester = req.Semester
	student.Phone = req.Phone
	student.EmergencyContact = domain.EmergencyContact{
		Name:     req.EmergencyContact.Name,
		Phone:    req.EmergencyContact.Phone,
		Relation: req.EmergencyContact.Relation,
	}
	student.ClassIDs = req.ClassIDs

	if err := h.directory.UpdateStudent(c.UserContext(), student); err != nil {
		return err
	}
	return ok(c, toStudentResponse(student))
}

// Deactivate handles DELETE /api/v1/students/:id. Accounts are never
// hard-deleted; the active flag makes the guard reject them.
func (h *StudentsHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.directory.DeactivateStudent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": "Student deactivated"})
}
