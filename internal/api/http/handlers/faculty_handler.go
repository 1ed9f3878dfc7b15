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

// FacultyHandler exposes the staff directory endpoints.
type FacultyHandler struct {
	directory *service.DirectoryService
}

// NewFacultyHandler constructs handler.
func NewFacultyHandler(directory *service.DirectoryService) *FacultyHandler {
	return &FacultyHandler{directory: directory}
}

// List handles GET /api/v1/faculty.
func (h *FacultyHandler) List(c *fiber.Ctx) error {
	filter := repository.StaffFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		if role != domain.StaffRoleFaculty && role != domain.StaffRoleAdmin {
			return apperrors.NewValidationError("role must be faculty or admin", nil)
		}
		filter.Role = &role
	}
	if department := c.Query("department"); department != "" {
		filter.Department = &department
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return apperrors.NewValidationError("active must be a boolean", nil)
		}
		filter.Active = &active
	}

	staff, err := h.directory.ListStaff(c.UserContext(), filter)
	if err != nil {
		return err
	}

	responses := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		responses = append(responses, toStaffResponse(&staff[i]))
	}
	return ok(c, responses)
}

// Get handles GET /api/v1/faculty/:id.
func (h *FacultyHandler) Get(c *fiber.Ctx) error {
	staff, err := h.directory.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, toStaffResponse(staff))
}

// Create handles POST /api/v1/faculty.
func (h *FacultyHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	staff := &domain.StaffMember{
		EmployeeID:  req.EmployeeID,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        domain.StaffRole(req.Role),
		Department:  req.Department,
		Phone:       req.Phone,
		Permissions: req.Permissions,
	}
	if err := h.directory.CreateStaff(c.UserContext(), staff, req.Password); err != nil {
		return err
	}
	return created(c, toStaffResponse(staff))
}

// Update handles PUT /api/v1/faculty/:id.
func (h *FacultyHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	staff, err := h.directory.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	staff.Email = req.Email
	staff.FirstName = req.FirstName
	staff.LastName = req.LastName
	staff.Role = domain.StaffRole(req.Role)
	staff.Department = req.Department
	staff.Phone = req.Phone

	if err := h.directory.UpdateStaff(c.UserContext(), staff); err != nil {
		return err
	}
	return ok(c, toStaffResponse(staff))
}

// SetPermissions handles PUT /api/v1/faculty/:id/permissions.
func (h *FacultyHandler) SetPermissions(c *fiber.Ctx) error {
	var req dto.StaffPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.directory.SetStaffPermissions(c.UserContext(), c.Params("id"), req.Permissions); err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": "Permissions updated"})
}

// Deactivate handles DELETE /api/v1/faculty/:id.
func (h *FacultyHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.directory.DeactivateStaff(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": "Staff member deactivated"})
}
