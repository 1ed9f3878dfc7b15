package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/domain"
)

func toStaffResponse(staff *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		ID:          staff.ID,
		EmployeeID:  staff.EmployeeID,
		Email:       staff.Email,
		FirstName:   staff.FirstName,
		LastName:    staff.LastName,
		Role:        string(staff.Role),
		Department:  staff.Department,
		Phone:       staff.Phone,
		Active:      staff.Active,
		Permissions: staff.Permissions,
		LastLogin:   staff.LastLogin,
		CreatedAt:   staff.CreatedAt,
	}
}

func toStudentResponse(student *domain.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:         student.ID,
		RollNumber: student.RollNumber,
		Email:      student.Email,
		FirstName:  student.FirstName,
		LastName:   student.LastName,
		Department: student.Department,
		Year:       student.Year,
		Semester:   student.Semester,
		Phone:      student.Phone,
		EmergencyContact: dto.EmergencyContactPayload{
			Name:     student.EmergencyContact.Name,
			Phone:    student.EmergencyContact.Phone,
			Relation: student.EmergencyContact.Relation,
		},
		Active:    student.Active,
		ClassIDs:  student.ClassIDs,
		LastLogin: student.LastLogin,
		CreatedAt: student.CreatedAt,
	}
}

// principalResponse renders either concrete principal variant for
// endpoints that return the caller's own profile.
func principalResponse(principal domain.Principal) interface{} {
	switch p := principal.(type) {
	case *domain.StaffMember:
		return toStaffResponse(p)
	case *domain.Student:
		return toStudentResponse(p)
	}
	return nil
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}
