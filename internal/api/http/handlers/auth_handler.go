package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// AuthHandler exposes login, logout, refresh and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	principal, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password, domain.PrincipalType(req.UserType))
	switch {
	case errors.Is(err, service.ErrAccountDeactivated):
		return apperrors.NewUnauthorized("User account is deactivated")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("Invalid credentials")
	case err != nil:
		return apperrors.MapError(err)
	}

	return ok(c, fiber.Map{
		"user":     principalResponse(principal),
		"userType": string(principal.Type()),
		"auth":     dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
	})
}

// Logout handles POST /api/v1/auth/logout. Stateless tokens make this
// an acknowledgment; clients discard their copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return apperrors.MapError(err)
	}
	return ok(c, fiber.Map{"message": "Logged out"})
}

// Refresh handles POST /api/v1/auth/refresh. The guard has already
// re-resolved and liveness-checked the caller.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	principal, okPrincipal := auth.PrincipalFromContext(c)
	if !okPrincipal {
		return apperrors.NewUnauthorized("Access denied. Please authenticate first.")
	}

	token, expiresAt, err := h.auth.Refresh(principal)
	if err != nil {
		return apperrors.MapError(err)
	}
	return ok(c, dto.AuthResponse{Token: token, ExpiresAt: expiresAt})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, okPrincipal := auth.PrincipalFromContext(c)
	if !okPrincipal {
		return apperrors.NewUnauthorized("Access denied. Please authenticate first.")
	}
	return ok(c, fiber.Map{
		"user":     principalResponse(principal),
		"userType": string(principal.Type()),
	})
}

// ChangePassword handles POST /api/v1/auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, okPrincipal := auth.PrincipalFromContext(c)
	if !okPrincipal {
		return apperrors.NewUnauthorized("Access denied. Please authenticate first.")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("Invalid credentials")
		}
		return apperrors.MapError(err)
	}
	return ok(c, fiber.Map{"message": "Password updated"})
}

// RequestPasswordReset handles POST /api/v1/auth/password/reset/request.
// The response is identical whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if _, err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		// swallow lookup misses to avoid account enumeration
		var domainErr *apperrors.DomainError
		if errors.As(apperrors.MapError(err), &domainErr) && domainErr.HTTPStatus >= 500 {
			return domainErr
		}
	}
	return ok(c, fiber.Map{"message": "If the account exists, a reset token has been issued"})
}

// ConfirmPasswordReset handles POST /api/v1/auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return apperrors.NewDomainError("RESET_REJECTED", "Reset token is invalid or expired", http.StatusBadRequest, nil)
	}
	return ok(c, fiber.Map{"message": "Password updated"})
}
