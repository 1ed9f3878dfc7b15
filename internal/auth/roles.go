package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// RequireRole admits the request iff the resolved principal's type is
// one of the allowed types. It must run after Authenticate; without an
// attached principal it rejects as unauthenticated rather than as a
// role mismatch.
func RequireRole(allowed ...domain.PrincipalType) Guard {
	names := make([]string, len(allowed))
	allowedSet := make(map[domain.PrincipalType]struct{}, len(allowed))
	for i, t := range allowed {
		names[i] = string(t)
		allowedSet[t] = struct{}{}
	}
	denyMsg := "Access denied. Required role: " + strings.Join(names, " or ")

	return func(c *fiber.Ctx) Decision {
		principalType, ok := TypeFromContext(c)
		if !ok {
			return Reject(ReasonNotAuthenticated, http.StatusUnauthorized, msgNotAuthenticated)
		}
		if _, member := allowedSet[principalType]; !member {
			return Reject(ReasonRoleDenied, http.StatusForbidden, denyMsg)
		}
		return Admit()
	}
}

// RequirePermission admits the request iff the principal holds the
// named permission. Admins are admitted unconditionally; students have
// no permission set and are always denied. Independent of RequireRole:
// the two gates compose freely on the same route.
func RequirePermission(permission string) Guard {
	denyMsg := "Access denied. Required permission: " + permission

	return func(c *fiber.Ctx) Decision {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return Reject(ReasonNotAuthenticated, http.StatusUnauthorized, msgNotAuthenticated)
		}
		if principal.Type() == domain.PrincipalTypeAdmin {
			return Admit()
		}
		for _, p := range principal.PermissionSet() {
			if p == permission {
				return Admit()
			}
		}
		return Reject(ReasonPermissionDenied, http.StatusForbidden, denyMsg)
	}
}
