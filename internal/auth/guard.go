package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

const (
	principalKey     = "auth_principal"
	principalTypeKey = "auth_principal_type"
)

// Reason codes for authorization decisions. Expired and invalid tokens
// stay distinct here and in logs; they share one client-facing message.
const (
	ReasonTokenMissing      = "TOKEN_MISSING"
	ReasonTokenInvalid      = "TOKEN_INVALID"
	ReasonTokenExpired      = "TOKEN_EXPIRED"
	ReasonPrincipalNotFound = "PRINCIPAL_NOT_FOUND"
	ReasonPrincipalInactive = "PRINCIPAL_INACTIVE"
	ReasonNotAuthenticated  = "NOT_AUTHENTICATED"
	ReasonRoleDenied        = "ROLE_DENIED"
	ReasonPermissionDenied  = "PERMISSION_DENIED"
	ReasonInternalError     = "AUTH_INTERNAL"
)

// Client-facing rejection messages.
const (
	msgNoToken          = "Access denied. No token provided."
	msgInvalidToken     = "Invalid token"
	msgTokenStale       = "Token is no longer valid"
	msgDeactivated      = "User account is deactivated"
	msgNotAuthenticated = "Access denied. Please authenticate first."
	msgInternal         = "Server error in authentication"
)

// Decision is the outcome of a single guard evaluation. It lives for
// the duration of one request and is never persisted.
type Decision struct {
	Allowed bool
	Reason  string
	Status  int
	Message string
	Err     error
}

// Admit returns an allowing decision.
func Admit() Decision {
	return Decision{Allowed: true}
}

// Reject returns a denying decision with the given reason, HTTP status
// and client message.
func Reject(reason string, status int, message string) Decision {
	return Decision{Reason: reason, Status: status, Message: message}
}

// Guard is a composable admission check. Guards run in order and the
// first rejection terminates the request; there is no backtracking and
// no partial admission.
type Guard func(c *fiber.Ctx) Decision

// Chain composes guards into a single fiber handler. A rejection is
// converted to a DomainError so the boundary middleware renders the
// uniform {"success":false,"message":...} body.
func Chain(guards ...Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, guard := range guards {
			decision := guard(c)
			if !decision.Allowed {
				domainErr := apperrors.NewDomainError(decision.Reason, decision.Message, decision.Status, nil)
				domainErr.Err = decision.Err
				return domainErr
			}
		}
		return c.Next()
	}
}

// AuthMiddleware validates bearer tokens, resolves principals and
// attaches them to the request context.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver *PrincipalResolver
	logger   *zap.Logger
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver *PrincipalResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver, logger: logger}
}

// Authenticate returns the admission guard for protected routes:
// extract bearer token, verify signature and expiry, resolve the
// principal from the collection named by the type claim, and re-check
// the active flag.
func (m *AuthMiddleware) Authenticate() Guard {
	return func(c *fiber.Ctx) Decision {
		token := extractBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return Reject(ReasonTokenMissing, http.StatusUnauthorized, msgNoToken)
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			reason := ReasonTokenInvalid
			if errors.Is(err, ErrTokenExpired) {
				reason = ReasonTokenExpired
			}
			m.logger.Info("token verification failed", zap.String("reason", reason))
			return Reject(reason, http.StatusUnauthorized, msgInvalidToken)
		}

		principal, err := m.resolver.Resolve(c.Context(), claims.PrincipalID, claims.PrincipalType)
		switch {
		case errors.Is(err, ErrPrincipalNotFound):
			return Reject(ReasonPrincipalNotFound, http.StatusUnauthorized, msgTokenStale)
		case errors.Is(err, ErrPrincipalInactive):
			return Reject(ReasonPrincipalInactive, http.StatusUnauthorized, msgDeactivated)
		case err != nil:
			m.logger.Error("principal lookup failed", zap.Error(err))
			decision := Reject(ReasonInternalError, http.StatusInternalServerError, msgInternal)
			decision.Err = err
			return decision
		}

		c.Locals(principalKey, principal)
		c.Locals(principalTypeKey, claims.PrincipalType)
		return Admit()
	}
}

// Handle is the authentication guard as a standalone fiber handler,
// suitable for group-level registration.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	return Chain(m.Authenticate())(c)
}

// PrincipalFromContext retrieves the authenticated principal attached
// by the guard, if any.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	return principal, ok
}

// TypeFromContext retrieves the principal type claim attached by the
// guard.
func TypeFromContext(c *fiber.Ctx) (domain.PrincipalType, bool) {
	principalType, ok := c.Locals(principalTypeKey).(domain.PrincipalType)
	return principalType, ok
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
