package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/config"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// Login failure modes. Unknown email and wrong password share one
// error so the response cannot be used for account enumeration.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
)

// AuthService coordinates login, token refresh and password flows for
// both principal collections.
type AuthService struct {
	staff      repository.StaffRepository
	students   repository.StudentRepository
	resets     repository.PasswordResetRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	StaffRepo         repository.StaffRepository
	StudentRepo       repository.StudentRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		staff:      deps.StaffRepo,
		students:   deps.StudentRepo,
		resets:     deps.PasswordResetRepo,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Login authenticates a principal. The declared user type selects the
// collection; the minted token always carries the type stored on the
// record. Last login is updated on success.
func (s *AuthService) Login(ctx context.Context, email, password string, userType domain.PrincipalType) (domain.Principal, string, time.Time, error) {
	if !userType.Valid() {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	var (
		principal domain.Principal
		hash      string
	)

	if userType.IsStaff() {
		staff, err := s.staff.GetByEmail(ctx, email)
		if err != nil {
			return nil, "", time.Time{}, s.loginFailed(ctx, email, err)
		}
		principal, hash = staff, staff.PasswordHash
	} else {
		student, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return nil, "", time.Time{}, s.loginFailed(ctx, email, err)
		}
		principal, hash = student, student.PasswordHash
	}

	if !principal.IsActive() {
		s.publish(ctx, events.EventLoginFailed, principal.PrincipalID(), principal.Type(), events.LoginFailedPayload{Email: email, Reason: "deactivated"})
		return nil, "", time.Time{}, ErrAccountDeactivated
	}
	if err := auth.ComparePassword(hash, password); err != nil {
		s.publish(ctx, events.EventLoginFailed, principal.PrincipalID(), principal.Type(), events.LoginFailedPayload{Email: email, Reason: "bad_password"})
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.updateLastLogin(ctx, principal); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.Generate(principal.PrincipalID(), principal.Type())
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventLoginSucceeded, principal.PrincipalID(), principal.Type(), nil)
	return principal, token, expiresAt, nil
}

// Refresh mints a fresh token for an already-authenticated principal.
// The guard has re-resolved and liveness-checked it on this request.
func (s *AuthService) Refresh(principal domain.Principal) (string, time.Time, error) {
	return s.tokens.Generate(principal.PrincipalID(), principal.Type())
}

// Logout acknowledges a logout. Tokens are stateless and individually
// irrevocable; expiry is the only termination mechanism.
func (s *AuthService) Logout(_ context.Context, _ domain.Principal) error {
	return nil
}

// ChangePassword verifies the current password before storing the new
// hash. The hash is recomputed only here, never on profile updates.
func (s *AuthService) ChangePassword(ctx context.Context, principal domain.Principal, currentPassword, newPassword string) error {
	var hash string

	if principal.Type().IsStaff() {
		staff, err := s.staff.GetByEmail(ctx, principalEmail(principal))
		if err != nil {
			return apperrors.MapError(err)
		}
		hash = staff.PasswordHash
	} else {
		student, err := s.students.GetByEmail(ctx, principalEmail(principal))
		if err != nil {
			return apperrors.MapError(err)
		}
		hash = student.PasswordHash
	}

	if err := auth.ComparePassword(hash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	return s.setPassword(ctx, principal.Type(), principal.PrincipalID(), newPassword)
}

// RequestPasswordReset persists a single-use reset token for the email,
// trying the staff collection first, then students.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	principalType := domain.PrincipalTypeFaculty
	principalID := ""

	if staff, err := s.staff.GetByEmail(ctx, email); err == nil {
		principalType = staff.Type()
		principalID = staff.ID
	} else if errors.Is(err, pgx.ErrNoRows) {
		student, studentErr := s.students.GetByEmail(ctx, email)
		if studentErr != nil {
			return nil, studentErr
		}
		principalType = domain.PrincipalTypeStudent
		principalID = student.ID
	} else {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		PrincipalType: string(principalType),
		PrincipalID:   principalID,
		Token:         uuid.NewString(),
		ExpiresAt:     time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPasswordResetIssued, principalID, principalType, nil)
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the
// password, marking the token used.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return errors.New("reset token expired or already used")
	}

	principalType := domain.PrincipalType(token.PrincipalType)
	if !principalType.Valid() {
		return errors.New("unknown principal type on reset token")
	}
	if err := s.setPassword(ctx, principalType, token.PrincipalID, newPassword); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// TokenManager exposes the underlying token manager for middleware
// wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) setPassword(ctx context.Context, principalType domain.PrincipalType, id, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if principalType.IsStaff() {
		err = s.staff.UpdatePassword(ctx, id, hash)
	} else {
		err = s.students.UpdatePassword(ctx, id, hash)
	}
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventPasswordChanged, id, principalType, nil)
	return nil
}

func (s *AuthService) updateLastLogin(ctx context.Context, principal domain.Principal) error {
	if principal.Type().IsStaff() {
		return s.staff.UpdateLastLogin(ctx, principal.PrincipalID())
	}
	return s.students.UpdateLastLogin(ctx, principal.PrincipalID())
}

func (s *AuthService) loginFailed(ctx context.Context, email string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.publish(ctx, events.EventLoginFailed, "", "", events.LoginFailedPayload{Email: email, Reason: "unknown_email"})
		return ErrInvalidCredentials
	}
	return err
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, principalID string, principalType domain.PrincipalType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		PrincipalID:   principalID,
		PrincipalType: principalType,
		Timestamp:     time.Now(),
		Payload:       payload,
	})
}

func principalEmail(principal domain.Principal) string {
	switch p := principal.(type) {
	case *domain.StaffMember:
		return p.Email
	case *domain.Student:
		return p.Email
	}
	return ""
}
