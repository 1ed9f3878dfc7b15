package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

type guardFixture struct {
	app      *fiber.App
	tokens   *TokenManager
	staff    *fakeStaffRepo
	students *fakeStudentRepo
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	staff := newFakeStaffRepo(
		&domain.StaffMember{ID: "F5", Role: domain.StaffRoleFaculty, Active: true, Permissions: []string{"view_reports"}},
		&domain.StaffMember{ID: "A1", Role: domain.StaffRoleAdmin, Active: true},
	)
	students := newFakeStudentRepo(
		&domain.Student{ID: "S100", Active: true},
		&domain.Student{ID: "S200", Active: false},
	)

	tokens := NewTokenManager("test-secret", time.Hour)
	resolver := NewPrincipalResolver(staff, students)
	middleware := NewAuthMiddleware(tokens, resolver, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"success": false,
				"message": domainErr.Message,
			})
		},
	})

	handler := func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"success": true, "id": principal.PrincipalID()})
	}

	app.Get("/protected", Chain(middleware.Authenticate()), handler)
	app.Get("/staff-only", Chain(middleware.Authenticate(),
		RequireRole(domain.PrincipalTypeFaculty, domain.PrincipalTypeAdmin)), handler)
	app.Get("/grade-override", Chain(middleware.Authenticate(),
		RequirePermission("grade_override")), handler)
	app.Get("/composed", Chain(middleware.Authenticate(),
		RequireRole(domain.PrincipalTypeFaculty, domain.PrincipalTypeAdmin),
		RequirePermission("view_reports")), handler)
	app.Get("/unauthenticated-role", Chain(RequireRole(domain.PrincipalTypeAdmin)),
		func(c *fiber.Ctx) error { return c.SendString("never") })

	return &guardFixture{app: app, tokens: tokens, staff: staff, students: students}
}

type guardResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (f *guardFixture) request(t *testing.T, path, token string) (int, guardResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var parsed guardResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal body %q: %v", body, err)
	}
	return resp.StatusCode, parsed
}

func (f *guardFixture) token(t *testing.T, id string, principalType domain.PrincipalType) string {
	t.Helper()
	token, _, err := f.tokens.Generate(id, principalType)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestGuardAdmitsValidPrincipal(t *testing.T) {
	f := newGuardFixture(t)

	status, _ := f.request(t, "/protected", f.token(t, "S100", domain.PrincipalTypeStudent))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	status, _ = f.request(t, "/staff-only", f.token(t, "F5", domain.PrincipalTypeFaculty))
	if status != http.StatusOK {
		t.Fatalf("expected 200 for faculty on staff route, got %d", status)
	}
}

func TestGuardMissingToken(t *testing.T) {
	f := newGuardFixture(t)

	status, body := f.request(t, "/protected", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body.Message != "Access denied. No token provided." {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestGuardMalformedAuthorizationHeader(t *testing.T) {
	f := newGuardFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGuardExpiredAndInvalidTokensIndistinguishable(t *testing.T) {
	f := newGuardFixture(t)

	expiredIssuer := NewTokenManager("test-secret", -time.Minute)
	expired, _, err := expiredIssuer.Generate("F5", domain.PrincipalTypeFaculty)
	if err != nil {
		t.Fatalf("generate expired token: %v", err)
	}
	foreignIssuer := NewTokenManager("other-secret", time.Hour)
	forged, _, err := foreignIssuer.Generate("F5", domain.PrincipalTypeFaculty)
	if err != nil {
		t.Fatalf("generate forged token: %v", err)
	}

	expiredStatus, expiredBody := f.request(t, "/protected", expired)
	forgedStatus, forgedBody := f.request(t, "/protected", forged)

	if expiredStatus != http.StatusUnauthorized || forgedStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", expiredStatus, forgedStatus)
	}
	if expiredBody.Message != forgedBody.Message || expiredBody.Message != "Invalid token" {
		t.Fatalf("expired and invalid must share one message, got %q vs %q", expiredBody.Message, forgedBody.Message)
	}
}

func TestGuardUnknownPrincipal(t *testing.T) {
	f := newGuardFixture(t)

	status, body := f.request(t, "/protected", f.token(t, "ghost", domain.PrincipalTypeStudent))
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body.Message != "Token is no longer valid" {
		t.Fatalf("unexpected message: %q", body.Message)
	}

	// unrecognized type claim behaves like an unknown principal
	status, body = f.request(t, "/protected", f.token(t, "F5", domain.PrincipalType("registrar")))
	if status != http.StatusUnauthorized || body.Message != "Token is no longer valid" {
		t.Fatalf("expected 401 %q, got %d %q", "Token is no longer valid", status, body.Message)
	}
}

func TestGuardDeactivatedAccount(t *testing.T) {
	f := newGuardFixture(t)

	status, body := f.request(t, "/protected", f.token(t, "S200", domain.PrincipalTypeStudent))
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body.Message != "User account is deactivated" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestGuardDeactivationTakesEffectNextRequest(t *testing.T) {
	f := newGuardFixture(t)
	token := f.token(t, "S100", domain.PrincipalTypeStudent)

	if status, _ := f.request(t, "/protected", token); status != http.StatusOK {
		t.Fatalf("expected admission before deactivation, got %d", status)
	}

	f.students.records["S100"].Active = false

	status, body := f.request(t, "/protected", token)
	if status != http.StatusUnauthorized || body.Message != "User account is deactivated" {
		t.Fatalf("expected deactivation rejection, got %d %q", status, body.Message)
	}
}

func TestGuardRoleDenied(t *testing.T) {
	f := newGuardFixture(t)

	// student on a faculty/admin route
	status, body := f.request(t, "/staff-only", f.token(t, "S100", domain.PrincipalTypeStudent))
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if !strings.Contains(body.Message, "faculty or admin") {
		t.Fatalf("expected message to list roles, got %q", body.Message)
	}
}

func TestGuardRoleWithoutAuthentication(t *testing.T) {
	f := newGuardFixture(t)

	status, body := f.request(t, "/unauthenticated-role", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated role check, got %d", status)
	}
	if body.Message != "Access denied. Please authenticate first." {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestGuardPermissionDenied(t *testing.T) {
	f := newGuardFixture(t)

	// F5 holds view_reports but not grade_override
	status, body := f.request(t, "/grade-override", f.token(t, "F5", domain.PrincipalTypeFaculty))
	if status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if !strings.Contains(body.Message, "grade_override") {
		t.Fatalf("expected message to name the permission, got %q", body.Message)
	}
}

func TestGuardPermissionDeniesStudents(t *testing.T) {
	f := newGuardFixture(t)

	status, _ := f.request(t, "/grade-override", f.token(t, "S100", domain.PrincipalTypeStudent))
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for student on permission gate, got %d", status)
	}
}

func TestGuardAdminOverridesPermissions(t *testing.T) {
	f := newGuardFixture(t)

	// admin holds no permissions at all; the override admits anyway
	status, _ := f.request(t, "/grade-override", f.token(t, "A1", domain.PrincipalTypeAdmin))
	if status != http.StatusOK {
		t.Fatalf("expected 200 for admin override, got %d", status)
	}
}

func TestGuardComposedRoleAndPermission(t *testing.T) {
	f := newGuardFixture(t)

	if status, _ := f.request(t, "/composed", f.token(t, "F5", domain.PrincipalTypeFaculty)); status != http.StatusOK {
		t.Fatalf("expected faculty with view_reports admitted, got %d", status)
	}
	if status, _ := f.request(t, "/composed", f.token(t, "S100", domain.PrincipalTypeStudent)); status != http.StatusForbidden {
		t.Fatalf("expected student rejected at role gate, got %d", status)
	}
}

func TestGuardStoreFailure(t *testing.T) {
	f := newGuardFixture(t)
	f.staff.err = errors.New("connection refused")

	status, body := f.request(t, "/protected", f.token(t, "F5", domain.PrincipalTypeFaculty))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message != "Server error in authentication" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
	if strings.Contains(body.Message, "connection refused") {
		t.Fatal("internal error detail must not leak to the client")
	}
}

func TestGuardRepeatedVerificationIdempotent(t *testing.T) {
	f := newGuardFixture(t)
	token := f.token(t, "F5", domain.PrincipalTypeFaculty)

	for i := 0; i < 3; i++ {
		status, _ := f.request(t, "/staff-only", token)
		if status != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, status)
		}
	}
}
