package events

import (
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// EventType enumerates audit event identifiers.
type EventType string

const (
	EventLoginSucceeded      EventType = "login_succeeded"
	EventLoginFailed         EventType = "login_failed"
	EventPasswordChanged     EventType = "password_changed"
	EventPasswordResetIssued EventType = "password_reset_issued"
	EventAccountDeactivated  EventType = "account_deactivated"
	EventPermissionsChanged  EventType = "permissions_changed"
)

// Event represents an audit event emitted by auth and directory flows.
type Event struct {
	ID            string               `json:"id"`
	Type          EventType            `json:"type"`
	PrincipalID   string               `json:"principal_id,omitempty"`
	PrincipalType domain.PrincipalType `json:"principal_type,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
	Payload       interface{}          `json:"payload,omitempty"`
}

// LoginFailedPayload carries the reason a login attempt was refused.
// The email is recorded for audit; the reason never reaches the client.
type LoginFailedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// PermissionsChangedPayload records a staff permission grant update.
type PermissionsChangedPayload struct {
	Permissions []string `json:"permissions"`
}
