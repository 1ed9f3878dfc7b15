package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/observability"
)

// StartAuditWorker subscribes an audit trail handler to every auth
// event type. Events are logged structurally and counted; delivery is
// synchronous and in-process.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	if dispatcher == nil {
		return
	}

	handler := func(_ context.Context, event events.Event) error {
		metrics.RecordDecision("event_" + string(event.Type))
		logger.Info("audit event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("principal_id", event.PrincipalID),
			zap.String("principal_type", string(event.PrincipalType)),
			zap.Time("at", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventPasswordChanged,
		events.EventPasswordResetIssued,
		events.EventAccountDeactivated,
		events.EventPermissionsChanged,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
