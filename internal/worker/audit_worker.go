package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/token-service/internal/events"
)

// AuditWorker writes a structured audit line for every token lifecycle
// event. It is the sole consumer of the dispatcher; handler failures never
// affect the token operation that emitted the event.
type AuditWorker struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditWorker creates the worker.
func NewAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	return &AuditWorker{dispatcher: dispatcher, logger: logger}
}

// Start subscribes the audit handlers.
func (w *AuditWorker) Start() {
	if w.dispatcher == nil {
		return
	}
	w.dispatcher.Subscribe(events.EventTokenIssued, w.handle)
	w.dispatcher.Subscribe(events.EventTokenRegenerated, w.handle)
	w.dispatcher.Subscribe(events.EventTokenRevoked, w.handle)
	w.dispatcher.Subscribe(events.EventUserInvalidated, w.handle)
}

func (w *AuditWorker) handle(_ context.Context, event events.Event) error {
	w.logger.Info("token audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("user_id", event.UserID),
		zap.String("tracking_id", event.TrackingID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
