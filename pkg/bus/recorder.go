package bus

import (
	"context"

	"github.com/dotsetgreg/leadpilot/pkg/leads"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
)

// Recorder drains the event bus into the leads sink.
type Recorder struct {
	bus   *EventBus
	store *leads.SQLiteStore
}

func NewRecorder(bus *EventBus, store *leads.SQLiteStore) *Recorder {
	return &Recorder{bus: bus, store: store}
}

// Run blocks until the bus closes or ctx is canceled. Persistence
// failures are logged; the event is already reflected in the turn's
// response, so a sink error never propagates back to a caller.
func (r *Recorder) Run(ctx context.Context) {
	for {
		ev, ok := r.bus.Consume(ctx)
		if !ok {
			return
		}

		switch ev.Kind {
		case EventLeadCaptured:
			if ev.Lead == nil {
				continue
			}
			if _, err := r.store.InsertLead(ctx, *ev.Lead); err != nil {
				logger.ErrorCF("recorder", "Failed to persist lead", map[string]interface{}{
					"session_id": ev.SessionID,
					"error":      err.Error(),
				})
				continue
			}
			logger.InfoCF("recorder", "Lead persisted", map[string]interface{}{
				"session_id": ev.SessionID,
				"email":      ev.Lead.Email,
			})

		case EventEscalationRaised:
			if ev.Escalation == nil {
				continue
			}
			if _, err := r.store.InsertEscalation(ctx, *ev.Escalation); err != nil {
				logger.ErrorCF("recorder", "Failed to persist escalation", map[string]interface{}{
					"session_id": ev.SessionID,
					"error":      err.Error(),
				})
				continue
			}
			logger.InfoCF("recorder", "Escalation persisted", map[string]interface{}{
				"session_id": ev.SessionID,
				"reason":     ev.Escalation.Reason,
			})
		}
	}
}
