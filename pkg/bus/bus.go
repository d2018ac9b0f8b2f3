// Package bus decouples directive dispatch from side-effect recording:
// the engine publishes lead/escalation events, the recorder drains them
// into the sqlite sink. Publishing never blocks a turn for more than
// the publish timeout; overflow is counted, not fatal.
package bus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dotsetgreg/leadpilot/pkg/leads"
)

type EventKind string

const (
	EventLeadCaptured     EventKind = "lead_captured"
	EventEscalationRaised EventKind = "escalation_raised"
)

// Event is one side effect emitted by directive dispatch.
type Event struct {
	Kind       EventKind
	SessionID  string
	Lead       *leads.Lead
	Escalation *leads.EscalationEvent
	At         time.Time
}

const publishTimeout = 100 * time.Millisecond

type EventBus struct {
	events  chan Event
	closed  bool
	dropped atomic.Uint64
	mu      sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		events: make(chan Event, 100),
	}
}

func (eb *EventBus) Publish(ev Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	select {
	case eb.events <- ev:
	default:
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case eb.events <- ev:
		case <-timer.C:
			eb.dropped.Add(1)
		}
	}
}

// Consume blocks for the next event; ok is false once the bus is
// closed or ctx is canceled.
func (eb *EventBus) Consume(ctx context.Context) (Event, bool) {
	select {
	case ev, ok := <-eb.events:
		if !ok {
			return Event{}, false
		}
		return ev, true
	case <-ctx.Done():
		return Event{}, false
	}
}

func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.events)
}

func (eb *EventBus) Dropped() uint64 {
	return eb.dropped.Load()
}
