// Package journal records session service-lifecycle events for later
// inspection. It is best effort: a failing sink never affects the session.
package journal

import (
	"context"
	"time"
)

// EventType defines the kind of lifecycle event.
type EventType string

const (
	EventUp   EventType = "up"
	EventDown EventType = "down"
)

// Event is one service-lifecycle action taken by the owning process.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Session    string    `json:"session"` // session run id
	PID        int       `json:"pid"`
	Root       string    `json:"root"`
	Services   []string  `json:"services"`
	Detail     string    `json:"detail,omitempty"` // error text when the invocation failed
}

// Sink is a destination for session events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}

// Nop discards all events.
type Nop struct{}

func (Nop) Send(context.Context, Event) error { return nil }
func (Nop) Close() error                      { return nil }
