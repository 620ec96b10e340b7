// Package pubsub fans typed events out to any number of subscriptions. It
// carries log entries to the demo's log pane and config file changes from
// the watcher to the editor.
package pubsub

import "time"

// EventType names what happened.
type EventType string

const (
	// LoggedEvent carries a log entry.
	LoggedEvent EventType = "logged"
	// UpdatedEvent reports that a watched file changed.
	UpdatedEvent EventType = "updated"
	// DeletedEvent reports that a watched file was removed.
	DeletedEvent EventType = "deleted"
	// ErrorEvent reports a failure while watching.
	ErrorEvent EventType = "error"
)

// Event is one published value.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
