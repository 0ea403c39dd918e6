package robo

import (
	"time"

	"github.com/google/uuid"
)

// Reserved event names synthesized by invoke-states.
const (
	EventDone  = "done"
	EventError = "error"
)

// Event is anything delivered to Service.Send: a bare string tag, a value
// implementing Typed, or a map[string]any carrying a "type" string.
// Events are passed through untouched to guards, reducers, actions and tasks.
type Event = any

// Typed is implemented by structured events.
type Typed interface {
	EventType() string
}

// TypeOf returns the name used to look an event up in a transition table.
// Unrecognized values yield the empty string, which never matches a transition.
func TypeOf(ev Event) string {
	switch e := ev.(type) {
	case nil:
		return ""
	case string:
		return e
	case Typed:
		return e.EventType()
	case map[string]any:
		if t, ok := e["type"].(string); ok {
			return t
		}
	}
	return ""
}

// Done is delivered when an invoked task returns or an invoked machine
// reaches a final state. Data holds the task result or the child context.
type Done struct {
	Data any
}

// EventType implements Typed.
func (Done) EventType() string { return EventDone }

// Failure is delivered when an invoked task returns an error or panics.
type Failure struct {
	Err error
}

// EventType implements Typed.
func (Failure) EventType() string { return EventError }

// Message is a general purpose structured event with a payload.
type Message struct {
	ID        string
	Name      string
	Data      any
	Timestamp time.Time
	Metadata  map[string]any
}

// NewMessage creates a new message event
func NewMessage(name string, data any) Message {
	return Message{
		ID:        uuid.NewString(),
		Name:      name,
		Data:      data,
		Timestamp: time.Now(),
		Metadata:  make(map[string]any),
	}
}

// NewMessageWithMetadata creates a new message event with metadata
func NewMessageWithMetadata(name string, data any, metadata map[string]any) Message {
	m := NewMessage(name, data)
	for k, v := range metadata {
		m.Metadata[k] = v
	}
	return m
}

// EventType implements Typed.
func (m Message) EventType() string { return m.Name }

// DataOf extracts the payload carried by an event, if any.
func DataOf(ev Event) any {
	switch e := ev.(type) {
	case Done:
		return e.Data
	case *Done:
		return e.Data
	case Message:
		return e.Data
	case *Message:
		return e.Data
	case map[string]any:
		return e["data"]
	}
	return nil
}

// ErrorOf extracts the error carried by a Failure event.
func ErrorOf(ev Event) error {
	switch e := ev.(type) {
	case Failure:
		return e.Err
	case *Failure:
		return e.Err
	case map[string]any:
		if err, ok := e["error"].(error); ok {
			return err
		}
	}
	return nil
}
