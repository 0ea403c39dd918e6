package robo

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the state machine
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// The states table is empty
	ErrCodeNoStates
	// A state name is declared twice
	ErrCodeDuplicateState
	// A state is declared with a nil node
	ErrCodeNilState
	// The initial state is not declared
	ErrCodeUnknownInitialState
	// A transition or immediate targets an undeclared state
	ErrCodeUnknownState
	// Unguarded immediates form a loop that can never settle
	ErrCodeImmediateCycle
	// An observer refused the machine at construction
	ErrCodeObserverRejected
	// An event has no transition table entry in the current state
	ErrCodeUnmatchedEvent
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "none"
	case ErrCodeNoStates:
		return "no_states"
	case ErrCodeDuplicateState:
		return "duplicate_state"
	case ErrCodeNilState:
		return "nil_state"
	case ErrCodeUnknownInitialState:
		return "unknown_initial_state"
	case ErrCodeUnknownState:
		return "unknown_state"
	case ErrCodeImmediateCycle:
		return "immediate_cycle"
	case ErrCodeObserverRejected:
		return "observer_rejected"
	case ErrCodeUnmatchedEvent:
		return "unmatched_event"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// DefinitionError is returned by CreateMachine when the machine cannot be built.
type DefinitionError struct {
	Code    ErrorCode
	State   string
	Target  string
	Message string
	Err     error
}

func (e *DefinitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("definition error: %s: %v", e.Message, e.Err)
	}
	return "definition error: " + e.Message
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// NewUnknownStateError creates an error for a candidate targeting an undeclared state
func NewUnknownStateError(from, to string) *DefinitionError {
	return &DefinitionError{
		Code:    ErrCodeUnknownState,
		State:   from,
		Target:  to,
		Message: fmt.Sprintf("cannot transition from %s to unknown state: %s", from, to),
	}
}

// NewUnknownInitialStateError creates an error for an undeclared initial state
func NewUnknownInitialStateError(initial string) *DefinitionError {
	return &DefinitionError{
		Code:    ErrCodeUnknownInitialState,
		State:   initial,
		Message: fmt.Sprintf("initial state [%s] is not a known state", initial),
	}
}

// NewImmediateCycleError creates an error for a loop of unguarded immediates
func NewImmediateCycleError(state string, path []string) *DefinitionError {
	return &DefinitionError{
		Code:    ErrCodeImmediateCycle,
		State:   state,
		Message: fmt.Sprintf("unguarded immediate transitions loop forever: %v", path),
	}
}

// NewDefinitionError creates a definition error with custom values
func NewDefinitionError(code ErrorCode, state, message string) *DefinitionError {
	return &DefinitionError{
		Code:    code,
		State:   state,
		Message: message,
	}
}

// UnmatchedEventError is returned by Send in strict mode, or when an
// UnmatchedObserver escalates, for an event the current state has no
// transitions for.
type UnmatchedEventError struct {
	State string
	Event string
	Err   error
}

func (e *UnmatchedEventError) Error() string {
	msg := fmt.Sprintf("no transitions for event %s from the current state [%s]", e.Event, e.State)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *UnmatchedEventError) Unwrap() error {
	return e.Err
}

// NewUnmatchedEventError creates a new unmatched event error
func NewUnmatchedEventError(state, event string) *UnmatchedEventError {
	return &UnmatchedEventError{
		State: state,
		Event: event,
	}
}

// IsDefinitionError checks if an error is a DefinitionError
func IsDefinitionError(err error) bool {
	var e *DefinitionError
	return errors.As(err, &e)
}

// IsUnmatchedEventError checks if an error is an UnmatchedEventError
func IsUnmatchedEventError(err error) bool {
	var e *UnmatchedEventError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var de *DefinitionError
	if errors.As(err, &de) {
		return de.Code
	}
	var ue *UnmatchedEventError
	if errors.As(err, &ue) {
		return ErrCodeUnmatchedEvent
	}
	return ErrCodeNone
}
