package robo

import (
	"errors"
	"fmt"
	"log/slog"
)

// EnterInfo describes a committed transition.
type EnterInfo struct {
	// Service is the ID of the service that committed the transition.
	Service string
	// Machine is the machine name given with WithName, if any.
	Machine         string
	From            string
	To              string
	Event           Event
	Context         any
	PreviousContext any
	// Immediate is true for hops taken by an immediate transition.
	Immediate bool
}

// UnmatchedInfo describes an event the current state has no transitions for.
type UnmatchedInfo struct {
	Service string
	Machine string
	State   string
	Event   Event
	// Internal is true for done/error events synthesized by an invoke-state.
	Internal bool
}

// Observer represents an entity that observes machine execution
type Observer interface {
	// OnEnter is called after every committed transition, including each
	// immediate hop. It must not alter the machine.
	OnEnter(info EnterInfo)
}

// CreateObserver is notified once per CreateMachine, after structural
// validation. Returning an error makes construction fail.
type CreateObserver interface {
	OnCreate(def Definition) error
}

// UnmatchedObserver is notified when Send finds no transition table entry
// for an event. Returning an error escalates the event to Send's caller.
type UnmatchedObserver interface {
	OnUnmatched(info UnmatchedInfo) error
}

// ExtendedObserver implements every hook
type ExtendedObserver interface {
	Observer
	CreateObserver
	UnmatchedObserver
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnEnter implements Observer
func (BaseObserver) OnEnter(EnterInfo) {}

// OnCreate implements CreateObserver
func (BaseObserver) OnCreate(Definition) error { return nil }

// OnUnmatched implements UnmatchedObserver
func (BaseObserver) OnUnmatched(UnmatchedInfo) error { return nil }

var _ ExtendedObserver = BaseObserver{}

// observerSet fans hooks out to observers and contains their panics.
type observerSet struct {
	observers []Observer
	logger    *slog.Logger
}

func newObserverSet(observers []Observer, logger *slog.Logger) *observerSet {
	return &observerSet{
		observers: append([]Observer(nil), observers...),
		logger:    logger,
	}
}

func (set *observerSet) guard(hook string) {
	if r := recover(); r != nil {
		set.logger.Warn("observer panicked", slog.String("hook", hook), slog.Any("panic", r))
	}
}

func (set *observerSet) notifyCreate(def Definition) error {
	var errs []error
	for _, o := range set.observers {
		co, ok := o.(CreateObserver)
		if !ok {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("observer panic in OnCreate: %v", r))
				}
			}()
			if err := co.OnCreate(def); err != nil {
				errs = append(errs, err)
			}
		}()
	}
	return errors.Join(errs...)
}

func (set *observerSet) notifyEnter(info EnterInfo) {
	for _, o := range set.observers {
		func() {
			defer set.guard("OnEnter")
			o.OnEnter(info)
		}()
	}
}

func (set *observerSet) notifyUnmatched(info UnmatchedInfo) error {
	var errs []error
	for _, o := range set.observers {
		uo, ok := o.(UnmatchedObserver)
		if !ok {
			continue
		}
		func() {
			defer set.guard("OnUnmatched")
			if err := uo.OnUnmatched(info); err != nil {
				errs = append(errs, err)
			}
		}()
	}
	return errors.Join(errs...)
}
