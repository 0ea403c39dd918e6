package robo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anggasct/robo/internal/async"
)

// InvocationKind tells what an invoke-state runs on entry.
type InvocationKind int

const (
	InvocationNone InvocationKind = iota
	InvocationTask
	InvocationMachine
)

func (k InvocationKind) String() string {
	switch k {
	case InvocationTask:
		return "task"
	case InvocationMachine:
		return "machine"
	default:
		return "none"
	}
}

// TaskFunc is invoked on entry to a task state. Its result is delivered back
// as a Done event, its error as a Failure event.
type TaskFunc[C, T any] func(ctx context.Context, c C, ev Event) (T, error)

// invocation runs when its state is entered. enter is called with the
// service lock held.
type invocation[C any] interface {
	kind() InvocationKind
	enter(s *Service[C], ev Event)
}

// Invoke creates a state that runs task on entry. The candidates route the
// outcome, conventionally on EventDone and EventError. A task state without
// an error route silently ignores failures.
func Invoke[C, T any](task TaskFunc[C, T], cands ...Candidate[C]) *StateNode[C] {
	n := State(cands...)
	n.invocation = taskInvocation[C, T]{task: task}
	return n
}

// InvokeMachine creates a state that interprets child on entry. When the child
// reaches a final state, a Done event carrying its context is delivered.
func InvokeMachine[C, D any](child *Machine[D], cands ...Candidate[C]) *StateNode[C] {
	return InvokeMachineFunc(func(C, Event) *Machine[D] { return child }, cands...)
}

// InvokeMachineFunc is like InvokeMachine but picks the child machine from
// the context and event at entry time.
func InvokeMachineFunc[C, D any](fn func(C, Event) *Machine[D], cands ...Candidate[C]) *StateNode[C] {
	n := State(cands...)
	n.invocation = machineInvocation[C, D]{machine: fn}
	return n
}

type taskInvocation[C, T any] struct {
	task TaskFunc[C, T]
}

func (taskInvocation[C, T]) kind() InvocationKind { return InvocationTask }

func (ti taskInvocation[C, T]) enter(s *Service[C], ev Event) {
	entry := s.entry
	state := s.machine.current

	s.tasks.Add(1)
	future := async.Async(s.opts.ctx, s.context, func(ctx context.Context, c C) (T, error) {
		return ti.task(ctx, c, ev)
	})
	future.Then(func(v T, err error) {
		defer s.tasks.Done()
		if err != nil {
			if errors.Is(err, async.ErrPanic) {
				s.logger.Warn("invoked task panicked", slog.String("state", state), slog.Any("err", err))
			}
			s.deliver(entry, Failure{Err: err})
			return
		}
		s.deliver(entry, Done{Data: v})
	})
}

type machineInvocation[C, D any] struct {
	machine func(C, Event) *Machine[D]
}

func (machineInvocation[C, D]) kind() InvocationKind { return InvocationMachine }

func (mi machineInvocation[C, D]) enter(s *Service[C], ev Event) {
	m := mi.machine(s.context, ev)
	if m == nil {
		s.logger.Warn("invoked machine factory returned nil", slog.String("state", s.machine.current))
		return
	}

	o := m.table.opts.with(nil)
	parent := s.opts.inherited()
	o.observers = append(o.observers, parent.observers...)
	o.logger = s.logger
	o.strict = parent.strict
	o.ctx = parent.ctx
	o.tasks = parent.tasks
	o.seed = s.context
	o.initEvent = ev

	child := interpret(m, func(c *Service[D]) { s.childChanged(c) }, o)

	if child.Final() {
		// The child finished during its own initialization: route its
		// result now and never expose it.
		s.receive(Done{Data: child.Context()}, true)
		return
	}
	s.child = child
}
