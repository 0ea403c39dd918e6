package robo

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Handle is the context-type independent view of a running service. Child
// services of an invoke-state are exposed through it.
type Handle interface {
	ID() string
	Name() string
	Current() string
	Final() bool
	Can(event string) bool
	ContextValue() any
	Child() Handle
	Send(ev Event) error
	Wait()
}

// Service interprets one machine instance. It holds the current snapshot,
// the current context and, while an invoked machine runs, its child.
// Send, task results and child completion are serialized per service.
type Service[C any] struct {
	id       string
	mu       sync.Mutex
	machine  *Machine[C]
	context  C
	child    Handle
	entry    uint64
	onChange func(*Service[C])

	opts      options
	observers *observerSet
	logger    *slog.Logger
	tasks     *sync.WaitGroup
}

var _ Handle = (*Service[struct{}])(nil)

// Interpret starts a service on m's current state. The initial context comes
// from the machine's context function; the initial state's immediates and
// invocation run before Interpret returns. onChange, which may be nil, is
// called after every Send that commits a transition, and whenever an invoked
// child commits one.
func Interpret[C any](m *Machine[C], onChange func(*Service[C]), opts ...Option) *Service[C] {
	return interpret(m, onChange, m.table.opts.with(opts))
}

func interpret[C any](m *Machine[C], onChange func(*Service[C]), o options) *Service[C] {
	if o.tasks == nil {
		o.tasks = new(sync.WaitGroup)
	}

	s := &Service[C]{
		id:       uuid.NewString(),
		machine:  m,
		onChange: onChange,
		opts:     o,
		tasks:    o.tasks,
	}
	s.logger = o.logger.With(slog.String("service", s.id))
	if m.table.name != "" {
		s.logger = s.logger.With(slog.String("machine", m.table.name))
	}
	s.observers = newObserverSet(o.observers, s.logger)
	s.context = m.table.contextFn(o.seed, o.initEvent)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enter(o.initEvent)

	return s
}

// ID returns the unique service identifier.
func (s *Service[C]) ID() string {
	return s.id
}

// Name returns the machine name.
func (s *Service[C]) Name() string {
	return s.machine.table.name
}

// Machine returns the current snapshot.
func (s *Service[C]) Machine() *Machine[C] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine
}

// Current returns the current state name.
func (s *Service[C]) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.current
}

// Final reports whether the service sits in a final state.
func (s *Service[C]) Final() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Final()
}

// Can reports whether the current state has transitions for event. Guards
// are not evaluated.
func (s *Service[C]) Can(event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State().Handles(event)
}

// Context returns the current context.
func (s *Service[C]) Context() C {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.context
}

// ContextValue implements Handle.
func (s *Service[C]) ContextValue() any {
	return s.Context()
}

// Child returns the running invoked machine, or nil.
func (s *Service[C]) Child() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child
}

// Wait blocks until every task invoked by this service, its children and
// its parents has been delivered. It must not race with calls that start
// new tasks from other goroutines.
func (s *Service[C]) Wait() {
	s.tasks.Wait()
}

// Send resolves ev against the current state. A rejected or unmatched
// event leaves state and context unchanged and is not an error, unless the
// service is strict or an UnmatchedObserver escalates it.
func (s *Service[C]) Send(ev Event) error {
	changed, err := s.locked(func() (bool, error) {
		return s.receive(ev, false)
	})
	if changed {
		s.notify()
	}
	return err
}

func (s *Service[C]) locked(fn func() (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Service[C]) notify() {
	if s.onChange != nil {
		s.onChange(s)
	}
}

// deliver routes a task outcome, unless the state that started the task has
// been left or re-entered since.
func (s *Service[C]) deliver(entry uint64, ev Event) {
	changed, _ := s.locked(func() (bool, error) {
		if s.entry != entry {
			s.logger.Debug("dropping task result for a state that was left",
				slog.String("state", s.machine.current),
				slog.String("event", TypeOf(ev)))
			return false, nil
		}
		return s.receive(ev, true)
	})
	if changed {
		s.notify()
	}
}

// childChanged is the change callback of an invoked child. A child that is
// no longer the current one is ignored.
func (s *Service[C]) childChanged(child Handle) {
	s.mu.Lock()
	current := s.child == child
	s.mu.Unlock()
	if !current {
		return
	}

	s.notify()

	changed, _ := s.locked(func() (bool, error) {
		if s.child != child || !child.Final() {
			return false, nil
		}
		s.child = nil
		return s.receive(Done{Data: child.ContextValue()}, true)
	})
	if changed {
		s.notify()
	}
}
