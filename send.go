package robo

import "log/slog"

// receive resolves ev against the current state. internal marks done/error
// events produced by an invocation; those are never escalated. It reports
// whether a transition was committed. The lock must be held.
func (s *Service[C]) receive(ev Event, internal bool) (bool, error) {
	name := TypeOf(ev)
	node := s.machine.State()

	cands, ok := node.transitions[name]
	if !ok {
		return false, s.unmatched(name, ev, internal)
	}
	return s.transition(ev, cands), nil
}

func (s *Service[C]) unmatched(name string, ev Event, internal bool) error {
	state := s.machine.current
	s.logger.Debug("no transitions for event",
		slog.String("state", state),
		slog.String("event", name),
		slog.Bool("internal", internal))

	err := s.observers.notifyUnmatched(UnmatchedInfo{
		Service:  s.id,
		Machine:  s.machine.table.name,
		State:    state,
		Event:    ev,
		Internal: internal,
	})
	switch {
	case internal:
		return nil
	case err != nil:
		return &UnmatchedEventError{State: state, Event: name, Err: err}
	case s.opts.strict:
		return NewUnmatchedEventError(state, name)
	}
	return nil
}

// transition commits the first candidate whose guards pass. Rejection by
// every guard leaves the service untouched.
func (s *Service[C]) transition(ev Event, cands []Candidate[C]) bool {
	for _, c := range cands {
		if c.allows(s.context, ev) {
			s.commit(c, ev)
			return true
		}
	}
	s.logger.Debug("transition rejected by guards",
		slog.String("state", s.machine.current),
		slog.String("event", TypeOf(ev)))
	return false
}

// commit moves to c's target with the reduced context and enters it.
func (s *Service[C]) commit(c Candidate[C], ev Event) {
	prev := s.context
	from := s.machine.current

	s.context = c.reduce(prev, ev)
	s.machine = s.machine.withCurrent(c.to)
	s.child = nil
	s.entry++

	s.logger.Debug("entered state",
		slog.String("from", from),
		slog.String("to", c.to),
		slog.String("event", TypeOf(ev)),
		slog.Bool("immediate", c.immediate))

	s.observers.notifyEnter(EnterInfo{
		Service:         s.id,
		Machine:         s.machine.table.name,
		From:            from,
		To:              c.to,
		Event:           ev,
		Context:         s.context,
		PreviousContext: prev,
		Immediate:       c.immediate,
	})

	s.enter(ev)
}

// enter runs the immediate closure of the current state and, once it
// settles, the state's invocation. ev is the event that led here.
func (s *Service[C]) enter(ev Event) {
	node := s.machine.State()
	if len(node.immediates) > 0 && s.transition(ev, node.immediates) {
		return
	}
	if node.invocation != nil {
		node.invocation.enter(s, ev)
	}
}
