package robo

// Candidate is one possible transition out of a state.
type Candidate[C any] struct {
	event     string
	immediate bool
	to        string
	guards    []GuardFunc[C]
	effects   []Modifier[C]
}

// Transition creates a candidate fired by the named event.
func Transition[C any](event, to string, mods ...Modifier[C]) Candidate[C] {
	guards, effects := partition(mods)
	return Candidate[C]{
		event:   event,
		to:      to,
		guards:  guards,
		effects: effects,
	}
}

// Immediate creates a candidate evaluated as soon as its state is entered,
// without waiting for an event.
func Immediate[C any](to string, mods ...Modifier[C]) Candidate[C] {
	guards, effects := partition(mods)
	return Candidate[C]{
		immediate: true,
		to:        to,
		guards:    guards,
		effects:   effects,
	}
}

// Event returns the triggering event name, empty for immediates.
func (c Candidate[C]) Event() string {
	return c.event
}

// Target returns the destination state name.
func (c Candidate[C]) Target() string {
	return c.to
}

// IsImmediate reports whether the candidate fires without an event.
func (c Candidate[C]) IsImmediate() bool {
	return c.immediate
}

// Guarded reports whether the candidate has at least one guard.
func (c Candidate[C]) Guarded() bool {
	return len(c.guards) > 0
}

// allows evaluates the guard chain with short-circuit AND.
func (c Candidate[C]) allows(ctx C, ev Event) bool {
	for _, g := range c.guards {
		if !g(ctx, ev) {
			return false
		}
	}
	return true
}

// reduce composes the effects left to right.
func (c Candidate[C]) reduce(ctx C, ev Event) C {
	for _, m := range c.effects {
		ctx = m.apply(ctx, ev)
	}
	return ctx
}

func (c Candidate[C]) describe() TransitionDefinition {
	td := TransitionDefinition{
		Event:     c.event,
		Target:    c.to,
		Immediate: c.immediate,
		Guards:    len(c.guards),
	}
	for _, m := range c.effects {
		switch m.kind {
		case ModifierReduce:
			td.Reducers++
		case ModifierAction:
			td.Actions++
		}
	}
	return td
}
