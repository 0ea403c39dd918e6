package robo

import "sort"

// StateNode is an immutable state description produced by State, Final or
// one of the Invoke constructors.
type StateNode[C any] struct {
	final       bool
	transitions map[string][]Candidate[C]
	immediates  []Candidate[C]
	invocation  invocation[C]
}

// State groups candidates into a state: transitions are keyed by event name
// and immediates kept apart, both in declaration order. A state with no
// candidates is final.
func State[C any](cands ...Candidate[C]) *StateNode[C] {
	n := &StateNode[C]{
		transitions: make(map[string][]Candidate[C]),
	}
	for _, c := range cands {
		if c.immediate {
			n.immediates = append(n.immediates, c)
			continue
		}
		n.transitions[c.event] = append(n.transitions[c.event], c)
	}
	n.final = len(n.transitions) == 0 && len(n.immediates) == 0
	return n
}

// Final creates a state with no way out.
func Final[C any]() *StateNode[C] {
	return State[C]()
}

// Final reports whether the state has no transitions and no immediates.
func (n *StateNode[C]) Final() bool {
	return n.final
}

// Events returns the event names the state reacts to, sorted.
func (n *StateNode[C]) Events() []string {
	events := make([]string, 0, len(n.transitions))
	for e := range n.transitions {
		events = append(events, e)
	}
	sort.Strings(events)
	return events
}

// Handles reports whether the state has a transition table entry for event.
func (n *StateNode[C]) Handles(event string) bool {
	_, ok := n.transitions[event]
	return ok
}

// Immediates returns the immediate candidates in declaration order.
func (n *StateNode[C]) Immediates() []Candidate[C] {
	return append([]Candidate[C](nil), n.immediates...)
}

// Candidates returns the candidates registered for event in declaration order.
func (n *StateNode[C]) Candidates(event string) []Candidate[C] {
	return append([]Candidate[C](nil), n.transitions[event]...)
}

// Invocation reports what the state invokes on entry.
func (n *StateNode[C]) Invocation() InvocationKind {
	if n.invocation == nil {
		return InvocationNone
	}
	return n.invocation.kind()
}

// candidates returns every candidate in a deterministic order: events sorted,
// then immediates.
func (n *StateNode[C]) candidates() []Candidate[C] {
	var all []Candidate[C]
	for _, e := range n.Events() {
		all = append(all, n.transitions[e]...)
	}
	return append(all, n.immediates...)
}

func (n *StateNode[C]) describe(name string) StateDefinition {
	sd := StateDefinition{
		Name:   name,
		Final:  n.final,
		Invoke: n.Invocation().String(),
	}
	if sd.Invoke == InvocationNone.String() {
		sd.Invoke = ""
	}
	for _, c := range n.candidates() {
		sd.Transitions = append(sd.Transitions, c.describe())
	}
	return sd
}
