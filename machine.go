package robo

import "fmt"

// StateEntry pairs a state name with its node. A slice of entries keeps the
// declaration order, which decides the default initial state.
type StateEntry[C any] struct {
	Name string
	Node *StateNode[C]
}

// Define names a state.
func Define[C any](name string, node *StateNode[C]) StateEntry[C] {
	return StateEntry[C]{Name: name, Node: node}
}

// States collects entries in declaration order.
func States[C any](entries ...StateEntry[C]) []StateEntry[C] {
	return entries
}

// stateTable is shared, never modified, by every snapshot of a machine.
type stateTable[C any] struct {
	name      string
	initial   string
	order     []string
	nodes     map[string]*StateNode[C]
	contextFn ContextFunc[C]
	opts      options
}

// Machine is an immutable snapshot: a shared states table plus the name of
// the current state. Transitions produce new snapshots.
type Machine[C any] struct {
	table   *stateTable[C]
	current string
}

// CreateMachine validates the states table and returns a machine positioned
// on its initial state. An empty initial selects the first declared state.
// A nil contextFn keeps a seed of type C, or starts from C's zero value.
func CreateMachine[C any](initial string, states []StateEntry[C], contextFn ContextFunc[C], opts ...Option) (*Machine[C], error) {
	o := defaultOptions().with(opts)

	if initial == "" && len(states) > 0 {
		initial = states[0].Name
	}
	if contextFn == nil {
		contextFn = seedContext[C]
	}

	table := &stateTable[C]{
		name:      o.name,
		initial:   initial,
		order:     make([]string, 0, len(states)),
		nodes:     make(map[string]*StateNode[C], len(states)),
		contextFn: contextFn,
		opts:      o,
	}
	for _, e := range states {
		if e.Node == nil {
			return nil, NewDefinitionError(ErrCodeNilState, e.Name, fmt.Sprintf("state %s has no definition", e.Name))
		}
		if _, dup := table.nodes[e.Name]; dup {
			return nil, NewDefinitionError(ErrCodeDuplicateState, e.Name, fmt.Sprintf("state %s is declared more than once", e.Name))
		}
		table.order = append(table.order, e.Name)
		table.nodes[e.Name] = e.Node
	}

	if err := validate(table); err != nil {
		return nil, err
	}

	m := &Machine[C]{table: table, current: initial}

	set := newObserverSet(o.observers, o.logger)
	if err := set.notifyCreate(m.Describe()); err != nil {
		return nil, &DefinitionError{
			Code:    ErrCodeObserverRejected,
			State:   initial,
			Message: "observer rejected machine",
			Err:     err,
		}
	}

	return m, nil
}

// MustCreateMachine is like CreateMachine but panics on error.
func MustCreateMachine[C any](initial string, states []StateEntry[C], contextFn ContextFunc[C], opts ...Option) *Machine[C] {
	m, err := CreateMachine(initial, states, contextFn, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Name returns the name given with WithName.
func (m *Machine[C]) Name() string {
	return m.table.name
}

// Current returns the current state name.
func (m *Machine[C]) Current() string {
	return m.current
}

// Initial returns the declared initial state name.
func (m *Machine[C]) Initial() string {
	return m.table.initial
}

// States returns the state names in declaration order.
func (m *Machine[C]) States() []string {
	return append([]string(nil), m.table.order...)
}

// Node returns the named state.
func (m *Machine[C]) Node(name string) (*StateNode[C], bool) {
	n, ok := m.table.nodes[name]
	return n, ok
}

// State returns the current state.
func (m *Machine[C]) State() *StateNode[C] {
	return m.table.nodes[m.current]
}

// Final reports whether the current state is final.
func (m *Machine[C]) Final() bool {
	return m.State().Final()
}

// SameDefinition reports whether two snapshots share a states table.
func (m *Machine[C]) SameDefinition(other *Machine[C]) bool {
	return other != nil && m.table == other.table
}

// Describe returns a serializable description of the machine.
func (m *Machine[C]) Describe() Definition {
	def := Definition{
		Name:    m.table.name,
		Initial: m.table.initial,
		Current: m.current,
		States:  make([]StateDefinition, 0, len(m.table.order)),
	}
	for _, name := range m.table.order {
		def.States = append(def.States, m.table.nodes[name].describe(name))
	}
	return def
}

// withCurrent returns a new snapshot sharing the states table.
func (m *Machine[C]) withCurrent(to string) *Machine[C] {
	return &Machine[C]{table: m.table, current: to}
}
