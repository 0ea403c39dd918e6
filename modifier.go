package robo

// GuardFunc decides whether a transition candidate may fire.
type GuardFunc[C any] func(ctx C, ev Event) bool

// ReduceFunc computes the next context for a firing transition.
// It must return a complete replacement and not mutate ctx.
type ReduceFunc[C any] func(ctx C, ev Event) C

// ActionFunc performs a side effect while a transition fires.
type ActionFunc[C any] func(ctx C, ev Event)

// ModifierKind tags the variant held by a Modifier.
type ModifierKind int

const (
	ModifierGuard ModifierKind = iota
	ModifierReduce
	ModifierAction
)

func (k ModifierKind) String() string {
	switch k {
	case ModifierGuard:
		return "guard"
	case ModifierReduce:
		return "reduce"
	case ModifierAction:
		return "action"
	default:
		return "unknown"
	}
}

// Modifier refines a transition: exactly one of its functions is set,
// according to Kind.
type Modifier[C any] struct {
	kind   ModifierKind
	guard  GuardFunc[C]
	reduce ReduceFunc[C]
	action ActionFunc[C]
}

// Kind returns the variant of the modifier.
func (m Modifier[C]) Kind() ModifierKind {
	return m.kind
}

// Guard wraps a predicate. A nil fn always allows the transition.
func Guard[C any](fn GuardFunc[C]) Modifier[C] {
	if fn == nil {
		fn = func(C, Event) bool { return true }
	}
	return Modifier[C]{kind: ModifierGuard, guard: fn}
}

// Reduce wraps a context reducer. A nil fn is the identity.
func Reduce[C any](fn ReduceFunc[C]) Modifier[C] {
	if fn == nil {
		fn = func(ctx C, _ Event) C { return ctx }
	}
	return Modifier[C]{kind: ModifierReduce, reduce: fn}
}

// Action wraps a side effect. The context is left as it was.
func Action[C any](fn ActionFunc[C]) Modifier[C] {
	if fn == nil {
		fn = func(C, Event) {}
	}
	return Modifier[C]{kind: ModifierAction, action: fn}
}

// apply runs a reduce or action modifier.
func (m Modifier[C]) apply(ctx C, ev Event) C {
	switch m.kind {
	case ModifierReduce:
		return m.reduce(ctx, ev)
	case ModifierAction:
		m.action(ctx, ev)
	}
	return ctx
}

// partition splits modifiers into guards and effects, keeping declaration
// order within each list.
func partition[C any](mods []Modifier[C]) ([]GuardFunc[C], []Modifier[C]) {
	var guards []GuardFunc[C]
	var effects []Modifier[C]
	for _, m := range mods {
		switch m.kind {
		case ModifierGuard:
			if m.guard != nil {
				guards = append(guards, m.guard)
			}
		case ModifierReduce, ModifierAction:
			if m.reduce != nil || m.action != nil {
				effects = append(effects, m)
			}
		}
	}
	return guards, effects
}
