package robo

// validate checks the states table once at construction. It runs for every
// machine, with or without observers.
func validate[C any](t *stateTable[C]) error {
	if len(t.order) == 0 {
		return NewDefinitionError(ErrCodeNoStates, "", "machine declares no states")
	}

	if _, ok := t.nodes[t.initial]; !ok {
		return NewUnknownInitialStateError(t.initial)
	}

	for _, name := range t.order {
		for _, c := range t.nodes[name].candidates() {
			if _, ok := t.nodes[c.to]; !ok {
				return NewUnknownStateError(name, c.to)
			}
		}
	}

	return checkImmediateCycles(t)
}

// checkImmediateCycles rejects states whose immediate closure can never end:
// following the first immediate of each state while it is unguarded must
// reach a state where the closure stops.
func checkImmediateCycles[C any](t *stateTable[C]) error {
	settled := make(map[string]bool, len(t.order))

	for _, start := range t.order {
		var path []string
		onPath := make(map[string]bool)

		for cur := start; !settled[cur]; {
			if onPath[cur] {
				return NewImmediateCycleError(start, append(path, cur))
			}
			onPath[cur] = true
			path = append(path, cur)

			next, forced := forcedImmediate(t.nodes[cur])
			if !forced {
				break
			}
			cur = next
		}

		for _, s := range path {
			settled[s] = true
		}
	}
	return nil
}

// forcedImmediate returns the target of a state's first immediate when that
// immediate has no guards, i.e. when it always fires.
func forcedImmediate[C any](n *StateNode[C]) (string, bool) {
	if len(n.immediates) == 0 || n.immediates[0].Guarded() {
		return "", false
	}
	return n.immediates[0].to, true
}
