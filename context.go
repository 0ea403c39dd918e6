package robo

// ContextFunc derives a service's initial context. seed is the value given
// with WithInitialContext, or the parent's context for an invoked child
// machine; ev is the initial or invoking event.
type ContextFunc[C any] func(seed any, ev Event) C

// seedContext is used when CreateMachine gets a nil ContextFunc: the seed is
// kept when it already has type C, otherwise the zero value is used.
func seedContext[C any](seed any, _ Event) C {
	if v, ok := seed.(C); ok {
		return v
	}
	var zero C
	return zero
}
