package robo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/robo"
)

type form struct {
	Login    string
	Password string
	Errors   []string
}

func TestSend_BareAndStructuredEvents(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(robo.Transition[string]("next", "two"))),
		robo.Define("two", robo.State(
			robo.Transition("next", "three",
				robo.Reduce(func(_ string, ev robo.Event) string {
					return robo.DataOf(ev).(string)
				}),
			),
		)),
		robo.Define("three", robo.State(
			robo.Transition[string]("next", "four"),
		)),
		robo.Define("four", robo.Final[string]()),
	), nil)

	s := robo.Interpret(m, nil)

	require.NoError(t, s.Send("next"))
	assert.Equal(t, "two", s.Current())

	require.NoError(t, s.Send(robo.NewMessage("next", "payload")))
	assert.Equal(t, "three", s.Current())
	assert.Equal(t, "payload", s.Context())

	require.NoError(t, s.Send(map[string]any{"type": "next"}))
	assert.Equal(t, "four", s.Current())
	assert.True(t, s.Final())
}

func TestSend_RejectedGuardLeavesServiceUnchanged(t *testing.T) {
	canSubmit := false
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("idle", robo.State(
			robo.Transition("submit", "sent",
				robo.Guard(func(form, robo.Event) bool { return canSubmit }),
				robo.Reduce(func(f form, _ robo.Event) form {
					f.Errors = append(append([]string(nil), f.Errors...), "touched")
					return f
				}),
			),
		)),
		robo.Define("sent", robo.Final[form]()),
	), nil)

	changes := 0
	s := robo.Interpret(m, func(*robo.Service[form]) { changes++ },
		robo.WithInitialContext(form{Login: "me"}))

	before := s.Context()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Send("submit"))
	}
	assert.Equal(t, "idle", s.Current())
	assert.Equal(t, before, s.Context())
	assert.Zero(t, changes)

	canSubmit = true
	require.NoError(t, s.Send("submit"))
	assert.Equal(t, "sent", s.Current())
	assert.Equal(t, []string{"touched"}, s.Context().Errors)
	assert.Equal(t, 1, changes)
}

func TestSend_GuardShortCircuit(t *testing.T) {
	secondCalled := false
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(
			robo.Transition("go", "two",
				robo.Guard(func(int, robo.Event) bool { return false }),
				robo.Guard(func(int, robo.Event) bool {
					secondCalled = true
					return true
				}),
			),
		)),
		robo.Define("two", robo.Final[int]()),
	), nil)

	s := robo.Interpret(m, nil)
	require.NoError(t, s.Send("go"))

	assert.Equal(t, "one", s.Current())
	assert.False(t, secondCalled)
}

func TestSend_FirstPassingCandidateWins(t *testing.T) {
	var evaluated []string
	guard := func(name string, ok bool) robo.Modifier[int] {
		return robo.Guard(func(int, robo.Event) bool {
			evaluated = append(evaluated, name)
			return ok
		})
	}

	m := robo.MustCreateMachine("", robo.States(
		robo.Define("start", robo.State(
			robo.Transition("go", "a", guard("a", false)),
			robo.Transition("go", "b", guard("b", true)),
			robo.Transition("go", "c", guard("c", true)),
		)),
		robo.Define("a", robo.Final[int]()),
		robo.Define("b", robo.Final[int]()),
		robo.Define("c", robo.Final[int]()),
	), nil)

	s := robo.Interpret(m, nil)
	require.NoError(t, s.Send("go"))

	assert.Equal(t, "b", s.Current())
	assert.Equal(t, []string{"a", "b"}, evaluated)
}

func TestSend_ReducersComposeLeftToRight(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(
			robo.Transition("go", "two",
				robo.Reduce(func(c map[string]int, _ robo.Event) map[string]int {
					return merge(c, "a", 1)
				}),
				robo.Reduce(func(c map[string]int, _ robo.Event) map[string]int {
					return merge(c, "b", c["a"]+1)
				}),
			),
		)),
		robo.Define("two", robo.Final[map[string]int]()),
	), func(any, robo.Event) map[string]int { return map[string]int{} })

	s := robo.Interpret(m, nil)
	require.NoError(t, s.Send("go"))

	assert.Equal(t, map[string]int{"a": 1, "b": 2}, s.Context())
}

func TestSend_ActionSeesReducedContextAndKeepsIt(t *testing.T) {
	var seen []int
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(
			robo.Transition("go", "two",
				robo.Reduce(func(c int, _ robo.Event) int { return c + 1 }),
				robo.Action(func(c int, _ robo.Event) { seen = append(seen, c) }),
				robo.Reduce(func(c int, _ robo.Event) int { return c * 10 }),
			),
		)),
		robo.Define("two", robo.Final[int]()),
	), nil)

	s := robo.Interpret(m, nil, robo.WithInitialContext(1))
	require.NoError(t, s.Send("go"))

	assert.Equal(t, []int{2}, seen)
	assert.Equal(t, 20, s.Context())
}

func TestSend_NilModifiersDefault(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(
			robo.Transition("go", "two",
				robo.Guard[int](nil),
				robo.Reduce[int](nil),
				robo.Action[int](nil),
			),
		)),
		robo.Define("two", robo.Final[int]()),
	), nil)

	s := robo.Interpret(m, nil, robo.WithInitialContext(5))
	require.NoError(t, s.Send("go"))

	assert.Equal(t, "two", s.Current())
	assert.Equal(t, 5, s.Context())
}

func TestSend_ImmediateClosure(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("idle", robo.State(robo.Transition[int]("go", "one"))),
		robo.Define("one", robo.State(robo.Immediate[int]("two"))),
		robo.Define("two", robo.State(robo.Immediate[int]("three"))),
		robo.Define("three", robo.Final[int]()),
	), nil)

	changes := 0
	s := robo.Interpret(m, func(*robo.Service[int]) { changes++ })
	require.NoError(t, s.Send("go"))

	assert.Equal(t, "three", s.Current())
	assert.Equal(t, 1, changes)
}

func TestInterpret_ImmediateClosureOnInitialState(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(robo.Immediate[int]("two"))),
		robo.Define("two", robo.State(robo.Immediate[int]("three"))),
		robo.Define("three", robo.Final[int]()),
	), nil)

	changes := 0
	s := robo.Interpret(m, func(*robo.Service[int]) { changes++ })

	assert.Equal(t, "three", s.Current())
	assert.Zero(t, changes)
}

func TestSend_ImmediateGuardsPickBranch(t *testing.T) {
	isAdmin := func(c form, _ robo.Event) bool { return c.Login == "admin" }

	m := robo.MustCreateMachine("", robo.States(
		robo.Define("idle", robo.State(
			robo.Transition("login", "check",
				robo.Reduce(func(f form, ev robo.Event) form {
					f.Login = robo.DataOf(ev).(string)
					return f
				}),
			),
		)),
		robo.Define("check", robo.State(
			robo.Immediate("admin", robo.Guard(isAdmin)),
			robo.Immediate[form]("user"),
		)),
		robo.Define("admin", robo.Final[form]()),
		robo.Define("user", robo.Final[form]()),
	), nil)

	s := robo.Interpret(m, nil)
	require.NoError(t, s.Send(robo.NewMessage("login", "admin")))
	assert.Equal(t, "admin", s.Current())

	s = robo.Interpret(m, nil)
	require.NoError(t, s.Send(robo.NewMessage("login", "guest")))
	assert.Equal(t, "user", s.Current())
}

func TestSend_ImmediateReducerSeesArrivingEvent(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("idle", robo.State(robo.Transition[string]("go", "hop"))),
		robo.Define("hop", robo.State(
			robo.Immediate("end", robo.Reduce(func(_ string, ev robo.Event) string {
				return robo.TypeOf(ev)
			})),
		)),
		robo.Define("end", robo.Final[string]()),
	), nil)

	s := robo.Interpret(m, nil)
	require.NoError(t, s.Send("go"))

	assert.Equal(t, "go", s.Context())
}

func TestSend_ImmediateStopsWhenAllGuardsFail(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("idle", robo.State(robo.Transition[int]("go", "wait"))),
		robo.Define("wait", robo.State(
			robo.Immediate("end", robo.Guard(func(c int, _ robo.Event) bool { return c > 0 })),
			robo.Transition("bump", "wait", robo.Reduce(func(c int, _ robo.Event) int { return c + 1 })),
		)),
		robo.Define("end", robo.Final[int]()),
	), nil)

	s := robo.Interpret(m, nil)
	require.NoError(t, s.Send("go"))
	assert.Equal(t, "wait", s.Current())

	require.NoError(t, s.Send("bump"))
	assert.Equal(t, "end", s.Current())
}

func TestSend_GuardPanicPropagatesAndUnlocks(t *testing.T) {
	m := robo.MustCreateMachine("", robo.States(
		robo.Define("one", robo.State(
			robo.Transition("boom", "two", robo.Guard(func(int, robo.Event) bool { panic("guard") })),
			robo.Transition[int]("go", "two"),
		)),
		robo.Define("two", robo.Final[int]()),
	), nil)

	s := robo.Interpret(m, nil)
	assert.Panics(t, func() { _ = s.Send("boom") })

	require.NoError(t, s.Send("go"))
	assert.Equal(t, "two", s.Current())
}

func merge(m map[string]int, k string, v int) map[string]int {
	out := make(map[string]int, len(m)+1)
	for key, val := range m {
		out[key] = val
	}
	out[k] = v
	return out
}
