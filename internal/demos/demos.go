// Package demos holds the sample machines driven by the robo CLI.
package demos

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anggasct/robo"
)

// Demo is a named machine with a sample event script.
type Demo interface {
	Name() string
	Description() string
	// Script is a sequence of events that drives the demo to completion.
	Script() []string
	Describe() robo.Definition
	// Start interprets the machine. onChange, which may be nil, receives the
	// root service.
	Start(onChange func(robo.Handle), opts ...robo.Option) robo.Handle
}

type demo[C any] struct {
	name        string
	description string
	script      []string
	machine     *robo.Machine[C]
}

func (d *demo[C]) Name() string               { return d.name }
func (d *demo[C]) Description() string        { return d.description }
func (d *demo[C]) Script() []string           { return append([]string(nil), d.script...) }
func (d *demo[C]) Describe() robo.Definition { return d.machine.Describe() }

func (d *demo[C]) Start(onChange func(robo.Handle), opts ...robo.Option) robo.Handle {
	var notify func(*robo.Service[C])
	if onChange != nil {
		notify = func(s *robo.Service[C]) { onChange(s) }
	}
	return robo.Interpret(d.machine, notify, opts...)
}

// All returns every demo sorted by name.
func All() []Demo {
	all := []Demo{
		Stoplight(),
		Counter(),
		Login(),
		Users(),
		Checkout(),
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// Lookup finds a demo by name.
func Lookup(name string) (Demo, error) {
	for _, d := range All() {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("unknown demo %q", name)
}

// ParseEvent turns "name" into a bare event and "name=value" into a
// robo.Message carrying value.
func ParseEvent(s string) robo.Event {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return s
	}
	return robo.NewMessage(name, value)
}

// Path returns the current states from h down to its deepest child,
// e.g. "paying > authorizing".
func Path(h robo.Handle) string {
	var parts []string
	for cur := h; cur != nil; cur = cur.Child() {
		parts = append(parts, cur.Current())
	}
	return strings.Join(parts, " > ")
}

// Dispatch sends ev to the deepest service of h's chain that has
// transitions for it, or to h itself when none has.
func Dispatch(h robo.Handle, ev robo.Event) error {
	var chain []robo.Handle
	for cur := h; cur != nil; cur = cur.Child() {
		chain = append(chain, cur)
	}

	name := robo.TypeOf(ev)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Can(name) {
			return chain[i].Send(ev)
		}
	}
	return h.Send(ev)
}
