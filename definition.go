package robo

// Definition is a type-erased, serializable description of a machine's
// structure. Guards, reducers and actions are reported by count only.
type Definition struct {
	Name    string            `yaml:"name,omitempty" json:"name,omitempty"`
	Initial string            `yaml:"initial" json:"initial"`
	Current string            `yaml:"current,omitempty" json:"current,omitempty"`
	States  []StateDefinition `yaml:"states" json:"states"`
}

// StateDefinition describes one state.
type StateDefinition struct {
	Name        string                 `yaml:"name" json:"name"`
	Final       bool                   `yaml:"final,omitempty" json:"final,omitempty"`
	Invoke      string                 `yaml:"invoke,omitempty" json:"invoke,omitempty"`
	Transitions []TransitionDefinition `yaml:"transitions,omitempty" json:"transitions,omitempty"`
}

// TransitionDefinition describes one candidate.
type TransitionDefinition struct {
	Event     string `yaml:"event,omitempty" json:"event,omitempty"`
	Target    string `yaml:"target" json:"target"`
	Immediate bool   `yaml:"immediate,omitempty" json:"immediate,omitempty"`
	Guards    int    `yaml:"guards,omitempty" json:"guards,omitempty"`
	Reducers  int    `yaml:"reducers,omitempty" json:"reducers,omitempty"`
	Actions   int    `yaml:"actions,omitempty" json:"actions,omitempty"`
}

// State returns the named state description.
func (d Definition) State(name string) (StateDefinition, bool) {
	for _, s := range d.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateDefinition{}, false
}

// HandlesEvent reports whether the state has a transition for event.
func (s StateDefinition) HandlesEvent(event string) bool {
	for _, t := range s.Transitions {
		if !t.Immediate && t.Event == event {
			return true
		}
	}
	return false
}
