package observers

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/anggasct/robo"
)

// ValidationObserver checks a run against expectations: which states should
// be visited and which transitions are allowed. With Strict, unmatched events
// are escalated to Send's caller, and task states without an error route
// make construction fail.
type ValidationObserver struct {
	expectedStates     map[string]bool
	visitedStates      map[string]bool
	allowedTransitions map[string]map[string]bool
	violations         []string
	strict             bool
	mutex              sync.RWMutex
}

var _ robo.ExtendedObserver = (*ValidationObserver)(nil)

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		expectedStates:     make(map[string]bool),
		visitedStates:      make(map[string]bool),
		allowedTransitions: make(map[string]map[string]bool),
		violations:         make([]string, 0),
	}
}

// Strict turns recorded hazards into errors.
func (o *ValidationObserver) Strict() *ValidationObserver {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.strict = true
	return o
}

// AddExpectedState adds an expected state
func (o *ValidationObserver) AddExpectedState(stateName string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.expectedStates[stateName] = true
}

// AddAllowedTransition adds an allowed transition. Once a source state has
// an allowed target, entering any other target from it is a violation.
func (o *ValidationObserver) AddAllowedTransition(from, to string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if _, exists := o.allowedTransitions[from]; !exists {
		o.allowedTransitions[from] = make(map[string]bool)
	}
	o.allowedTransitions[from][to] = true
}

// OnCreate flags task states without an error route
func (o *ValidationObserver) OnCreate(def robo.Definition) error {
	missing := MissingErrorRoutes(def)
	if len(missing) == 0 {
		return nil
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	for _, state := range missing {
		o.violations = append(o.violations, fmt.Sprintf(
			"state '%s' invokes a task without an error transition", state))
	}
	if o.strict {
		return fmt.Errorf("task states without error transition: %v", missing)
	}
	return nil
}

// OnEnter validates transitions
func (o *ValidationObserver) OnEnter(info robo.EnterInfo) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates[info.To] = true

	if allowed, exists := o.allowedTransitions[info.From]; exists {
		if !allowed[info.To] {
			o.violations = append(o.violations, fmt.Sprintf(
				"Invalid transition from '%s' to '%s' on event '%s'",
				info.From, info.To, robo.TypeOf(info.Event)))
		}
	}
}

// OnUnmatched records events sent to a state that cannot handle them
func (o *ValidationObserver) OnUnmatched(info robo.UnmatchedInfo) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	msg := fmt.Sprintf("Unmatched event '%s' in state '%s'", robo.TypeOf(info.Event), info.State)
	o.violations = append(o.violations, msg)
	if o.strict {
		return errors.New(msg)
	}
	return nil
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// GetUnvisitedStates returns states that were expected but not visited, sorted
func (o *ValidationObserver) GetUnvisitedStates() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var unvisited []string
	for state := range o.expectedStates {
		if !o.visitedStates[state] {
			unvisited = append(unvisited, state)
		}
	}
	sort.Strings(unvisited)
	return unvisited
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset resets the validation state
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.visitedStates = make(map[string]bool)
	o.violations = make([]string, 0)
}
