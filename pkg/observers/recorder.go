package observers

import (
	"sync"

	"github.com/anggasct/robo"
)

// Recorder keeps every notification in memory. It is meant for tests and
// for the CLI's step output.
type Recorder struct {
	mutex     sync.RWMutex
	created   []robo.Definition
	entered   []robo.EnterInfo
	unmatched []robo.UnmatchedInfo
}

var _ robo.ExtendedObserver = (*Recorder)(nil)

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnCreate implements robo.CreateObserver
func (r *Recorder) OnCreate(def robo.Definition) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.created = append(r.created, def)
	return nil
}

// OnEnter implements robo.Observer
func (r *Recorder) OnEnter(info robo.EnterInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.entered = append(r.entered, info)
}

// OnUnmatched implements robo.UnmatchedObserver
func (r *Recorder) OnUnmatched(info robo.UnmatchedInfo) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.unmatched = append(r.unmatched, info)
	return nil
}

// Created returns the definitions seen at construction
func (r *Recorder) Created() []robo.Definition {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return append([]robo.Definition(nil), r.created...)
}

// Entries returns the recorded transitions in commit order
func (r *Recorder) Entries() []robo.EnterInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return append([]robo.EnterInfo(nil), r.entered...)
}

// Unmatched returns the recorded unmatched events
func (r *Recorder) Unmatched() []robo.UnmatchedInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return append([]robo.UnmatchedInfo(nil), r.unmatched...)
}

// TransitionCount returns the number of recorded transitions
func (r *Recorder) TransitionCount() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.entered)
}

// LastTransition returns the most recent transition, or nil
func (r *Recorder) LastTransition() *robo.EnterInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if len(r.entered) == 0 {
		return nil
	}
	last := r.entered[len(r.entered)-1]
	return &last
}

// Visited returns the target states in commit order
func (r *Recorder) Visited() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	states := make([]string, 0, len(r.entered))
	for _, e := range r.entered {
		states = append(states, e.To)
	}
	return states
}

// Since returns the transitions recorded after the first n.
func (r *Recorder) Since(n int) []robo.EnterInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if n >= len(r.entered) {
		return nil
	}
	return append([]robo.EnterInfo(nil), r.entered[n:]...)
}

// Reset clears all recorded events
func (r *Recorder) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.created = nil
	r.entered = nil
	r.unmatched = nil
}
