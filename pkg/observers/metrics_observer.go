package observers

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anggasct/robo"
)

// MetricsObserver counts machine activity. Counters are exported to
// Prometheus and mirrored in memory for quick inspection.
type MetricsObserver struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	unmatched   *prometheus.CounterVec

	stateVisits      map[string]int
	transitionCounts map[string]int
	unmatchedCounts  map[string]int
	mutex            sync.RWMutex
}

var _ robo.ExtendedObserver = (*MetricsObserver)(nil)

// NewMetricsObserver creates a new metrics observer and registers its
// collectors with reg. A nil reg skips registration.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	o := &MetricsObserver{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robo_machines_created_total",
			Help: "Machines that passed construction.",
		}, []string{"machine"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robo_transitions_total",
			Help: "Committed transitions, including immediate hops.",
		}, []string{"machine", "from", "to", "immediate"}),
		unmatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "robo_unmatched_events_total",
			Help: "Events with no transition in the current state.",
		}, []string{"machine", "state", "event"}),
		stateVisits:      make(map[string]int),
		transitionCounts: make(map[string]int),
		unmatchedCounts:  make(map[string]int),
	}

	if reg != nil {
		for _, c := range o.Collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// Collectors returns the Prometheus collectors of the observer.
func (o *MetricsObserver) Collectors() []prometheus.Collector {
	return []prometheus.Collector{o.created, o.transitions, o.unmatched}
}

// OnCreate records machine construction
func (o *MetricsObserver) OnCreate(def robo.Definition) error {
	o.created.WithLabelValues(def.Name).Inc()
	return nil
}

// OnEnter records transition metrics
func (o *MetricsObserver) OnEnter(info robo.EnterInfo) {
	immediate := "false"
	if info.Immediate {
		immediate = "true"
	}
	o.transitions.WithLabelValues(info.Machine, info.From, info.To, immediate).Inc()

	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits[info.To]++
	o.transitionCounts[info.From+"->"+info.To]++
}

// OnUnmatched records events nobody handled
func (o *MetricsObserver) OnUnmatched(info robo.UnmatchedInfo) error {
	event := robo.TypeOf(info.Event)
	o.unmatched.WithLabelValues(info.Machine, info.State, event).Inc()

	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.unmatchedCounts[event]++
	return nil
}

// GetStateVisitCounts returns the number of times each state was entered
func (o *MetricsObserver) GetStateVisitCounts() map[string]int {
	return o.snapshot(func() map[string]int { return o.stateVisits })
}

// GetTransitionCounts returns the number of times each transition occurred
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	return o.snapshot(func() map[string]int { return o.transitionCounts })
}

// GetUnmatchedCounts returns unmatched events by name
func (o *MetricsObserver) GetUnmatchedCounts() map[string]int {
	return o.snapshot(func() map[string]int { return o.unmatchedCounts })
}

func (o *MetricsObserver) snapshot(pick func() map[string]int) map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	m := pick()
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// Reset clears the in-memory counts. Prometheus counters are monotonic and
// are left alone.
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits = make(map[string]int)
	o.transitionCounts = make(map[string]int)
	o.unmatchedCounts = make(map[string]int)
}
