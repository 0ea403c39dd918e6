// Package observers provides observers for monitoring machines and services
package observers

import (
	"context"
	"log/slog"

	"github.com/anggasct/robo"
)

// LoggingObserver logs machine construction, state entries and unmatched
// events through slog.
type LoggingObserver struct {
	logger *slog.Logger
	level  slog.Level
}

var _ robo.ExtendedObserver = (*LoggingObserver)(nil)

// NewLoggingObserver creates a new logging observer. Entries and unmatched
// events are logged at level; construction hazards always at Warn.
func NewLoggingObserver(logger *slog.Logger, level slog.Level) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		logger: logger,
		level:  level,
	}
}

// OnCreate logs the machine and warns about task states that have no route
// for failures: their errors would be silently dropped.
func (o *LoggingObserver) OnCreate(def robo.Definition) error {
	o.logger.Log(context.Background(), o.level, "machine created",
		slog.String("machine", def.Name),
		slog.String("initial", def.Initial),
		slog.Int("states", len(def.States)))

	for _, state := range MissingErrorRoutes(def) {
		o.logger.Warn("invoked task has no error transition",
			slog.String("machine", def.Name),
			slog.String("state", state))
	}
	return nil
}

// OnEnter logs state entry
func (o *LoggingObserver) OnEnter(info robo.EnterInfo) {
	o.logger.Log(context.Background(), o.level, "state entered",
		slog.String("machine", info.Machine),
		slog.String("service", info.Service),
		slog.String("from", info.From),
		slog.String("to", info.To),
		slog.String("event", robo.TypeOf(info.Event)),
		slog.Bool("immediate", info.Immediate))
}

// OnUnmatched logs events the current state has no transitions for
func (o *LoggingObserver) OnUnmatched(info robo.UnmatchedInfo) error {
	o.logger.Log(context.Background(), o.level, "event not handled",
		slog.String("machine", info.Machine),
		slog.String("service", info.Service),
		slog.String("state", info.State),
		slog.String("event", robo.TypeOf(info.Event)),
		slog.Bool("internal", info.Internal))
	return nil
}

// MissingErrorRoutes lists the task states of def that lack an error
// transition, in declaration order.
func MissingErrorRoutes(def robo.Definition) []string {
	var states []string
	for _, s := range def.States {
		if s.Invoke == robo.InvocationTask.String() && !s.HandlesEvent(robo.EventError) {
			states = append(states, s.Name)
		}
	}
	return states
}
