package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/anggasct/robo"
	"github.com/anggasct/robo/internal/demos"
	"github.com/anggasct/robo/internal/logging"
	"github.com/anggasct/robo/pkg/observers"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <demo> [events...]",
		Short: "Drive a demo machine with events",
		Long: `Interprets a demo and sends each event in turn, waiting for invoked tasks
after every step. Events are plain names or name=value pairs; the value is
delivered as the event's data. Without events the demo's own script runs.
Events go to the deepest running child machine that handles them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict, _ = cmd.Flags().GetBool("strict")
			}
			if cmd.Flags().Changed("timeout") {
				cfg.TaskTimeout, _ = cmd.Flags().GetDuration("timeout")
			}

			d, err := demos.Lookup(args[0])
			if err != nil {
				return err
			}
			events := args[1:]
			if len(events) == 0 {
				events = d.Script()
			}

			logger := logging.New(cfg.Level(), cfg.LogFormat, cmd.ErrOrStderr())
			return runDemo(cmd.Context(), cmd.OutOrStdout(), d, events, runOptions{
				strict:  cfg.Strict,
				timeout: cfg.TaskTimeout,
				options: []robo.Option{
					robo.WithLogger(logger),
					robo.WithObserver(observers.NewLoggingObserver(logger, cfg.Level())),
				},
			})
		},
	}
	cmd.Flags().Bool("strict", false, "Fail on events the current state has no transitions for")
	cmd.Flags().Duration("timeout", 0, "Maximum wait for invoked tasks after each step")
	return cmd
}

type runOptions struct {
	strict  bool
	timeout time.Duration
	options []robo.Option
}

func runDemo(ctx context.Context, out io.Writer, d demos.Demo, events []string, ro runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rec := observers.NewRecorder()
	opts := append([]robo.Option{robo.WithObserver(rec), robo.WithContext(ctx)}, ro.options...)
	if ro.strict {
		opts = append(opts, robo.WithStrict())
	}

	h := d.Start(nil, opts...)
	if err := waitTasks(h, ro.timeout); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", d.Name(), demos.Path(h))
	printSteps(out, rec, 0)

	for _, raw := range events {
		seen := rec.TransitionCount()
		fmt.Fprintf(out, "> %s\n", raw)

		if err := demos.Dispatch(h, demos.ParseEvent(raw)); err != nil {
			return err
		}
		if err := waitTasks(h, ro.timeout); err != nil {
			return err
		}

		if !printSteps(out, rec, seen) {
			fmt.Fprintln(out, "  (no transition)")
		}
		fmt.Fprintf(out, "  state: %s\n", demos.Path(h))
	}

	fmt.Fprintf(out, "final: %t\ncontext: %+v\n", h.Final(), h.ContextValue())
	return nil
}

func printSteps(out io.Writer, rec *observers.Recorder, since int) bool {
	steps := rec.Since(since)
	for _, e := range steps {
		label := robo.TypeOf(e.Event)
		if e.Immediate {
			label = "immediate"
		}
		fmt.Fprintf(out, "  %s: %s -> %s (%s)\n", e.Machine, e.From, e.To, label)
	}
	return len(steps) > 0
}

// waitTasks waits for invoked tasks, giving up after timeout when positive.
func waitTasks(h robo.Handle, timeout time.Duration) error {
	if timeout <= 0 {
		h.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		h.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("invoked tasks still running after %s", timeout)
	}
}
