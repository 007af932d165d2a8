// Package cli implements the lifetrack command line: one command group per
// tracker, each leaf calling exactly one store operation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"lifetrack/internal/config"
	"lifetrack/internal/core"
	"lifetrack/internal/logging"
	"lifetrack/internal/metrics"
	"lifetrack/pkg/domain"
)

// Options overrides process-level dependencies, mainly for tests.
type Options struct {
	// Home replaces the user's home directory when resolving defaults.
	Home string
	// Env replaces os.LookupEnv.
	Env func(string) (string, bool)
	// Clock replaces the wall clock.
	Clock core.Clock
	// Slots, when set, is used instead of the configured backend.
	Slots domain.SlotStore
}

// app holds what a single invocation needs. Stores are opened lazily so a
// command only loads the slot it touches.
type app struct {
	opts     Options
	flags    *globalFlags
	home     string
	cfg      config.Config
	logger   *slog.Logger
	slots    domain.SlotStore
	ownSlots bool
	registry *prometheus.Registry
	recorder *metrics.Recorder
	expvar   *core.ExpvarMetricsRecorder
	tracer   *core.JSONTraceTracer
	out      io.Writer

	weekly  *core.WeeklyStore
	habits  *core.HabitStore
	tasks   *core.TaskListStore
	finance *core.FinanceStore
}

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	trace      bool
	metrics    string
}

// fanout sends each observation to every recorder.
type fanout []core.MetricsRecorder

func (f fanout) Observe(ctx context.Context, op string, success bool, d time.Duration) {
	for _, r := range f {
		r.Observe(ctx, op, success, d)
	}
}

func (a *app) init(cmd *cobra.Command, flags *globalFlags) error {
	home := a.opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not find the user's home directory: %w", err)
		}
		home = h
	}
	lookup := a.opts.Env
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg, err := config.LoadFrom(home, flags.configPath, lookup)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.home = home
	a.cfg = cfg
	a.logger = logger
	a.out = cmd.OutOrStdout()
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	a.recorder = metrics.NewRecorder(a.registry)
	a.expvar = core.NewExpvarMetricsRecorder("")
	if flags.trace {
		a.tracer = core.NewJSONTracer(cmd.ErrOrStderr())
	}
	if a.opts.Slots != nil {
		a.slots = a.opts.Slots
		return nil
	}
	slots, err := core.OpenSlotStore(cmd.Context(), cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.slots = slots
	a.ownSlots = true
	logger.Debug("slot store opened", "driver", cfg.Storage.Driver)
	return nil
}

func (a *app) close() error {
	if a.slots == nil || !a.ownSlots {
		return nil
	}
	return a.slots.Close()
}

func (a *app) storeOptions() []core.Option {
	opts := []core.Option{
		core.WithLogger(a.logger),
		core.WithMetricsRecorder(fanout{a.recorder, a.expvar}),
	}
	if a.tracer != nil {
		opts = append(opts, core.WithTracer(a.tracer))
	}
	if a.opts.Clock != nil {
		opts = append(opts, core.WithClock(a.opts.Clock))
	}
	return opts
}

func (a *app) weeklyStore(ctx context.Context) (*core.WeeklyStore, error) {
	if a.weekly == nil {
		s, err := core.NewWeeklyStore(ctx, a.slots, a.storeOptions()...)
		if err != nil {
			return nil, err
		}
		a.weekly = s
	}
	return a.weekly, nil
}

func (a *app) habitStore(ctx context.Context) (*core.HabitStore, error) {
	if a.habits == nil {
		s, err := core.NewHabitStore(ctx, a.slots, a.storeOptions()...)
		if err != nil {
			return nil, err
		}
		a.habits = s
	}
	return a.habits, nil
}

func (a *app) taskStore(ctx context.Context) (*core.TaskListStore, error) {
	if a.tasks == nil {
		s, err := core.NewTaskListStore(ctx, a.slots, a.storeOptions()...)
		if err != nil {
			return nil, err
		}
		a.tasks = s
	}
	return a.tasks, nil
}

func (a *app) financeStore(ctx context.Context) (*core.FinanceStore, error) {
	if a.finance == nil {
		s, err := core.NewFinanceStore(ctx, a.slots, a.storeOptions()...)
		if err != nil {
			return nil, err
		}
		a.finance = s
	}
	return a.finance, nil
}

// newRootCmd builds the lifetrack command tree.
func newRootCmd(opts Options) (*cobra.Command, *app) {
	flags := &globalFlags{}
	a := &app{opts: opts, flags: flags}
	root := &cobra.Command{
		Use:           "lifetrack",
		Short:         "Personal trackers: weekly planner, habits, tasks and finances",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, flags)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.lifetrack/config.yaml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&flags.trace, "trace", false, "write a JSON trace line per store operation to stderr")
	pf.StringVar(&flags.metrics, "metrics", "", "after the command, write store metrics to stderr: prometheus or expvar")

	root.AddCommand(
		weeklyCmd(a),
		habitsCmd(a),
		tasksCmd(a),
		financeCmd(a),
		configCmd(a),
	)
	return root, a
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, opts Options) int {
	root, a := newRootCmd(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		err = a.writeMetrics(stderr)
	}
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		var usage usageError
		if errors.As(err, &usage) {
			return 2
		}
		return 1
	}
	return 0
}

// usageError marks malformed arguments.
type usageError struct{ error }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}
