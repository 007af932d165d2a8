// Package core hosts the tracker stores and the machinery they share: the
// load/mutate/persist cycle, observability hooks and slot backend selection.
package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Logger is the structured logging surface the stores write to. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsRecorder receives the outcome and latency of every store operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer opens a span per store operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is closed with the operation's error, nil on success.
type TraceSpan interface {
	End(err error)
}

// Option customises a store at construction.
type Option func(*storeOptions)

type storeOptions struct {
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	newID   func() string
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		clock:   ClockFunc(func() time.Time { return time.Now() }),
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		newID:   uuid.NewString,
	}
}

func applyOptions(opts []Option) storeOptions {
	o := defaultStoreOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithClock overrides the time source used for defaults and date-relative stats.
func WithClock(c Clock) Option {
	return func(o *storeOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger routes store logs to l.
func WithLogger(l Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsRecorder installs a metrics sink.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(o *storeOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(t Tracer) Option {
	return func(o *storeOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithIDGenerator overrides entity id generation (uuid v4 by default).
func WithIDGenerator(gen func() string) Option {
	return func(o *storeOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}
