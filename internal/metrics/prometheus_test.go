package metrics

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	ctx := context.Background()
	rec.Observe(ctx, "habits.add_habit", true, time.Millisecond)
	rec.Observe(ctx, "habits.add_habit", true, time.Millisecond)
	rec.Observe(ctx, "habits.add_habit", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	if got := testutil.ToFloat64(rec.ops.WithLabelValues("habits.add_habit", "success")); got != 2 {
		t.Fatalf("success count = %v", got)
	}
	if got := testutil.ToFloat64(rec.ops.WithLabelValues("habits.add_habit", "error")); got != 1 {
		t.Fatalf("error count = %v", got)
	}
	if n := testutil.CollectAndCount(rec.duration); n != 1 {
		t.Fatalf("histogram series = %d", n)
	}
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	rec.Observe(context.Background(), "finance.set_month", true, 2*time.Millisecond)
	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`lifetrack_store_operations_total{operation="finance.set_month",result="success"} 1`,
		"# TYPE lifetrack_store_operation_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNewRecorderTwiceOnOneRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate registration should panic")
		}
	}()
	NewRecorder(reg)
}
