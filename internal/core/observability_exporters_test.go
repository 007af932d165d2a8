package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"lifetrack/internal/infra/persistence/memory"
)

func TestExpvarMetricsRecorder(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if !strings.HasPrefix(rec.Name(), "lifetrack_store_metrics_") {
		t.Fatalf("generated name = %q", rec.Name())
	}
	ctx := context.Background()
	rec.Observe(ctx, "weekly.add_task", true, 2*time.Millisecond)
	rec.Observe(ctx, "weekly.add_task", false, 3*time.Millisecond)
	rec.Observe(ctx, "", true, time.Second)

	snap := rec.Snapshot()
	if ok, failed := snap.Calls("weekly.add_task"); ok != 1 || failed != 1 {
		t.Fatalf("calls = %d/%d", ok, failed)
	}
	if got := snap.Operations["weekly.add_task"].DurationMS; got != 5 {
		t.Fatalf("duration = %v", got)
	}
	if names := snap.OperationNames(); len(names) != 1 {
		t.Fatalf("empty operation must be ignored: %v", names)
	}
	published := expvar.Get(rec.Name())
	if published == nil || !strings.Contains(published.String(), "weekly.add_task") {
		t.Fatalf("recorder not published via expvar")
	}
}

func TestJSONTracerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	clock := clockAt(2025, time.June, 4)
	tracer.clock = clock
	_, span := tracer.Start(context.Background(), "finance.update_income")
	clock.Advance(1500 * time.Microsecond)
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	e := entries[0]
	if e.Status != "error" || e.Error != "boom" || e.DurationMS != 1.5 {
		t.Fatalf("entry = %+v", e)
	}
	var decoded JSONTraceEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &decoded); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if decoded.Operation != "finance.update_income" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestExportersWireIntoStores(t *testing.T) {
	ctx := context.Background()
	rec := NewExpvarMetricsRecorder("")
	tracer := NewJSONTracer(nil)
	s, err := NewFinanceStore(ctx, memory.NewStore(), WithMetricsRecorder(rec), WithTracer(tracer))
	must(t, err)
	must(t, s.NextMonth(ctx))
	if ok, _ := rec.Snapshot().Calls("finance.next_month"); ok != 1 {
		t.Fatalf("store op not recorded")
	}
	if entries := tracer.Entries(); len(entries) != 1 || entries[0].Status != "success" {
		t.Fatalf("span not recorded: %+v", entries)
	}
}
