package blobslot

import (
	"context"
	"errors"
	"io"
	"testing"

	"lifetrack/internal/blob/core"
	"lifetrack/internal/infra/blob/fs"
	"lifetrack/internal/infra/blob/memory"
	"lifetrack/pkg/domain"
)

func TestSlotRoundTripAcrossBlobDrivers(t *testing.T) {
	fsBlobs, err := fs.New(t.TempDir())
	if err != nil {
		t.Fatalf("fs.New: %v", err)
	}
	drivers := map[string]core.Store{
		"memory": memory.New(),
		"fs":     fsBlobs,
	}
	for name, blobs := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store, err := New(blobs, "lifetrack/")
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if _, ok, err := store.Load(ctx, domain.SlotFinance); err != nil || ok {
				t.Fatalf("empty slot load = %v %v", ok, err)
			}
			if err := store.Save(ctx, domain.SlotFinance, []byte(`{"v":1}`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := store.Save(ctx, domain.SlotFinance, []byte(`{"v":2}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, ok, err := store.Load(ctx, domain.SlotFinance)
			if err != nil || !ok || string(got) != `{"v":2}` {
				t.Fatalf("load = %q %v %v", got, ok, err)
			}
			info, rc, err := blobs.Get(ctx, "lifetrack/financeTracker.json")
			if err != nil {
				t.Fatalf("object not at expected key: %v", err)
			}
			_, _ = io.ReadAll(rc)
			_ = rc.Close()
			if info.ContentType != "application/json" {
				t.Fatalf("content type = %q", info.ContentType)
			}
			if err := store.Remove(ctx, domain.SlotFinance); err != nil {
				t.Fatalf("remove: %v", err)
			}
			if err := store.Remove(ctx, domain.SlotFinance); err != nil {
				t.Fatalf("removing an absent slot should succeed: %v", err)
			}
			if _, ok, _ := store.Load(ctx, domain.SlotFinance); ok {
				t.Fatalf("slot should be empty after remove")
			}
		})
	}
}

func TestSlotGuards(t *testing.T) {
	ctx := context.Background()
	if _, err := New(nil, ""); err == nil {
		t.Fatalf("expected error for nil blob store")
	}
	store, _ := New(memory.New(), "")
	if store.Key("habitTracker") != "habitTracker.json" {
		t.Fatalf("key = %q", store.Key("habitTracker"))
	}
	if _, _, err := store.Load(ctx, " "); !errors.Is(err, domain.ErrEmptySlotKey) {
		t.Fatalf("load blank key: %v", err)
	}
	if err := store.Save(ctx, "", nil); !errors.Is(err, domain.ErrEmptySlotKey) {
		t.Fatalf("save blank key: %v", err)
	}
	if err := store.Remove(ctx, ""); !errors.Is(err, domain.ErrEmptySlotKey) {
		t.Fatalf("remove blank key: %v", err)
	}
	if store.Driver() != core.DriverMemory || store.Close() != nil {
		t.Fatalf("unexpected driver or close result")
	}
}
