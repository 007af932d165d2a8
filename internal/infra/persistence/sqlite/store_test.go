package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"lifetrack/pkg/domain"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "lifetrack.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, ok, err := store.Load(ctx, domain.SlotFinance); err != nil || ok {
		t.Fatalf("expected empty slot: ok=%v err=%v", ok, err)
	}
	if err := store.Save(ctx, domain.SlotFinance, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, domain.SlotFinance, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := store.Load(ctx, domain.SlotFinance)
	if err != nil || !ok || string(got) != `{"a":2}` {
		t.Fatalf("load = %q %v %v", got, ok, err)
	}
	var rows int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&rows); err != nil || rows != 1 {
		t.Fatalf("expected one row, got %d (%v)", rows, err)
	}
	if err := store.Remove(ctx, domain.SlotFinance); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, domain.SlotFinance); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if _, ok, _ := store.Load(ctx, domain.SlotFinance); ok {
		t.Fatalf("expected slot removed")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lifetrack.db")
	first, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Save(ctx, domain.SlotHabits, []byte(`{"habits":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	if second.Path() != path {
		t.Fatalf("path = %s", second.Path())
	}
	got, ok, err := second.Load(ctx, domain.SlotHabits)
	if err != nil || !ok || string(got) != `{"habits":[]}` {
		t.Fatalf("load after reopen = %q %v %v", got, ok, err)
	}
}

func TestStoreEmptyKeyAndClosedDB(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if err := store.Save(ctx, "", nil); !errors.Is(err, domain.ErrEmptySlotKey) {
		t.Fatalf("expected empty key error, got %v", err)
	}
	_ = store.Close()
	if _, _, err := store.Load(ctx, domain.SlotWeekly); err == nil {
		t.Fatalf("expected error on closed database")
	}
	if err := store.Save(ctx, domain.SlotWeekly, []byte("{}")); err == nil {
		t.Fatalf("expected save error on closed database")
	}
}
