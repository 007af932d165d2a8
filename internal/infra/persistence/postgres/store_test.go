package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"lifetrack/internal/infra/persistence/postgres/testutil"
	"lifetrack/pkg/domain"
)

func openStub(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driverName, _ string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Fatalf("unexpected driver %s", driverName)
		}
		return db, nil
	})
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	_, conn := openStub(t)
	if len(conn.Execs) == 0 || !strings.Contains(conn.Execs[0], "CREATE TABLE IF NOT EXISTS state") {
		t.Fatalf("expected state table DDL, got %v", conn.Execs)
	}
}

func TestStoreSaveLoadRemove(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)

	if _, ok, err := store.Load(ctx, domain.SlotTaskList); err != nil || ok {
		t.Fatalf("expected empty slot: ok=%v err=%v", ok, err)
	}
	if err := store.Save(ctx, domain.SlotTaskList, []byte(`{"tasks":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, domain.SlotFinance, []byte(`{"currentMonth":"2025-06"}`)); err != nil {
		t.Fatalf("save finance: %v", err)
	}
	if err := store.Save(ctx, domain.SlotTaskList, []byte(`{"tasks":[{"id":"1"}]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if n := len(conn.Tables["state"]); n != 2 {
		t.Fatalf("expected 2 rows after upsert, got %d", n)
	}
	got, ok, err := store.Load(ctx, domain.SlotTaskList)
	if err != nil || !ok || string(got) != `{"tasks":[{"id":"1"}]}` {
		t.Fatalf("load = %q %v %v", got, ok, err)
	}
	if err := store.Remove(ctx, domain.SlotTaskList); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, domain.SlotTaskList); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if _, ok, _ := store.Load(ctx, domain.SlotTaskList); ok {
		t.Fatalf("expected task list slot removed")
	}
	if _, ok, _ := store.Load(ctx, domain.SlotFinance); !ok {
		t.Fatalf("finance slot should survive")
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, conn := openStub(t)
	if err := store.Save(ctx, "", nil); !errors.Is(err, domain.ErrEmptySlotKey) {
		t.Fatalf("expected empty key error, got %v", err)
	}
	conn.FailExec = true
	if err := store.Save(ctx, domain.SlotWeekly, []byte("{}")); err == nil {
		t.Fatalf("expected save failure")
	}
	if err := store.Remove(ctx, domain.SlotWeekly); err == nil {
		t.Fatalf("expected remove failure")
	}
	conn.FailQuery = true
	if _, _, err := store.Load(ctx, domain.SlotWeekly); err == nil {
		t.Fatalf("expected load failure")
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), "postgres://example"); err == nil {
		t.Fatalf("expected ping error")
	}
}
