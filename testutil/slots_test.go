package testutil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFailingSlotStoreToggles(t *testing.T) {
	ctx := context.Background()
	s := NewFailingSlotStore()
	if err := s.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.FailSave(true)
	if err := s.Save(ctx, "k", []byte("w")); !errors.Is(err, ErrInjected) {
		t.Fatalf("expected injected save error, got %v", err)
	}
	s.FailLoad(true)
	if _, _, err := s.Load(ctx, "k"); !errors.Is(err, ErrInjected) {
		t.Fatalf("expected injected load error, got %v", err)
	}
	s.FailLoad(false)
	got, ok, err := s.Load(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("load = %q %v %v", got, ok, err)
	}
	s.FailRemove(true)
	if err := s.Remove(ctx, "k"); !errors.Is(err, ErrInjected) {
		t.Fatalf("expected injected remove error, got %v", err)
	}
	if s.Saves() != 1 {
		t.Fatalf("saves = %d", s.Saves())
	}
}

func TestClock(t *testing.T) {
	c := Date(2025, time.February, 1)
	c.Advance(24 * time.Hour)
	if got := c.Now().Day(); got != 2 {
		t.Fatalf("day = %d", got)
	}
	c.Set(time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC))
	if c.Now().Year() != 2030 {
		t.Fatalf("set failed")
	}
}

func TestImportGuards(t *testing.T) {
	cases := map[string]bool{
		"lifetrack/internal/core": true,
		"lifetrack/pkg/domain":    false,
		"context":                 false,
	}
	for path, want := range cases {
		if got := InternalImportForbidden(path); got != want {
			t.Fatalf("InternalImportForbidden(%q) = %v", path, got)
		}
	}
	if !DomainImportForbidden("lifetrack/pkg/domain") || DomainImportForbidden("lifetrack/pkg/calendar") {
		t.Fatalf("DomainImportForbidden mismatch")
	}
	AssertNoDirectImports(t, ".", func(p string) bool { return p == "net/http" }, "testutil stays transport-free")
}
