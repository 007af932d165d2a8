package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"lifetrack/internal/infra/persistence/memory"
)

// ErrInjected is returned by FailingSlotStore for operations set to fail.
var ErrInjected = errors.New("injected slot failure")

// FailingSlotStore wraps an in-memory slot store and fails selected
// operations on demand.
type FailingSlotStore struct {
	*memory.Store

	mu         sync.Mutex
	failLoad   bool
	failSave   bool
	failRemove bool
	saves      int
}

// NewFailingSlotStore returns a store that succeeds until told otherwise.
func NewFailingSlotStore() *FailingSlotStore {
	return &FailingSlotStore{Store: memory.NewStore()}
}

// FailLoad toggles Load failures.
func (f *FailingSlotStore) FailLoad(v bool) { f.mu.Lock(); f.failLoad = v; f.mu.Unlock() }

// FailSave toggles Save failures.
func (f *FailingSlotStore) FailSave(v bool) { f.mu.Lock(); f.failSave = v; f.mu.Unlock() }

// FailRemove toggles Remove failures.
func (f *FailingSlotStore) FailRemove(v bool) { f.mu.Lock(); f.failRemove = v; f.mu.Unlock() }

// Saves counts successful Save calls.
func (f *FailingSlotStore) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// Load implements domain.SlotStore.
func (f *FailingSlotStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failLoad
	f.mu.Unlock()
	if fail {
		return nil, false, ErrInjected
	}
	return f.Store.Load(ctx, key)
}

// Save implements domain.SlotStore.
func (f *FailingSlotStore) Save(ctx context.Context, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return ErrInjected
	}
	if err := f.Store.Save(ctx, key, payload); err != nil {
		return err
	}
	f.saves++
	return nil
}

// Remove implements domain.SlotStore.
func (f *FailingSlotStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failRemove
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Store.Remove(ctx, key)
}

// Clock is a settable clock for tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock fixed at now.
func NewClock(now time.Time) *Clock { return &Clock{now: now} }

// Date returns a clock fixed at noon UTC on the given day.
func Date(year int, month time.Month, day int) *Clock {
	return NewClock(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// Now returns the current fixed time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) { c.mu.Lock(); c.now = t; c.mu.Unlock() }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.mu.Lock(); c.now = c.now.Add(d); c.mu.Unlock() }
