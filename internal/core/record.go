package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lifetrack/pkg/domain"
)

// recordCodec describes how a store builds, repairs and copies its record.
type recordCodec[R any] struct {
	fresh     func(now time.Time) R
	normalize func(*R)
	clone     func(R) R
}

// recordStore owns one record mirrored to one slot. Mutations run clone,
// apply and swap under the write lock and persist before releasing it, so
// the slot always holds the last committed record.
type recordStore[R any] struct {
	mu    sync.RWMutex
	slot  string
	slots domain.SlotStore
	codec recordCodec[R]
	opts  storeOptions
	rec   R
}

func openRecordStore[R any](ctx context.Context, slot string, slots domain.SlotStore, codec recordCodec[R], opts []Option) (*recordStore[R], error) {
	if slots == nil {
		return nil, fmt.Errorf("open %s: slot store required", slot)
	}
	s := &recordStore[R]{
		slot:  slot,
		slots: slots,
		codec: codec,
		opts:  applyOptions(opts),
	}
	payload, ok, err := slots.Load(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", slot, err)
	}
	now := s.opts.clock.Now()
	if !ok {
		s.rec = codec.fresh(now)
		return s, nil
	}
	rec, err := decodeOverDefault(payload, codec.fresh(now))
	if err != nil {
		s.opts.logger.Warn("discarding unreadable slot", "slot", slot, "error", err)
		rec = codec.fresh(now)
	}
	codec.normalize(&rec)
	s.rec = rec
	return s, nil
}

// decodeOverDefault overlays the top-level fields present in payload onto
// def. Nested values are taken wholesale from payload; null fields keep the
// default.
func decodeOverDefault[R any](payload []byte, def R) (R, error) {
	var zero R
	var saved map[string]json.RawMessage
	if err := json.Unmarshal(payload, &saved); err != nil {
		return zero, err
	}
	base, err := json.Marshal(def)
	if err != nil {
		return zero, err
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return zero, err
	}
	for key, raw := range saved {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		merged[key] = raw
	}
	buf, err := json.Marshal(merged)
	if err != nil {
		return zero, err
	}
	var out R
	if err := json.Unmarshal(buf, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// view runs fn against the current record under the read lock. fn must not
// retain or modify the record.
func (s *recordStore[R]) view(fn func(r *R)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.rec)
}

func (s *recordStore[R]) snapshot() R {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codec.clone(s.rec)
}

func (s *recordStore[R]) now() time.Time { return s.opts.clock.Now() }

func (s *recordStore[R]) newID() string { return s.opts.newID() }

// mutate applies fn to a copy of the record. When fn reports a change the
// copy replaces the record and is saved to the slot.
func (s *recordStore[R]) mutate(ctx context.Context, op string, fn func(r *R) bool) (err error) {
	ctx, span := s.opts.tracer.Start(ctx, op)
	started := time.Now()
	defer func() {
		s.opts.metrics.Observe(ctx, op, err == nil, time.Since(started))
		span.End(err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.codec.clone(s.rec)
	if !fn(&next) {
		s.opts.logger.Debug("store mutation skipped", "slot", s.slot, "op", op)
		return nil
	}
	s.rec = next
	s.opts.logger.Debug("store mutation applied", "slot", s.slot, "op", op)
	return s.persistLocked(ctx, op)
}

func (s *recordStore[R]) persistLocked(ctx context.Context, op string) error {
	payload, err := json.Marshal(s.rec)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", op, s.slot, err)
	}
	if err := s.slots.Save(ctx, s.slot, payload); err != nil {
		s.opts.logger.Error("persist record failed", "slot", s.slot, "op", op, "error", err)
		return fmt.Errorf("%s: save %s: %w", op, s.slot, err)
	}
	return nil
}

// reset replaces the record with a freshly built default and clears the slot.
func (s *recordStore[R]) reset(ctx context.Context, op string) (err error) {
	ctx, span := s.opts.tracer.Start(ctx, op)
	started := time.Now()
	defer func() {
		s.opts.metrics.Observe(ctx, op, err == nil, time.Since(started))
		span.End(err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = s.codec.fresh(s.opts.clock.Now())
	if err := s.slots.Remove(ctx, s.slot); err != nil {
		s.opts.logger.Error("clear slot failed", "slot", s.slot, "error", err)
		return fmt.Errorf("%s: remove %s: %w", op, s.slot, err)
	}
	s.opts.logger.Info("store reset", "slot", s.slot)
	return nil
}
