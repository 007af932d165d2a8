// Package blobslot stores slots as JSON objects in a blob store, one object
// per slot under <prefix><slot>.json.
package blobslot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"lifetrack/internal/blob/core"
	"lifetrack/pkg/domain"
)

const contentType = "application/json"

// Store adapts a core.Store into a domain.SlotStore.
type Store struct {
	blobs  core.Store
	prefix string
}

// New wraps blobs. prefix is prepended verbatim to every object key.
func New(blobs core.Store, prefix string) (*Store, error) {
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &Store{blobs: blobs, prefix: prefix}, nil
}

// Key returns the object key used for slot.
func (s *Store) Key(slot string) string { return s.prefix + slot + ".json" }

// Driver reports the underlying blob driver.
func (s *Store) Driver() core.Driver { return s.blobs.Driver() }

// Load reads the slot object. A missing object is an empty slot.
func (s *Store) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	if strings.TrimSpace(slot) == "" {
		return nil, false, domain.ErrEmptySlotKey
	}
	_, rc, err := s.blobs.Get(ctx, s.Key(slot))
	if errors.Is(err, core.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", s.Key(slot), err)
	}
	defer func() { _ = rc.Close() }()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", s.Key(slot), err)
	}
	return payload, true, nil
}

// Save replaces the slot object.
func (s *Store) Save(ctx context.Context, slot string, payload []byte) error {
	if strings.TrimSpace(slot) == "" {
		return domain.ErrEmptySlotKey
	}
	if _, err := s.blobs.Put(ctx, s.Key(slot), bytes.NewReader(payload), core.PutOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("put %s: %w", s.Key(slot), err)
	}
	return nil
}

// Remove deletes the slot object if present.
func (s *Store) Remove(ctx context.Context, slot string) error {
	if strings.TrimSpace(slot) == "" {
		return domain.ErrEmptySlotKey
	}
	if _, err := s.blobs.Delete(ctx, s.Key(slot)); err != nil {
		return fmt.Errorf("delete %s: %w", s.Key(slot), err)
	}
	return nil
}

// Close is a no-op; blob stores hold no resources that need releasing.
func (s *Store) Close() error { return nil }
