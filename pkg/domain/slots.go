// Package domain defines the tracker records, their documented defaults, and
// the persistence-slot contract the stores write them through.
package domain

import (
	"context"
	"errors"
)

// Slot keys. Each tracker owns exactly one slot and the names match the keys
// used by the browser build, so an exported localStorage payload can be
// written into any backend unchanged.
const (
	SlotWeekly   = "weeklyTaskTracker"
	SlotHabits   = "habitTracker"
	SlotTaskList = "taskListTracker"
	SlotFinance  = "financeTracker"
)

// Slots lists every slot key in a stable order.
var Slots = []string{SlotWeekly, SlotHabits, SlotTaskList, SlotFinance}

// SlotStore is a key-value byte store holding one serialized record per key.
type SlotStore interface {
	// Load returns the payload stored under key. ok is false when the slot is empty.
	Load(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Save replaces the payload stored under key.
	Save(ctx context.Context, key string, payload []byte) error
	// Remove clears the slot. Removing an empty slot is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ErrEmptySlotKey is returned by slot stores for a blank key.
var ErrEmptySlotKey = errors.New("slot key required")

// ErrUnknownDriver is returned when configuration names no known slot store backend.
var ErrUnknownDriver = errors.New("unknown storage driver")
