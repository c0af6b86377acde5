package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is missing from storage.
var ErrNotFound = errors.New("storage: record not found")

// Store represents the root storage interface.
type Store interface {
	Close() error
	Passages() PassageStore
	Charges() ChargeStore
}

// PassageStore manages recorded toll point passages.
// Dates are local calendar days in "2006-01-02" form.
type PassageStore interface {
	// Record reports whether the passage was new; an existing ID is left untouched.
	Record(ctx context.Context, passage Passage) (bool, error)
	ListForDay(ctx context.Context, date string, plate string) ([]Passage, error)
	ListVehicles(ctx context.Context, date string) ([]string, error)
	DeleteBefore(ctx context.Context, cutoffDate string) (int, error)
}

// ChargeStore manages computed daily charges.
type ChargeStore interface {
	Put(ctx context.Context, charge DailyCharge) error
	Get(ctx context.Context, date string, plate string) (*DailyCharge, error)
	ListForDay(ctx context.Context, date string) ([]DailyCharge, error)
}
