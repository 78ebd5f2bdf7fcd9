// Package usage tracks interaction counts per (scope, calendar day) so quota
// ceilings can be enforced across sessions and across instances.
package usage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidStoreType = errors.New("invalid usage store type")
	ErrInvalidConfig    = errors.New("invalid usage store config")
)

// Store is an aggregate counter keyed by (scope, day). Increment must be
// atomic per key: concurrent callers never observe the same count twice.
type Store interface {
	// Increment adds one to the counter and returns the new count.
	Increment(ctx context.Context, scope string, day time.Time) (int64, error)

	// Get returns the current count, zero when the key has never been touched.
	Get(ctx context.Context, scope string, day time.Time) (int64, error)

	Close() error
}

// DayKey truncates a timestamp to its calendar day in UTC.
func DayKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey truncates a timestamp to the first day of its month in UTC.
// Monthly ceilings are stored as a single counter on that day.
func MonthKey(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
