package store

import (
	"context"
	"errors"

	"sjsage522/pricetracker/internal/tracker"
)

// ErrNotFound is returned when no observation exists for a URL
var ErrNotFound = errors.New("observation not found")

// Storer is the durable record of the last known state per monitored item
type Storer interface {
	// Get returns the observation for a URL, or ErrNotFound
	Get(ctx context.Context, url string) (*tracker.Observation, error)

	// Upsert inserts or replaces the observation for its URL.
	// Calling it twice with the same observation is a no-op the second time.
	Upsert(ctx context.Context, obs tracker.Observation) error

	// Close releases the underlying resources
	Close() error
}
