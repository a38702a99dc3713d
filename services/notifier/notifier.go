package notifier

import (
	"context"
	"time"
)

// Alert is one price drop notification ready for delivery.
type Alert struct {
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	CurrentPrice string    `json:"current_price"`
	TargetPrice  string    `json:"target_price"`
	LastPrice    string    `json:"last_price,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Notifier delivers alerts to a channel. Implementations must be safe to
// call while disabled (a no-op success) and must report failures as a
// returned error rather than panicking; the caller only logs them.
type Notifier interface {
	// Notify delivers a single alert
	Notify(ctx context.Context, alert Alert) error

	// Close releases any held connections
	Close() error
}
