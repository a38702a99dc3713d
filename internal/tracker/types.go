package tracker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	trackererr "sjsage522/pricetracker/pkg/errors"
)

// Item is one configured product to monitor, identified by its URL.
type Item struct {
	URL           string
	Name          string
	TargetPrice   decimal.Decimal
	PriceSelector string
	NameSelector  string
}

// Validate checks that the item carries everything a price check needs.
// An invalid item is skipped entirely, it is never partially processed.
func (i Item) Validate() error {
	if i.URL == "" {
		return trackererr.NewValidation(i.Name, "missing url")
	}
	if i.PriceSelector == "" {
		return trackererr.NewValidation(i.URL, "missing price_selector")
	}
	if !i.TargetPrice.IsPositive() {
		return trackererr.NewValidation(i.URL, "missing or non-positive target_price")
	}
	return nil
}

// DisplayName returns the configured fallback label for logs and alerts.
func (i Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.URL
}

// Observation is the durable last-known state for one item, keyed by URL.
type Observation struct {
	URL           string
	Name          string
	TargetPrice   decimal.Decimal
	LastPrice     decimal.Decimal
	LastCheckedAt time.Time
}

// CheckResult is the outcome of a single price check. It is transient;
// only the Observation candidate inside it is persisted.
type CheckResult struct {
	CurrentPrice   decimal.Decimal
	ResolvedName   string
	AlertTriggered bool
	AlertReason    string
	NewObservation Observation
}

// PageFetcher retrieves raw page markup for a URL. The readySelector tells
// rendering backends which element must be present before the page counts
// as loaded; plain HTTP backends may ignore it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, readySelector string) ([]byte, error)
}

// FieldExtractor locates a single text field inside page markup.
// Absence is reported via the bool, never as an error.
type FieldExtractor interface {
	Extract(markup []byte, locator string) (string, bool)
}
