package tracker

import (
	"fmt"
	"time"

	trackererr "sjsage522/pricetracker/pkg/errors"
)

// Check runs the alert decision for a single item. It is a pure function:
// the caller is responsible for persisting the returned Observation
// candidate and for dispatching the notification.
//
// An alert fires only when the current price is at or below the target AND
// did not increase relative to the last recorded price. The second clause
// keeps an item that sits below its target from re-alerting forever once
// the price starts climbing back up; a flat repeat at or below target
// still alerts. Both comparisons are inclusive.
func Check(item Item, priceText, nameText string, prior *Observation, now time.Time) (*CheckResult, error) {
	current, ok := NormalizePrice(priceText)
	if !ok {
		return nil, trackererr.NewParsing(item.URL, fmt.Sprintf("unparseable price text %q", priceText), nil)
	}

	name := nameText
	if name == "" {
		name = item.DisplayName()
	}

	result := &CheckResult{
		CurrentPrice: current,
		ResolvedName: name,
		NewObservation: Observation{
			URL:           item.URL,
			Name:          name,
			TargetPrice:   item.TargetPrice,
			LastPrice:     current,
			LastCheckedAt: now,
		},
	}

	if current.LessThanOrEqual(item.TargetPrice) {
		if prior == nil {
			result.AlertTriggered = true
			result.AlertReason = fmt.Sprintf(
				"price %s is at or below target %s (no prior observation)",
				current, item.TargetPrice)
		} else if current.LessThanOrEqual(prior.LastPrice) {
			result.AlertTriggered = true
			result.AlertReason = fmt.Sprintf(
				"price %s is at or below target %s and down from %s",
				current, item.TargetPrice, prior.LastPrice)
		}
	}

	return result, nil
}
