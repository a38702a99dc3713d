package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sjsage522/pricetracker/internal/tracker"
	"sjsage522/pricetracker/logger"
	"sjsage522/pricetracker/services/notifier"
	"sjsage522/pricetracker/services/store"
)

// Worker drives the price check cycle across all configured items.
// Items are processed one at a time in configured order, with a pacing
// delay between them; one item's failure never aborts the cycle.
type Worker struct {
	items     []tracker.Item
	fetcher   tracker.PageFetcher
	extractor tracker.FieldExtractor
	store     store.Storer
	notifier  notifier.Notifier
	log       *logger.Logger
	interval  time.Duration
	delay     time.Duration
}

// NewWorker creates a new worker
func NewWorker(
	items []tracker.Item,
	fetcher tracker.PageFetcher,
	extractor tracker.FieldExtractor,
	storer store.Storer,
	n notifier.Notifier,
	interval time.Duration,
	delay time.Duration,
) *Worker {
	return &Worker{
		items:     items,
		fetcher:   fetcher,
		extractor: extractor,
		store:     storer,
		notifier:  n,
		log:       logger.ForWorker(),
		interval:  interval,
		delay:     delay,
	}
}

// Start runs an immediate first cycle and then repeats on the configured
// interval until the context is cancelled. A non-positive interval runs
// exactly one cycle and returns; that is a valid operating mode, not an
// error.
func (w *Worker) Start(ctx context.Context) error {
	w.RunCycle(ctx)

	if w.interval <= 0 {
		w.log.Info().Msg("Non-positive interval, finished after a single cycle")
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle performs one pass over all configured items. Invalid items are
// skipped outright and do not count toward the pacing delay.
func (w *Worker) RunCycle(ctx context.Context) {
	start := time.Now()
	w.log.Info().Int("items", len(w.items)).Msg("Starting price check cycle")

	first := true
	checked := 0
	for _, item := range w.items {
		if ctx.Err() != nil {
			w.log.Warn().Msg("Cycle interrupted")
			return
		}

		if err := item.Validate(); err != nil {
			w.log.Warn().Err(err).Str("item", item.DisplayName()).Msg("Skipping invalid item")
			continue
		}

		if !first && !w.pause(ctx) {
			return
		}
		first = false

		w.checkItem(ctx, item)
		checked++
	}

	w.log.Info().
		Int("checked", checked).
		Dur("elapsed", time.Since(start)).
		Msg("Completed price check cycle")
}

// pause waits out the inter-item pacing delay, returning false when the
// context is cancelled first.
func (w *Worker) pause(ctx context.Context) bool {
	if w.delay <= 0 {
		return true
	}
	timer := time.NewTimer(w.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// checkItem runs the full pipeline for one item: fetch, extract, decide,
// notify, persist. Every failure is logged with item identity and ends
// processing of this item only.
func (w *Worker) checkItem(ctx context.Context, item tracker.Item) {
	log := w.log.WithField("item", item.URL)

	markup, err := w.fetcher.Fetch(ctx, item.URL, item.PriceSelector)
	if err != nil {
		log.Error().Err(err).Msg("Fetch failed")
		return
	}

	priceText, ok := w.extractor.Extract(markup, item.PriceSelector)
	if !ok {
		log.Error().Str("selector", item.PriceSelector).Msg("Price element not found")
		return
	}
	// Name absence is not an error; the engine falls back to the
	// configured display name.
	nameText, _ := w.extractor.Extract(markup, item.NameSelector)

	prior, err := w.store.Get(ctx, item.URL)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Msg("Store read failed, proceeding without history")
		prior = nil
	}

	result, err := tracker.Check(item, priceText, nameText, prior, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("Price check failed")
		return
	}

	event := log.Info().
		Str("name", result.ResolvedName).
		Str("current", result.CurrentPrice.String()).
		Str("target", item.TargetPrice.String()).
		Bool("alert", result.AlertTriggered)
	if prior != nil {
		event = event.Str("last", prior.LastPrice.String())
	}
	event.Msg("Price checked")

	if result.AlertTriggered {
		// Fire-and-forget: delivery never blocks the cycle and its
		// outcome is only logged.
		go w.dispatch(buildAlert(item, result, prior))
	}

	if err := w.store.Upsert(ctx, result.NewObservation); err != nil {
		log.Error().Err(err).Msg("Failed to persist observation")
	}
}

// dispatch delivers one alert on its own deadline, detached from the
// cycle's context.
func (w *Worker) dispatch(alert notifier.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.notifier.Notify(ctx, alert); err != nil {
		w.log.Error().Err(err).Str("item", alert.URL).Msg("Alert delivery failed")
		return
	}
	w.log.Info().Str("item", alert.URL).Str("subject", alert.Subject).Msg("Alert delivered")
}

func buildAlert(item tracker.Item, result *tracker.CheckResult, prior *tracker.Observation) notifier.Alert {
	lastKnown := "none"
	lastField := ""
	if prior != nil {
		lastKnown = prior.LastPrice.String()
		lastField = lastKnown
	}

	subject := fmt.Sprintf("Price Alert: %s is now %s!", result.ResolvedName, result.CurrentPrice)
	body := fmt.Sprintf(
		"Price drop detected for %q!\n\nCurrent Price: %s\nTarget Price: %s\nLast Known Price: %s\n\nURL: %s",
		result.ResolvedName, result.CurrentPrice, item.TargetPrice, lastKnown, item.URL)

	return notifier.Alert{
		Subject:      subject,
		Body:         body,
		URL:          item.URL,
		Name:         result.ResolvedName,
		CurrentPrice: result.CurrentPrice.String(),
		TargetPrice:  item.TargetPrice.String(),
		LastPrice:    lastField,
		CheckedAt:    result.NewObservation.LastCheckedAt,
	}
}
