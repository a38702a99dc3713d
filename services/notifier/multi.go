package notifier

import (
	"context"
	"errors"
)

// MultiNotifier fans an alert out to every configured channel. A failing
// channel never prevents delivery to the others; all failures are joined
// into the returned error.
type MultiNotifier struct {
	notifiers []Notifier
}

var _ Notifier = (*MultiNotifier)(nil)

// NewMultiNotifier creates a notifier that delivers to all given channels.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify delivers the alert to every channel.
func (m *MultiNotifier) Notify(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every channel, joining any errors.
func (m *MultiNotifier) Close() error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
