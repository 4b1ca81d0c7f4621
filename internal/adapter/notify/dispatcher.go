package notify

import (
	"context"

	"numrent-admin-core/internal/core/ports"

	"github.com/rs/zerolog"
)

// Dispatcher fans a notification out to every configured notifier.
// Individual failures are logged and swallowed so one broken channel
// never hides a delivery on another.
type Dispatcher struct {
	notifiers []ports.Notifier
	log       zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given notifiers.
func NewDispatcher(log zerolog.Logger, notifiers ...ports.Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, log: log}
}

// Notify delivers to all channels. It always returns nil; the ledger
// treats notification as best-effort.
func (d *Dispatcher) Notify(ctx context.Context, event ports.Notification) error {
	for _, n := range d.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("account_id", event.AccountID).
				Str("kind", string(event.Kind)).
				Msg("notification delivery failed")
		}
	}
	return nil
}
