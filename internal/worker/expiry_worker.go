package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/sse"
)

var expiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inventory_expired_total",
	Help: "Rows moved to an expired state by the expiry worker",
}, []string{"resource"})

// UserExpirer expires seats whose batch has ended.
type UserExpirer interface {
	ExpireEnded(ctx context.Context, now time.Time) ([]int, error)
}

// AccountDeactivator deactivates accounts whose subscription has ended.
type AccountDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) ([]int, error)
}

// ChangeRecorder receives the ids changed by a run.
type ChangeRecorder interface {
	Changed(ctx context.Context, event sse.EventType, resource models.Resource, ids ...int)
}

// ExpiryWorker periodically expires ended batches and subscriptions.
type ExpiryWorker struct {
	users    UserExpirer
	accounts AccountDeactivator
	events   ChangeRecorder
	interval time.Duration
	now      func() time.Time
}

// NewExpiryWorker constructs an ExpiryWorker.
func NewExpiryWorker(users UserExpirer, accounts AccountDeactivator, events ChangeRecorder, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		users:    users,
		accounts: accounts,
		events:   events,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs once immediately, then on every tick until ctx is canceled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Expiry worker stopped")
			return
		}
	}
}

func (w *ExpiryWorker) run(ctx context.Context) {
	now := w.now()

	users, err := w.users.ExpireEnded(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire account users")
	} else if len(users) > 0 {
		expiredTotal.WithLabelValues(string(models.ResourceProductAccountUser)).Add(float64(len(users)))
		w.events.Changed(ctx, sse.EventResourceUpdated, models.ResourceProductAccountUser, users...)
	}

	accounts, err := w.accounts.DeactivateExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deactivate expired product accounts")
	} else if len(accounts) > 0 {
		expiredTotal.WithLabelValues(string(models.ResourceProductAccount)).Add(float64(len(accounts)))
		w.events.Changed(ctx, sse.EventResourceUpdated, models.ResourceProductAccount, accounts...)
	}

	if len(users) > 0 || len(accounts) > 0 {
		log.Info().
			Int("expired_users", len(users)).
			Int("deactivated_accounts", len(accounts)).
			Msg("Expiry run completed")
	}
}
