package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"memorial-platform/internal/infra/metrics"
	"memorial-platform/internal/usecase"
)

// ExpiryWorker periodically marks grants past their end date as expired and
// refreshes the subscription gauges.
type ExpiryWorker struct {
	interval time.Duration
	subUC    *usecase.SubscriptionUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subUC *usecase.SubscriptionUseCase, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		subUC:    subUC,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subUC.FinishExpired(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
				continue
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int("count", n).Msg("expired grants finished")
			}
			if err := w.subUC.RefreshGauges(ctx); err != nil {
				w.log.Warn().Err(err).Msg("gauge refresh failed")
			}
		}
	}
}
