package pricing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cryptostore/internal/metrics"
)

// QuoteFetcher is the quote-feed client consumed by the refresher.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, ids []string) (map[string]Quote, error)
	Name() string
}

// Refresher periodically pulls quotes for the whole catalog and applies
// them to the store. It is the store's only writer. A failed fetch is
// logged and counted; the store keeps its previous values until the next
// tick. No retry, no backoff.
type Refresher struct {
	store    *Store
	fetcher  QuoteFetcher
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRefresher(store *Store, fetcher QuoteFetcher, interval time.Duration, logger *zap.Logger) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Refresher{
		store:    store,
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
	}
}

// Start performs one immediate best-effort refresh, then ticks until the
// context is cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.refresh(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Price refresh loop stopped")
				return
			case <-ticker.C:
				r.refresh(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Refresher) refresh(ctx context.Context) {
	ids := r.store.ProviderIDs()

	quotes, err := r.fetcher.FetchQuotes(ctx, ids)
	if err != nil {
		metrics.PriceRefreshTotal.WithLabelValues("error").Inc()
		r.logger.Warn("Price refresh failed, keeping stale prices",
			zap.String("provider", r.fetcher.Name()),
			zap.Error(err))
		return
	}

	r.store.Apply(quotes)
	metrics.PriceRefreshTotal.WithLabelValues("success").Inc()
	metrics.PriceLastRefreshTimestamp.SetToCurrentTime()
	r.logger.Info("Prices refreshed",
		zap.String("provider", r.fetcher.Name()),
		zap.Int("coins", len(quotes)))
}
