package crawler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Relay is the sole writer to durable storage during a crawl. It drains
// the results channel in arrival order, keeping storage latency off the
// fetch critical path. Closing the channel is the stop signal.
type Relay struct {
	store  ResultStore
	logger *zap.Logger
}

// NewRelay constructs a persistence relay over store.
func NewRelay(store ResultStore, logger *zap.Logger) *Relay {
	return &Relay{store: store, logger: logger}
}

// Run consumes results until the channel is closed. A storage failure is
// fatal: silent data loss is unacceptable, so the error propagates to the
// orchestrator instead of being swallowed.
func (r *Relay) Run(ctx context.Context, results <-chan Result) error {
	var fatal error
	for res := range results {
		if fatal != nil {
			// Keep draining so producers never block on a dead relay;
			// the first failure is what gets reported.
			continue
		}
		if err := r.store.Insert(ctx, res); err != nil {
			fatal = fmt.Errorf("persist result for %s: %w", res.URL, err)
			r.logger.Error("storage insert failed", zap.String("url", res.URL), zap.Error(err))
			continue
		}
		ResultsPersisted.Inc()
		r.logger.Debug("result persisted",
			zap.String("url", res.URL), zap.String("outcome", string(res.Outcome)))
	}
	return fatal
}
