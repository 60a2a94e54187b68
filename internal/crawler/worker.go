package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// errorTitle is the fixed title recorded for failed fetches.
	errorTitle = "Error"

	// selectiveDepth is the traversal depth at which link selection
	// switches from exhaustive expansion to scored selection. Shallow
	// pages are cheap to explore; deep traversal must be selective to
	// bound blow-up.
	selectiveDepth = 2

	// shallowLinkCap bounds unconditional expansion at depths 0-1.
	shallowLinkCap = 50

	defaultNavTimeout = 20 * time.Second
)

// Worker is one member of the fetch pool. It loops on the frontier until
// it dequeues a poison pill. Per-item failures are recorded as failed
// results and are never fatal to the worker or the crawl.
type Worker struct {
	id         int
	sessionID  string
	frontier   *Frontier
	visited    *Visited
	robots     RobotsPolicy
	scorer     *LinkScorer
	results    chan<- Result
	navTimeout time.Duration
	logger     *zap.Logger
}

// NewWorker constructs a fetch worker.
func NewWorker(
	id int,
	sessionID string,
	frontier *Frontier,
	visited *Visited,
	robots RobotsPolicy,
	scorer *LinkScorer,
	results chan<- Result,
	navTimeout time.Duration,
	logger *zap.Logger,
) *Worker {
	if navTimeout <= 0 {
		navTimeout = defaultNavTimeout
	}
	return &Worker{
		id:         id,
		sessionID:  sessionID,
		frontier:   frontier,
		visited:    visited,
		robots:     robots,
		scorer:     scorer,
		results:    results,
		navTimeout: navTimeout,
		logger:     logger.With(zap.Int("worker_id", id)),
	}
}

// Run consumes frontier items until a poison pill arrives. The worker owns
// session for its entire lifetime and closes it on exit.
func (w *Worker) Run(ctx context.Context, session RenderSession) {
	defer func() {
		if err := session.Close(); err != nil {
			w.logger.Warn("close render session failed", zap.Error(err))
		}
	}()

	for {
		item, stop := w.frontier.Dequeue()
		if stop {
			w.frontier.Done()
			return
		}
		if !w.visited.CheckAndMark(item.URL) {
			DuplicatesSkipped.Inc()
			w.frontier.Done()
			continue
		}
		w.process(ctx, session, item)
		w.frontier.Done()
	}
}

func (w *Worker) process(ctx context.Context, session RenderSession, item Item) {
	navCtx, cancel := context.WithTimeout(ctx, w.navTimeout)
	defer cancel()

	page, err := session.Navigate(navCtx, item.URL)
	if err != nil {
		PagesFailed.Inc()
		w.logger.Warn("fetch failed",
			zap.String("url", item.URL), zap.Int("depth", item.Depth), zap.Error(err))
		w.results <- Result{
			SessionID: w.sessionID,
			URL:       item.URL,
			Title:     errorTitle,
			Content:   err.Error(),
			Depth:     item.Depth,
			Outcome:   OutcomeFailed,
		}
		return
	}

	PagesCrawled.Inc()
	w.results <- Result{
		SessionID: w.sessionID,
		URL:       item.URL,
		Title:     page.Title,
		Content:   page.Text,
		Depth:     item.Depth,
		Outcome:   OutcomeSuccess,
	}

	if item.Depth >= item.MaxDepth {
		return
	}
	w.expand(ctx, item, page)
}

// expand discovers and enqueues child links for one successfully fetched
// page. Extraction errors drop expansion for the item but keep its result.
func (w *Worker) expand(ctx context.Context, item Item, page Page) {
	links, err := ExtractLinks(page.HTML, item.URL)
	if err != nil {
		w.logger.Warn("link extraction failed", zap.String("url", item.URL), zap.Error(err))
		return
	}

	allowed := links[:0:0]
	for _, link := range links {
		if !w.robots.Allowed(ctx, link) {
			RobotsBlocked.Inc()
			continue
		}
		allowed = append(allowed, link)
	}

	var targets []string
	if item.Depth < selectiveDepth {
		if len(allowed) > shallowLinkCap {
			allowed = allowed[:shallowLinkCap]
		}
		targets = allowed
	} else {
		// Scoring reads the live visited set, so it runs under the
		// registry lock.
		w.visited.WithSeen(func(seen map[string]struct{}) {
			targets = w.scorer.Best(allowed, seen)
		})
	}

	for _, target := range targets {
		w.frontier.Enqueue(Item{URL: target, Depth: item.Depth + 1, MaxDepth: item.MaxDepth})
		LinksEnqueued.Inc()
	}
	w.logger.Debug("expanded page",
		zap.String("url", item.URL),
		zap.Int("discovered", len(links)),
		zap.Int("enqueued", len(targets)))
}
