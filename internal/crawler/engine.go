package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const previewLen = 500

// Config captures the knobs that shape one crawl invocation.
type Config struct {
	Workers       int
	NavTimeout    time.Duration
	LinkLimit     int
	ResultsBuffer int
	MaxDepth      int
}

// normalized fills in defaults for zero values.
func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = 6
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = defaultNavTimeout
	}
	if c.LinkLimit <= 0 {
		c.LinkLimit = defaultLinkLimit
	}
	if c.ResultsBuffer <= 0 {
		c.ResultsBuffer = 64
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	return c
}

// ReportWriter persists crawl artifacts to an output directory.
type ReportWriter interface {
	Write(dir string, summary Summary) ([]string, error)
}

// Engine owns the crawl lifecycle: it seeds the frontier, runs the worker
// pool and the persistence relay, waits for the drain-then-sentinel
// shutdown, and assembles the final summary from storage.
type Engine struct {
	cfg      Config
	renderer Renderer
	store    ResultStore
	robots   RobotsPolicy
	reports  ReportWriter
	logger   *zap.Logger
}

// NewEngine constructs an Engine. robots may be nil, in which case a fresh
// RobotsGate is built for each crawl so policy caches never outlive one
// invocation. reports may be nil to disable file artifacts.
func NewEngine(
	cfg Config,
	renderer Renderer,
	store ResultStore,
	robots RobotsPolicy,
	reports ReportWriter,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg.normalized(),
		renderer: renderer,
		store:    store,
		robots:   robots,
		reports:  reports,
		logger:   logger,
	}
}

// Crawl runs one seed to completion and returns its summary. The returned
// error is non-nil only for orchestration-level failures (a blocked seed
// is a terminal status, not an error).
func (e *Engine) Crawl(ctx context.Context, req Request) (Summary, error) {
	start := time.Now()
	cfg := e.cfg

	seed, err := NormalizeURL(req.SeedURL)
	if err != nil || !(strings.HasPrefix(seed, "http://") || strings.HasPrefix(seed, "https://")) {
		if err == nil {
			err = fmt.Errorf("seed %q is not an http(s) url", req.SeedURL)
		}
		return Summary{URL: req.SeedURL, Status: StatusError}, fmt.Errorf("invalid seed url: %w", err)
	}

	sessionID := uuid.NewString()
	logger := e.logger.With(zap.String("session_id", sessionID))

	robots := e.robots
	if robots == nil {
		robots = NewRobotsGate(logger)
	}
	if !robots.Allowed(ctx, seed) {
		logger.Info("seed disallowed by robots", zap.String("url", seed))
		return Summary{URL: seed, Status: StatusBlocked, SessionID: sessionID}, nil
	}

	maxDepth := 0
	if req.Recursive {
		maxDepth = req.MaxDepth
		if maxDepth <= 0 {
			maxDepth = cfg.MaxDepth
		}
	}

	sessions, err := e.openSessions(ctx, cfg.Workers)
	if err != nil {
		return Summary{URL: seed, Status: StatusError, SessionID: sessionID},
			fmt.Errorf("start render sessions: %w", err)
	}

	frontier := NewFrontier()
	visited := NewVisited()
	scorer := NewLinkScorer(cfg.LinkLimit)
	results := make(chan Result, cfg.ResultsBuffer)

	relayErr := make(chan error, 1)
	go func() {
		relayErr <- NewRelay(e.store, logger).Run(ctx, results)
	}()

	var wg sync.WaitGroup
	for i, session := range sessions {
		worker := NewWorker(i, sessionID, frontier, visited, robots, scorer, results, cfg.NavTimeout, logger)
		wg.Add(1)
		go func(s RenderSession) {
			defer wg.Done()
			worker.Run(ctx, s)
		}(session)
	}

	frontier.Enqueue(Item{URL: seed, Depth: 0, MaxDepth: maxDepth})

	frontier.Join()
	for range sessions {
		frontier.EnqueueStop()
	}
	wg.Wait()

	close(results)
	if err := <-relayErr; err != nil {
		return Summary{URL: seed, Status: StatusError, SessionID: sessionID},
			fmt.Errorf("persistence relay: %w", err)
	}

	records, err := e.store.ListBySession(ctx, sessionID)
	if err != nil {
		return Summary{URL: seed, Status: StatusError, SessionID: sessionID},
			fmt.Errorf("read back session: %w", err)
	}

	summary := e.assemble(seed, sessionID, records, time.Since(start))
	if e.reports != nil && req.OutputDir != "" {
		saved, err := e.reports.Write(req.OutputDir, summary)
		if err != nil {
			return summary, fmt.Errorf("write report artifacts: %w", err)
		}
		summary.SavedFiles = saved
	}

	logger.Info("crawl finished",
		zap.String("url", seed),
		zap.Int("pages", summary.PagesCrawled),
		zap.Float64("duration_seconds", summary.DurationSeconds))
	return summary, nil
}

// Close tears down the renderer.
func (e *Engine) Close() error {
	if e.renderer == nil {
		return nil
	}
	return e.renderer.Close()
}

// openSessions opens one render session per worker, unwinding on failure.
func (e *Engine) openSessions(ctx context.Context, n int) ([]RenderSession, error) {
	sessions := make([]RenderSession, 0, n)
	for i := 0; i < n; i++ {
		session, err := e.renderer.NewSession(ctx)
		if err != nil {
			for _, s := range sessions {
				if cerr := s.Close(); cerr != nil {
					e.logger.Warn("close render session failed", zap.Error(cerr))
				}
			}
			return nil, fmt.Errorf("open session %d: %w", i, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (e *Engine) assemble(seed, sessionID string, records []Record, elapsed time.Duration) Summary {
	var full strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&full, "\n\n== %s ==\n%s", rec.Title, rec.Content)
	}
	text := full.String()

	preview := text
	if len(preview) > previewLen {
		cut := previewLen
		// Never split a multi-byte rune at the cut point.
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut]
	}
	preview += "..."

	return Summary{
		URL:             seed,
		Status:          StatusSuccess,
		SessionID:       sessionID,
		PagesCrawled:    len(records),
		FullText:        text,
		Preview:         preview,
		DurationSeconds: elapsed.Seconds(),
		Records:         records,
	}
}
