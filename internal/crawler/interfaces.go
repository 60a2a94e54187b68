package crawler

import "context"

// Renderer produces long-lived page-rendering sessions. Each fetch worker
// owns exactly one session for its lifetime.
type Renderer interface {
	NewSession(ctx context.Context) (RenderSession, error)
	Close() error
}

// RenderSession navigates to URLs and returns the rendered document.
// Implementations are not required to be safe for concurrent use; each
// session belongs to a single worker.
type RenderSession interface {
	Navigate(ctx context.Context, url string) (Page, error)
	Close() error
}

// ResultStore persists crawl results. Insert is invoked only by the
// persistence relay, never by fetch workers.
type ResultStore interface {
	Insert(ctx context.Context, res Result) error
	ListBySession(ctx context.Context, sessionID string) ([]Record, error)
}

// RobotsPolicy answers whether a URL may be fetched under the site's
// published crawl rules. Implementations are read-only after construction.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}
