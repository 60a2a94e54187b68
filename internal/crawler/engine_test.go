package crawler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	session *fakeSession
	openErr error
	closed  bool
}

func (r *fakeRenderer) NewSession(context.Context) (RenderSession, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return r.session, nil
}

func (r *fakeRenderer) Close() error {
	r.closed = true
	return nil
}

type allowAllRobots struct{}

func (allowAllRobots) Allowed(context.Context, string) bool { return true }

type denySeedRobots struct{ seed string }

func (d denySeedRobots) Allowed(_ context.Context, url string) bool { return url != d.seed }

func newTestEngine(session *fakeSession, store ResultStore, robots RobotsPolicy) *Engine {
	return NewEngine(
		Config{Workers: 3, ResultsBuffer: 8},
		&fakeRenderer{session: session},
		store,
		robots,
		nil,
		zap.NewNop(),
	)
}

func TestEngineSinglePageCrawl(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	session.pages["https://example.com/"] = Page{Title: "Home", Text: "hello world"}
	store := &fakeStore{}

	engine := newTestEngine(session, store, allowAllRobots{})
	summary, err := engine.Crawl(context.Background(), Request{SeedURL: "https://example.com/"})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, summary.Status)
	assert.Equal(t, 1, summary.PagesCrawled)
	require.Len(t, summary.Records, 1)
	assert.Equal(t, OutcomeSuccess, summary.Records[0].Outcome)
	assert.Equal(t, "\n\n== Home ==\nhello world", summary.FullText)
	assert.Equal(t, "\n\n== Home ==\nhello world...", summary.Preview)
	assert.NotEmpty(t, summary.SessionID)
	_, parseErr := uuid.Parse(summary.SessionID)
	assert.NoError(t, parseErr)
	assert.GreaterOrEqual(t, summary.DurationSeconds, 0.0)
}

func TestEngineBlockedSeedPerformsNoWork(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	store := &fakeStore{}
	engine := newTestEngine(session, store, denySeedRobots{seed: "https://example.com/"})

	summary, err := engine.Crawl(context.Background(), Request{SeedURL: "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, summary.Status)
	assert.Empty(t, session.navigated)
	assert.Empty(t, store.results())
}

func TestEngineRecursiveCrawlNoDuplicates(t *testing.T) {
	t.Parallel()

	// Pages link to each other in a cycle; the visited registry must
	// keep every URL to exactly one fetch.
	session := newFakeSession()
	session.pages["https://example.com/"] = Page{Title: "Home", HTML: `<a href="/a">A</a><a href="/b">B</a>`}
	session.pages["https://example.com/a"] = Page{Title: "A", HTML: `<a href="/">Home</a><a href="/b">B</a>`}
	session.pages["https://example.com/b"] = Page{Title: "B", HTML: `<a href="/a">A</a>`}
	store := &fakeStore{}

	engine := newTestEngine(session, store, allowAllRobots{})
	summary, err := engine.Crawl(context.Background(), Request{
		SeedURL:   "https://example.com/",
		Recursive: true,
		MaxDepth:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, summary.Status)
	assert.Equal(t, 3, summary.PagesCrawled)

	seen := make(map[string]int)
	for _, url := range session.navigated {
		seen[url]++
	}
	for url, count := range seen {
		assert.Equal(t, 1, count, "url %s fetched more than once", url)
	}
}

func TestEngineFailedFetchDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	session.pages["https://example.com/"] = Page{Title: "Home", HTML: `<a href="/ok">OK</a><a href="/broken">X</a>`}
	session.pages["https://example.com/ok"] = Page{Title: "OK", Text: "fine"}
	session.errs["https://example.com/broken"] = errors.New("navigation timeout")
	store := &fakeStore{}

	engine := newTestEngine(session, store, allowAllRobots{})
	summary, err := engine.Crawl(context.Background(), Request{
		SeedURL:   "https://example.com/",
		Recursive: true,
		MaxDepth:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, summary.Status)
	require.Equal(t, 3, summary.PagesCrawled)

	outcomes := make(map[string]Outcome)
	for _, rec := range summary.Records {
		outcomes[rec.URL] = rec.Outcome
	}
	assert.Equal(t, OutcomeFailed, outcomes["https://example.com/broken"])
	assert.Equal(t, OutcomeSuccess, outcomes["https://example.com/ok"])
	assert.Equal(t, OutcomeSuccess, outcomes["https://example.com/"])
}

func TestEngineStorageFailureSurfaces(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	session.pages["https://example.com/"] = Page{Title: "Home"}
	store := &fakeStore{insertErr: errors.New("connection reset")}

	engine := newTestEngine(session, store, allowAllRobots{})
	summary, err := engine.Crawl(context.Background(), Request{SeedURL: "https://example.com/"})
	require.Error(t, err)
	assert.Equal(t, StatusError, summary.Status)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestEngineRendererFailureIsOrchestrationError(t *testing.T) {
	t.Parallel()

	engine := NewEngine(
		Config{Workers: 2},
		&fakeRenderer{openErr: errors.New("browser did not start")},
		&fakeStore{},
		allowAllRobots{},
		nil,
		zap.NewNop(),
	)
	summary, err := engine.Crawl(context.Background(), Request{SeedURL: "https://example.com/"})
	require.Error(t, err)
	assert.Equal(t, StatusError, summary.Status)
}

func TestEngineInvalidSeed(t *testing.T) {
	t.Parallel()

	seeds := []string{
		"ftp://example.com/file",
		"httpx://example.com/",
		"https-fake://example.com/",
		"example.com/no-scheme",
	}
	for _, seed := range seeds {
		engine := newTestEngine(newFakeSession(), &fakeStore{}, allowAllRobots{})
		summary, err := engine.Crawl(context.Background(), Request{SeedURL: seed})
		require.Error(t, err, seed)
		assert.Equal(t, StatusError, summary.Status, seed)
	}
}

func TestEnginePreviewKeepsRuneBoundary(t *testing.T) {
	t.Parallel()

	// The title prefix shifts the cut point onto the middle of a
	// two-byte rune; the preview must stay valid UTF-8.
	session := newFakeSession()
	session.pages["https://example.com/"] = Page{Title: "Home", Text: strings.Repeat("é", 300)}
	store := &fakeStore{}

	engine := newTestEngine(session, store, allowAllRobots{})
	summary, err := engine.Crawl(context.Background(), Request{SeedURL: "https://example.com/"})
	require.NoError(t, err)

	require.Greater(t, len(summary.FullText), previewLen)
	assert.True(t, utf8.ValidString(summary.Preview))
	assert.True(t, strings.HasSuffix(summary.Preview, "..."))
	assert.LessOrEqual(t, len(summary.Preview), previewLen+len("..."))
}

func TestEngineNonRecursiveIgnoresMaxDepth(t *testing.T) {
	t.Parallel()

	session := newFakeSession()
	session.pages["https://example.com/"] = Page{Title: "Home", HTML: `<a href="/a">A</a>`}
	store := &fakeStore{}

	engine := newTestEngine(session, store, allowAllRobots{})
	summary, err := engine.Crawl(context.Background(), Request{
		SeedURL:  "https://example.com/",
		MaxDepth: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PagesCrawled)
}
