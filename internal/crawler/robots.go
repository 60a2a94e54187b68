package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

const (
	robotsFetchTimeout = 5 * time.Second
	robotsMaxBytes     = 1 << 20
	robotsAgent        = "*"
)

// RobotsGate evaluates robots.txt rules per origin under the wildcard
// agent. Policies are cached for the lifetime of one crawl and never
// invalidated mid-crawl.
//
// The gate fails open: an unreachable or unparsable robots.txt treats the
// origin as fully permissive. A crawl must never abort because a policy
// file could not be fetched.
type RobotsGate struct {
	client *http.Client
	cache  sync.Map
	logger *zap.Logger
}

// NewRobotsGate builds a gate with a short fetch timeout.
func NewRobotsGate(logger *zap.Logger) *RobotsGate {
	return &RobotsGate{
		client: &http.Client{Timeout: robotsFetchTimeout},
		logger: logger,
	}
}

// Allowed implements RobotsPolicy.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	data := g.load(ctx, parsed)
	if data == nil {
		return true
	}
	group := data.FindGroup(robotsAgent)
	if group == nil {
		return true
	}
	return group.Test(robotsPath(parsed))
}

// robotsPath is the path-plus-query form robots rules match against.
func robotsPath(u *url.URL) string {
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

// load returns the cached policy for the URL's origin, fetching it on
// first use. A nil policy means allow-all. Failed fetches cache nil so a
// dead origin is probed at most once per crawl.
func (g *RobotsGate) load(ctx context.Context, parsed *url.URL) *robotstxt.RobotsData {
	originKey := strings.ToLower(parsed.Scheme + "://" + parsed.Host)
	if cached, ok := g.cache.Load(originKey); ok {
		data, _ := cached.(*robotstxt.RobotsData)
		return data
	}

	data, err := g.fetch(ctx, parsed)
	if err != nil {
		g.logger.Warn("robots fetch failed; allowing origin",
			zap.String("origin", originKey), zap.Error(err))
		data = nil
	}
	g.cache.Store(originKey, data)
	return data
}

func (g *RobotsGate) fetch(ctx context.Context, parsed *url.URL) (*robotstxt.RobotsData, error) {
	robotsURL := url.URL{Scheme: parsed.Scheme, Host: parsed.Host, Path: "/robots.txt"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new robots request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			g.logger.Debug("close robots body failed", zap.Error(cerr))
		}
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots body: %w", err)
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots: %w", err)
	}
	return data, nil
}
