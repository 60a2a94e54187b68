package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesCrawled tracks pages fetched and rendered successfully.
	PagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_pages_crawled_total",
		Help: "The total number of pages fetched and rendered successfully.",
	})
	// PagesFailed tracks per-page navigation or extraction failures.
	PagesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_pages_failed_total",
		Help: "The total number of pages that failed to fetch or render.",
	})
	// LinksEnqueued tracks child links pushed onto the frontier.
	LinksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_links_enqueued_total",
		Help: "The total number of discovered links enqueued for crawling.",
	})
	// DuplicatesSkipped tracks dequeued items dropped by the visited registry.
	DuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_duplicates_skipped_total",
		Help: "The total number of frontier items skipped as already visited.",
	})
	// RobotsBlocked tracks URLs rejected by robots rules.
	RobotsBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_robots_blocked_total",
		Help: "The total number of URLs disallowed by robots.txt.",
	})
	// ResultsPersisted tracks rows written by the persistence relay.
	ResultsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_results_persisted_total",
		Help: "The total number of crawl results written to storage.",
	})
)
