package crawler

import "time"

// Outcome records the terminal state of one fetched page.
type Outcome string

// Outcome values persisted with each page record.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Status is the terminal state of a whole crawl invocation.
type Status string

// Crawl status values returned in a Summary.
const (
	StatusSuccess Status = "success"
	StatusBlocked Status = "blocked"
	StatusError   Status = "error"
)

// Item is one unit of frontier work. Immutable once enqueued.
type Item struct {
	URL      string
	Depth    int
	MaxDepth int

	// stop marks the poison pill distributed at shutdown.
	stop bool
}

// Result is produced exactly once per dequeued, non-duplicate Item
// and handed off by value to the persistence relay.
type Result struct {
	SessionID string  `json:"session_id"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Depth     int     `json:"depth"`
	Outcome   Outcome `json:"outcome"`
}

// Record is a Result as read back from storage.
type Record struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Depth     int       `json:"depth"`
	Outcome   Outcome   `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}

// Request holds the caller-supplied knobs for one crawl invocation.
type Request struct {
	SeedURL   string
	OutputDir string
	Headful   bool
	Recursive bool
	MaxDepth  int
}

// Summary is returned to callers when a crawl terminates.
type Summary struct {
	URL             string   `json:"url"`
	Status          Status   `json:"status"`
	SessionID       string   `json:"session_id"`
	PagesCrawled    int      `json:"pages_crawled"`
	FullText        string   `json:"full_text"`
	Preview         string   `json:"content_preview"`
	DurationSeconds float64  `json:"duration_seconds"`
	SavedFiles      []string `json:"saved_files"`
	Records         []Record `json:"records"`
}

// Page is the renderer's view of one navigated document.
type Page struct {
	Title string
	HTML  string
	Text  string
}
