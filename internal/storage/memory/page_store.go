// Package memory provides in-memory storage for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pageharvest/harvester/internal/crawler"
)

// PageStore implements crawler.ResultStore in process memory.
type PageStore struct {
	mu      sync.Mutex
	nextID  int64
	records []crawler.Record
}

// NewPageStore returns an empty store.
func NewPageStore() *PageStore {
	return &PageStore{nextID: 1}
}

// Insert appends one result.
func (s *PageStore) Insert(_ context.Context, res crawler.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, crawler.Record{
		ID:        s.nextID,
		SessionID: res.SessionID,
		URL:       res.URL,
		Title:     res.Title,
		Content:   res.Content,
		Depth:     res.Depth,
		Outcome:   res.Outcome,
		CreatedAt: time.Now().UTC(),
	})
	s.nextID++
	return nil
}

// ListBySession returns records for sessionID in insertion order.
func (s *PageStore) ListBySession(_ context.Context, sessionID string) ([]crawler.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []crawler.Record
	for _, rec := range s.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Len reports the total number of stored records across sessions.
func (s *PageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
