// Package analytics keeps a process-wide event log with explicit
// init-once lifecycle and thread-safe append.
package analytics

import (
	"sync"
	"time"
)

// EventTicketCreated is the event type aggregated into ticket totals.
const EventTicketCreated = "TICKET_CREATED"

const recentEventLimit = 10

// Event is one recorded application event.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      string            `json:"type"`
	Provider  string            `json:"provider"`
	Details   map[string]string `json:"details,omitempty"`
}

// Stats aggregates the raw event log.
type Stats struct {
	TotalTickets int            `json:"total_tickets"`
	ByProvider   map[string]int `json:"by_provider"`
	RecentEvents []Event        `json:"recent_events"`
}

// Log is an append-only in-process event log.
type Log struct {
	mu     sync.Mutex
	events []Event
}

var (
	defaultLog  *Log
	defaultOnce sync.Once
)

// Default returns the shared process-wide log, creating it on first use.
func Default() *Log {
	defaultOnce.Do(func() {
		defaultLog = &Log{}
	})
	return defaultLog
}

// Record appends one event.
func (l *Log) Record(eventType, provider string, details map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, Event{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Provider:  provider,
		Details:   details,
	})
}

// Stats computes totals and the most recent events.
func (l *Log) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Stats{ByProvider: make(map[string]int)}
	for _, ev := range l.events {
		if ev.Type == EventTicketCreated {
			stats.TotalTickets++
			stats.ByProvider[ev.Provider]++
		}
	}
	start := len(l.events) - recentEventLimit
	if start < 0 {
		start = 0
	}
	stats.RecentEvents = append([]Event(nil), l.events[start:]...)
	return stats
}
