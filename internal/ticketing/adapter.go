// Package ticketing adapts external ticket systems behind one behavioral
// contract so callers never depend on a specific provider.
package ticketing

import "context"

// Ticket is the provider-independent ticket description.
type Ticket struct {
	Title       string
	Description string
	Priority    string
}

// Created is the normalized response after creating a ticket.
type Created struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
	Link     string `json:"link"`
}

// Adapter is implemented once per ticketing backend. All adapters expose
// the same operations regardless of the underlying provider.
type Adapter interface {
	CreateTicket(ctx context.Context, t Ticket) (Created, error)
	Status(ctx context.Context, externalID string) (string, error)
}
