package ticketing

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// The providers below simulate their external systems: IDs, statuses, and
// links follow each vendor's conventions without performing network calls.

// HubSpot adapts HubSpot Service Hub.
type HubSpot struct{}

// CreateTicket implements Adapter.
func (HubSpot) CreateTicket(_ context.Context, t Ticket) (Created, error) {
	id := fmt.Sprintf("HS-%d", 1000+rand.Intn(9000))
	return Created{
		Provider: "HubSpot",
		ID:       id,
		Status:   "OPEN",
		Priority: strings.ToUpper(t.Priority),
		Link:     fmt.Sprintf("https://app.hubspot.com/tickets/%s", id),
	}, nil
}

// Status implements Adapter.
func (HubSpot) Status(context.Context, string) (string, error) { return "OPEN", nil }

// Jira adapts Atlassian Jira.
type Jira struct{}

// CreateTicket implements Adapter.
func (Jira) CreateTicket(_ context.Context, t Ticket) (Created, error) {
	id := fmt.Sprintf("PROJ-%d", 100+rand.Intn(900))
	return Created{
		Provider: "Jira",
		ID:       id,
		Status:   "TO DO",
		Priority: t.Priority,
		Link:     fmt.Sprintf("https://jira.atlassian.com/browse/%s", id),
	}, nil
}

// Status implements Adapter.
func (Jira) Status(context.Context, string) (string, error) { return "OPEN", nil }

// Zendesk adapts Zendesk Support.
type Zendesk struct{}

// CreateTicket implements Adapter.
func (Zendesk) CreateTicket(_ context.Context, t Ticket) (Created, error) {
	id := fmt.Sprintf("%d", 10000+rand.Intn(90000))
	return Created{
		Provider: "Zendesk",
		ID:       id,
		Status:   "new",
		Priority: strings.ToLower(t.Priority),
		Link:     fmt.Sprintf("https://support.zendesk.com/tickets/%s", id),
	}, nil
}

// Status implements Adapter.
func (Zendesk) Status(context.Context, string) (string, error) { return "OPEN", nil }

// Salesforce adapts Salesforce Service Cloud cases.
type Salesforce struct{}

// CreateTicket implements Adapter.
func (Salesforce) CreateTicket(_ context.Context, t Ticket) (Created, error) {
	// Salesforce case IDs are alphanumeric, 15 or 18 chars.
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:15]
	return Created{
		Provider: "Salesforce",
		ID:       id,
		Status:   "New",
		Priority: t.Priority,
		Link:     fmt.Sprintf("https://salesforce.com/lightning/r/Case/%s/view", id),
	}, nil
}

// Status implements Adapter.
func (Salesforce) Status(context.Context, string) (string, error) { return "OPEN", nil }
