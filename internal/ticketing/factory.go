package ticketing

import (
	"fmt"
	"strings"
)

// New returns the adapter registered under provider (case-insensitive).
func New(provider string) (Adapter, error) {
	switch strings.ToLower(provider) {
	case "hubspot":
		return HubSpot{}, nil
	case "jira":
		return Jira{}, nil
	case "zendesk":
		return Zendesk{}, nil
	case "salesforce":
		return Salesforce{}, nil
	default:
		return nil, fmt.Errorf("unknown ticketing provider %q", provider)
	}
}

// Providers lists the registered provider names.
func Providers() []string {
	return []string{"hubspot", "jira", "zendesk", "salesforce"}
}
