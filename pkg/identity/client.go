// Package identity looks up the people linked to a mailing address via an
// external identity API, normalizing heterogeneous provider response shapes
// onto one match record.
package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client performs one identity lookup per address.
type Client interface {
	// Lookup queries the identity service for the given address.
	Lookup(ctx context.Context, addr AddressInput) (*LookupResult, error)
}

// AddressInput is the structured address sent to the lookup service.
type AddressInput struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

// Match is one identity linked to an address.
type Match struct {
	Name  string
	Phone string
	Email string
}

// LookupResult holds the zero-or-more matches for an address. An empty match
// list is a valid outcome: the address exists but has no linked identity.
type LookupResult struct {
	Matches []Match
}

// Adapter maps one provider's raw response body onto the uniform match list.
// Adapters are selected by configuration, not by rewriting call sites.
type Adapter interface {
	// Name returns the provider contract identifier.
	Name() string
	// Normalize parses a 2xx response body into matches.
	Normalize(body []byte) (*LookupResult, error)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithAdapter selects the provider response adapter.
func WithAdapter(a Adapter) Option {
	return func(c *client) {
		c.adapter = a
	}
}

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	adapter    Adapter
}

// NewClient creates an identity lookup Client for the given endpoint and
// credential. The standard match-list contract is assumed unless WithAdapter
// overrides it.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		adapter:    StandardAdapter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AdapterFor returns the adapter matching a configured provider name.
func AdapterFor(name string) (Adapter, error) {
	switch name {
	case "", "standard":
		return StandardAdapter{}, nil
	case "legacy":
		return LegacyAdapter{}, nil
	default:
		return nil, eris.Errorf("identity: unknown provider %q", name)
	}
}
