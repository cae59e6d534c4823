package identity

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// Lookup issues one request for the address and normalizes the response via
// the configured adapter. Non-2xx responses surface as *StatusError so
// callers can distinguish API errors from transport failures.
func (c *client) Lookup(ctx context.Context, addr AddressInput) (*LookupResult, error) {
	params := url.Values{
		"street": {addr.Street},
		"city":   {addr.City},
		"state":  {addr.State},
		"zip":    {addr.ZipCode},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "identity: build request")
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "identity: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "identity: read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newStatusError(resp.StatusCode, body)
	}

	result, err := c.adapter.Normalize(body)
	if err != nil {
		return nil, eris.Wrapf(err, "identity: normalize %s response", c.adapter.Name())
	}
	return result, nil
}
