package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Standard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		q := r.URL.Query()
		assert.Equal(t, "123 Main St", q.Get("street"))
		assert.Equal(t, "Springfield", q.Get("city"))
		assert.Equal(t, "IL", q.Get("state"))
		assert.Equal(t, "60001", q.Get("zip"))

		_, _ = w.Write([]byte(`{"matches":[
			{"name":"Pat Doe","phones":[{"number":"555-0100"},{"number":"555-0101"}],"emails":[{"address":"pat@example.com"}]},
			{"name":"Sam Doe","phones":[],"emails":[]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	result, err := c.Lookup(context.Background(), AddressInput{
		Street: "123 Main St", City: "Springfield", State: "IL", ZipCode: "60001",
	})
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)

	assert.Equal(t, Match{Name: "Pat Doe", Phone: "555-0100", Email: "pat@example.com"}, result.Matches[0])
	assert.Equal(t, Match{Name: "Sam Doe"}, result.Matches[1])
}

func TestLookup_EmptyMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	result, err := c.Lookup(context.Background(), AddressInput{Street: "1 Nowhere Ln"})
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestLookup_LegacyAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"display_name":"Pat Doe","phone_numbers":["555-0100"],"email_addresses":[]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", WithAdapter(LegacyAdapter{}))
	result, err := c.Lookup(context.Background(), AddressInput{Street: "123 Main St"})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, Match{Name: "Pat Doe", Phone: "555-0100"}, result.Matches[0])
}

func TestLookup_LegacyNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", WithAdapter(LegacyAdapter{}))
	result, err := c.Lookup(context.Background(), AddressInput{Street: "123 Main St"})
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestLookup_StructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	_, err := c.Lookup(context.Background(), AddressInput{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
	assert.Equal(t, "quota exceeded", statusErr.Detail)
}

func TestLookup_RawErrorBodyTruncated(t *testing.T) {
	long := strings.Repeat("x", 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	_, err := c.Lookup(context.Background(), AddressInput{})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Len(t, statusErr.Detail, 256)
}

func TestLookup_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	_, err := c.Lookup(context.Background(), AddressInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalize standard response")
}

func TestAdapterFor(t *testing.T) {
	a, err := AdapterFor("")
	require.NoError(t, err)
	assert.Equal(t, "standard", a.Name())

	a, err = AdapterFor("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", a.Name())

	_, err = AdapterFor("bogus")
	require.Error(t, err)
}
