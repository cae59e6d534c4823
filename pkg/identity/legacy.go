package identity

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// LegacyAdapter normalizes the earlier provider revision: a single result
// object with differently named fields instead of a match list. A missing
// result object means no linked identity.
type LegacyAdapter struct{}

// Name returns the provider contract identifier.
func (LegacyAdapter) Name() string { return "legacy" }

type legacyResponse struct {
	Result *struct {
		DisplayName    string   `json:"display_name"`
		PhoneNumbers   []string `json:"phone_numbers"`
		EmailAddresses []string `json:"email_addresses"`
	} `json:"result"`
}

// Normalize parses a legacy-contract body into the uniform match list.
func (LegacyAdapter) Normalize(body []byte) (*LookupResult, error) {
	var resp legacyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "parse result object")
	}

	result := &LookupResult{}
	if resp.Result == nil || resp.Result.DisplayName == "" {
		return result, nil
	}

	match := Match{Name: resp.Result.DisplayName}
	if len(resp.Result.PhoneNumbers) > 0 {
		match.Phone = resp.Result.PhoneNumbers[0]
	}
	if len(resp.Result.EmailAddresses) > 0 {
		match.Email = resp.Result.EmailAddresses[0]
	}
	result.Matches = append(result.Matches, match)
	return result, nil
}
