package identity

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// StandardAdapter normalizes the current provider contract: a top-level
// match list, each match carrying a name plus phone and email sub-lists.
type StandardAdapter struct{}

// Name returns the provider contract identifier.
func (StandardAdapter) Name() string { return "standard" }

type standardResponse struct {
	Matches []struct {
		Name   string `json:"name"`
		Phones []struct {
			Number string `json:"number"`
		} `json:"phones"`
		Emails []struct {
			Address string `json:"address"`
		} `json:"emails"`
	} `json:"matches"`
}

// Normalize parses a standard-contract body into the uniform match list.
func (StandardAdapter) Normalize(body []byte) (*LookupResult, error) {
	var resp standardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "parse match list")
	}

	result := &LookupResult{}
	for _, m := range resp.Matches {
		match := Match{Name: m.Name}
		if len(m.Phones) > 0 {
			match.Phone = m.Phones[0].Number
		}
		if len(m.Emails) > 0 {
			match.Email = m.Emails[0].Address
		}
		result.Matches = append(result.Matches, match)
	}
	return result, nil
}
