// Package addrparse turns free-text address lines into structured,
// unit-expanded mailable records. It is pure string processing with no I/O.
package addrparse

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Components are the labeled parts of one tagged address line.
type Components struct {
	AddressNumber       string
	PreDirectional      string
	StreetName          string
	PostType            string
	PostDirectional     string
	OccupancyType       string
	OccupancyIdentifier string
	PlaceName           string
	StateName           string
	ZipCode             string
}

// ErrAmbiguous indicates the tagger could not assign labels to the line:
// either no structural anchors were found or a label would repeat. Callers
// degrade to a sentinel record rather than dropping the line.
var ErrAmbiguous = eris.New("addrparse: ambiguous address line")

var zipRe = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)

func hasLeadingDigit(token string) bool {
	return len(token) > 0 && token[0] >= '0' && token[0] <= '9'
}

// Tag decomposes a free-text address line into labeled components.
func Tag(line string) (Components, error) {
	var c Components

	var segments []string
	for _, seg := range strings.Split(line, ",") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return c, ErrAmbiguous
	}

	street := strings.Fields(segments[0])
	var tail []string
	for _, seg := range segments[1:] {
		tail = append(tail, strings.Fields(seg)...)
	}

	// Zip and state peel off the end of the line: the tail when commas are
	// present, the street token list otherwise.
	if len(segments) == 1 {
		street = c.peelZipState(street)
	} else {
		tail = c.peelZipState(tail)
	}

	// House number leads the street segment.
	if len(street) > 0 && hasLeadingDigit(street[0]) {
		c.AddressNumber = street[0]
		street = street[1:]
	}

	// Occupancy designator splits the street segment; anything after the
	// identifier belongs to the city when the line carries no commas.
	var afterUnit []string
	if idx := indexUnitDesignator(street); idx >= 0 {
		var err error
		afterUnit, err = c.consumeUnit(street[idx:])
		if err != nil {
			return Components{}, err
		}
		street = street[:idx]
	}

	cityTokens := c.tagStreet(street)
	cityTokens = append(cityTokens, afterUnit...)

	// A unit may also arrive as its own comma segment.
	for len(tail) > 0 && isUnitDesignator(tail[0]) {
		if c.OccupancyType != "" || c.OccupancyIdentifier != "" {
			return Components{}, eris.Wrap(ErrAmbiguous, "repeated occupancy label")
		}
		rest, err := c.consumeUnit(tail)
		if err != nil {
			return Components{}, err
		}
		tail = rest
	}

	// A second zip-shaped token in the city region means the labels repeat.
	for _, tok := range tail {
		if c.ZipCode != "" && zipRe.MatchString(tok) {
			return Components{}, eris.Wrap(ErrAmbiguous, "repeated zip label")
		}
	}

	cityTokens = append(cityTokens, tail...)
	c.PlaceName = strings.Join(cityTokens, " ")

	if c.AddressNumber == "" && c.StateName == "" && c.ZipCode == "" &&
		c.PostType == "" && c.OccupancyIdentifier == "" {
		return Components{}, ErrAmbiguous
	}

	return c, nil
}

// peelZipState removes a trailing zip and state from the token list,
// recording them on the receiver. State matches either the two-letter
// abbreviation or the spelled-out name (one or two words).
func (c *Components) peelZipState(tokens []string) []string {
	if n := len(tokens); n > 0 && zipRe.MatchString(tokens[n-1]) && !hasLeadingDigitOnly(tokens, n) {
		c.ZipCode = tokens[n-1]
		tokens = tokens[:n-1]
	}
	n := len(tokens)
	switch {
	case n >= 2 && isStateName(tokens[n-2:]):
		c.StateName = strings.Join(tokens[n-2:], " ")
		tokens = tokens[:n-2]
	case n >= 1 && (isStateAbbr(tokens[n-1]) || isStateName(tokens[n-1:])):
		c.StateName = tokens[n-1]
		tokens = tokens[:n-1]
	}
	return tokens
}

// hasLeadingDigitOnly guards against eating a bare house number: a single
// all-digit token with nothing after it is an address number, not a zip.
func hasLeadingDigitOnly(tokens []string, n int) bool {
	return n == 1 && hasLeadingDigit(tokens[0])
}

// indexUnitDesignator returns the position of the first occupancy
// designator, or -1.
func indexUnitDesignator(tokens []string) int {
	for i, tok := range tokens {
		if isUnitDesignator(tok) {
			return i
		}
	}
	return -1
}

// consumeUnit records the occupancy designator and identifier from the head
// of tokens and returns the remainder. A second designator in the remainder
// is a repeated label.
func (c *Components) consumeUnit(tokens []string) ([]string, error) {
	tok := tokens[0]
	rest := tokens[1:]

	if strings.HasPrefix(tok, "#") && len(tok) > 1 {
		c.OccupancyType = "#"
		c.OccupancyIdentifier = tok[1:]
	} else {
		c.OccupancyType = tok
		if len(rest) > 0 {
			c.OccupancyIdentifier = rest[0]
			rest = rest[1:]
		}
	}

	if indexUnitDesignator(rest) >= 0 {
		return nil, eris.Wrap(ErrAmbiguous, "repeated occupancy label")
	}
	return rest, nil
}

// tagStreet labels the street tokens (pre-directional, name, post type,
// post-directional) and returns any leftover tokens, which belong to the
// city on comma-free lines.
func (c *Components) tagStreet(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	// The last suffix token marks the street/city boundary.
	sfx := -1
	for i, tok := range tokens {
		if isSuffix(tok) {
			sfx = i
		}
	}

	var leftover []string
	if sfx >= 0 {
		c.PostType = tokens[sfx]
		leftover = tokens[sfx+1:]
		tokens = tokens[:sfx]
		if len(leftover) > 0 && isDirectional(leftover[0]) {
			c.PostDirectional = leftover[0]
			leftover = leftover[1:]
		}
	}

	if len(tokens) > 1 && isDirectional(tokens[0]) {
		c.PreDirectional = tokens[0]
		tokens = tokens[1:]
	}
	c.StreetName = strings.Join(tokens, " ")

	return leftover
}
