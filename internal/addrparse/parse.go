package addrparse

import (
	"strconv"
	"strings"
)

// Row is one structured, mailable address record. Zero, one, or many rows
// derive from a single input line.
type Row struct {
	StreetAddress string `csv:"Address" json:"address"`
	Unit          string `csv:"Unit" json:"unit"`
	City          string `csv:"City" json:"city"`
	State         string `csv:"State" json:"state"`
	Zip           string `csv:"ZIP" json:"zip"`
	OriginalLine  string `csv:"Original" json:"original"`
}

// Parse tags a free-text address line and expands compressed unit ranges.
// A blank line yields nothing. An ambiguous line yields exactly one sentinel
// row with empty structured fields and the original line preserved, keeping
// row counts auditable even when parsing degrades.
func Parse(line string) []Row {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	c, err := Tag(line)
	if err != nil {
		return []Row{{OriginalLine: line}}
	}

	base := Row{
		StreetAddress: streetAddress(c),
		City:          c.PlaceName,
		State:         c.StateName,
		Zip:           c.ZipCode,
		OriginalLine:  line,
	}

	unit := c.OccupancyIdentifier
	if strings.Contains(unit, "-") || strings.Contains(unit, "–") {
		// Normalize the en-dash variant before splitting.
		parts := strings.Split(strings.ReplaceAll(unit, "–", "-"), "-")
		if len(parts) == 2 && isDigits(parts[0]) && isDigits(parts[1]) {
			start, _ := strconv.Atoi(parts[0])
			end, _ := strconv.Atoi(parts[1])
			var rows []Row
			for u := start; u <= end; u++ {
				row := base
				row.Unit = strconv.Itoa(u)
				rows = append(rows, row)
			}
			return rows
		}
	}

	base.Unit = unit
	return []Row{base}
}

// streetAddress assembles house number plus pre-directional, street name,
// post type, and post-directional in fixed order, single-spaced.
func streetAddress(c Components) string {
	parts := []string{c.AddressNumber, c.PreDirectional, c.StreetName, c.PostType, c.PostDirectional}
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(strings.Fields(strings.Join(nonEmpty, " ")), " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
