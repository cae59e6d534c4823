// Package export round-trips pipeline tables as delimited text.
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/alanrrz/catchment-cli/internal/addrparse"
	"github.com/alanrrz/catchment-cli/internal/enrich"
)

// WriteParsed writes parsed address rows as CSV.
func WriteParsed(w io.Writer, rows []addrparse.Row) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal parsed rows")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write parsed rows")
	}
	return nil
}

// ReadInput parses an uploaded address CSV into ordered column names and one
// map per row. Source columns pass through enrichment untouched, so column
// order must survive the round trip.
func ReadInput(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "export: read input csv")
	}
	if len(records) == 0 {
		return nil, nil, eris.New("export: input csv has no header")
	}

	columns := make([]string, len(records[0]))
	for i, h := range records[0] {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return columns, rows, nil
}

// WriteEnrichment writes enrichment rows as CSV: the source columns in their
// original order followed by the enriched fields and the row status.
func WriteEnrichment(w io.Writer, columns []string, rows []enrich.Row) error {
	writer := csv.NewWriter(w)

	header := append(append([]string(nil), columns...),
		"Enriched_Name", "Enriched_Phone", "Enriched_Email", "Status", "Detail")
	if err := writer.Write(header); err != nil {
		return eris.Wrap(err, "export: write enrichment header")
	}

	for _, row := range rows {
		record := make([]string, 0, len(header))
		for _, col := range columns {
			record = append(record, row.Source[col])
		}
		record = append(record, row.Name, row.Phone, row.Email, string(row.Status), row.Detail)
		if err := writer.Write(record); err != nil {
			return eris.Wrap(err, "export: write enrichment row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "export: flush enrichment rows")
	}
	return nil
}
