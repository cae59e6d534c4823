package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is an in-memory delimited table with a header row.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTable parses a CSV stream into a Table. The first record is the header.
// Rows may have fewer fields than the header; missing cells read as empty.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("fetcher: empty table")
	}
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Columns: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: read row")
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// Index returns the position of the named column, matched case-insensitively,
// or -1 when absent.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, col) {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col index), or empty when the row is short.
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Project returns a new table holding only the named columns, in the given
// order. Missing columns are an error naming what was available.
func (t *Table) Project(cols ...string) (*Table, error) {
	idxs := make([]int, len(cols))
	for i, col := range cols {
		idx := t.Index(col)
		if idx < 0 {
			return nil, eris.Errorf("fetcher: column %q not found (available: %s)",
				col, strings.Join(t.Columns, ", "))
		}
		idxs[i] = idx
	}

	out := &Table{Columns: append([]string(nil), cols...)}
	for _, row := range t.Rows {
		projected := make([]string, len(idxs))
		for i, idx := range idxs {
			projected[i] = t.Cell(row, idx)
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}
