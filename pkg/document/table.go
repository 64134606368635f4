package document

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Cell is one positioned table cell. Row and Col are 1-based.
type Cell struct {
	Row  int         `json:"row"`
	Col  int         `json:"col"`
	Text string      `json:"text"`
	Role *EntityType `json:"type"`
}

// IsHeader reports whether the cell labels its column. Cells in the first
// row count as headers even without a COLUMN_HEADER role, because the
// analysis often omits the role.
func (c Cell) IsHeader() bool {
	return (c.Role != nil && *c.Role == EntityColumnHeader) || c.Row == 1
}

// Table is the ordered cell list of one TABLE block
type Table struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// Row maps column names to cell text and remembers insertion order
type Row struct {
	keys   []string
	values map[string]string
}

// NewRow builds a row from alternating column/value pairs
func NewRow(pairs ...string) Row {
	var r Row
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set stores text under col. Re-setting a column keeps its original position.
func (r *Row) Set(col, text string) {
	if r.values == nil {
		r.values = map[string]string{}
	}
	if _, ok := r.values[col]; !ok {
		r.keys = append(r.keys, col)
	}
	r.values[col] = text
}

// Get returns the text stored under col
func (r Row) Get(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Columns returns column names in insertion order
func (r Row) Columns() []string {
	return r.keys
}

func (r Row) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the row as an object whose keys keep insertion order
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizedTable is a table reduced to labeled rows
type NormalizedTable []Row

// NormalizeTable labels every non-header cell with its column header and
// groups cells by row. Rows appear in order of their first cell; columns
// without header text are named "col<N>".
func NormalizeTable(t Table) NormalizedTable {
	headers := map[int]string{}
	for _, c := range t.Cells {
		if c.IsHeader() {
			headers[c.Col] = c.Text
		}
	}

	var order []int
	rows := map[int]*Row{}
	for _, c := range t.Cells {
		if c.IsHeader() {
			continue
		}
		row, ok := rows[c.Row]
		if !ok {
			row = &Row{}
			rows[c.Row] = row
			order = append(order, c.Row)
		}
		row.Set(columnName(headers, c.Col), c.Text)
	}

	out := make(NormalizedTable, 0, len(order))
	for _, idx := range order {
		out = append(out, *rows[idx])
	}
	return out
}

func columnName(headers map[int]string, col int) string {
	if h := headers[col]; strings.TrimSpace(h) != "" {
		return h
	}
	return "col" + strconv.Itoa(col)
}

// NormalizeTables normalizes every table, keeping order
func NormalizeTables(tables []Table) []NormalizedTable {
	out := make([]NormalizedTable, 0, len(tables))
	for _, t := range tables {
		out = append(out, NormalizeTable(t))
	}
	return out
}
