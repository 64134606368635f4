package document_test

import (
	"encoding/json"
	"testing"

	"docharvest/pkg/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header() *document.EntityType {
	h := document.EntityColumnHeader
	return &h
}

func rowValues(t *testing.T, r document.Row) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, c := range r.Columns() {
		v, ok := r.Get(c)
		require.True(t, ok)
		out[c] = v
	}
	return out
}

func TestNormalizeTableFirstRowIsHeader(t *testing.T) {
	table := document.Table{Cells: []document.Cell{
		{Row: 1, Col: 1, Text: "DESCRIZIONE", Role: header()},
		{Row: 1, Col: 2, Text: "QUANTITA'"},
		{Row: 2, Col: 1, Text: "Widget"},
		{Row: 2, Col: 2, Text: "3"},
	}}

	rows := document.NormalizeTable(table)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]string{"DESCRIZIONE": "Widget", "QUANTITA'": "3"}, rowValues(t, rows[0]))
	assert.Equal(t, []string{"DESCRIZIONE", "QUANTITA'"}, rows[0].Columns())
}

func TestNormalizeTableMissingHeaderFallsBackToPosition(t *testing.T) {
	table := document.Table{Cells: []document.Cell{
		{Row: 1, Col: 1, Text: "DESCRIZIONE"},
		{Row: 1, Col: 2, Text: ""},
		{Row: 2, Col: 1, Text: "Bolt"},
		{Row: 2, Col: 2, Text: "10"},
		{Row: 2, Col: 3, Text: "0,20"},
	}}

	rows := document.NormalizeTable(table)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"DESCRIZIONE", "col2", "col3"}, rows[0].Columns())
}

func TestNormalizeTableHeaderRoleOutsideFirstRow(t *testing.T) {
	table := document.Table{Cells: []document.Cell{
		{Row: 1, Col: 1, Text: "Invoice lines"},
		{Row: 2, Col: 1, Text: "Item", Role: header()},
		{Row: 3, Col: 1, Text: "Nut"},
		{Row: 4, Col: 1, Text: "Washer"},
	}}

	rows := document.NormalizeTable(table)
	require.Len(t, rows, 2)
	// the later header cell for the same column overrides the first
	assert.Equal(t, map[string]string{"Item": "Nut"}, rowValues(t, rows[0]))
	assert.Equal(t, map[string]string{"Item": "Washer"}, rowValues(t, rows[1]))
}

func TestNormalizeTableRowOrderFollowsFirstAppearance(t *testing.T) {
	table := document.Table{Cells: []document.Cell{
		{Row: 1, Col: 1, Text: "A"},
		{Row: 5, Col: 1, Text: "five"},
		{Row: 3, Col: 1, Text: "three"},
		{Row: 5, Col: 2, Text: "five-b"},
	}}

	rows := document.NormalizeTable(table)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"A": "five", "col2": "five-b"}, rowValues(t, rows[0]))
	assert.Equal(t, map[string]string{"A": "three"}, rowValues(t, rows[1]))
}

func TestNormalizeTableHeaderOnly(t *testing.T) {
	table := document.Table{Cells: []document.Cell{{Row: 1, Col: 1, Text: "DESCRIZIONE"}}}
	assert.Empty(t, document.NormalizeTable(table))
	assert.Empty(t, document.NormalizeTable(document.Table{}))
}

func TestNormalizeTables(t *testing.T) {
	out := document.NormalizeTables([]document.Table{
		{Cells: []document.Cell{{Row: 1, Col: 1, Text: "H"}, {Row: 2, Col: 1, Text: "x"}}},
		{},
	})
	require.Len(t, out, 2)
	assert.Len(t, out[0], 1)
	assert.Empty(t, out[1])
}

func TestRowSetKeepsFirstPosition(t *testing.T) {
	r := document.NewRow("b", "1", "a", "2")
	r.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, r.Columns())
	v, _ := r.Get("b")
	assert.Equal(t, "3", v)
	assert.Equal(t, 2, r.Len())

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestRowMarshalJSONKeepsOrder(t *testing.T) {
	r := document.NewRow("QUANTITA'", "2", "DESCRIZIONE", "Caffè espresso")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"QUANTITA'":"2","DESCRIZIONE":"Caffè espresso"}`, string(data))

	empty, err := json.Marshal(document.Row{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}
