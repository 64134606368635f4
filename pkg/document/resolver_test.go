package document_test

import (
	"strings"
	"testing"

	"docharvest/pkg/document"
	"docharvest/pkg/document/doctest"
	errs "docharvest/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(id, text string) document.Block {
	return document.Block{ID: id, BlockType: document.BlockWord, Text: text}
}

func child(ids ...string) []document.Relationship {
	return []document.Relationship{{Type: document.RelationshipChild, IDs: ids}}
}

func TestResolveText(t *testing.T) {
	page := document.Page{Blocks: []document.Block{
		word("w1", "Hello"),
		word("w2", "World"),
		{ID: "l1", BlockType: document.BlockLine, Text: "Whole line"},
		{ID: "s1", BlockType: document.BlockSelectionElement},
		{ID: "parent", BlockType: document.BlockCell, Relationships: child("w1", "w2")},
		{ID: "mixed", BlockType: document.BlockCell, Relationships: child("l1", "s1", "w2")},
		{ID: "empty", BlockType: document.BlockCell},
		{ID: "nested", BlockType: document.BlockCell, Relationships: child("parent")},
		{ID: "padded", BlockType: document.BlockCell, Relationships: child("w3")},
		word("w3", "  spaced  "),
	}}

	r, err := document.NewResolver(page)
	require.NoError(t, err)

	tests := []struct {
		id   string
		want string
	}{
		{"parent", "Hello World"},
		{"mixed", "Whole line World"},
		{"empty", ""},
		{"nested", ""}, // grandchildren are not followed
		{"padded", "spaced"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			b, ok := r.Index().Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.ResolveText(b))
		})
	}
	assert.Empty(t, r.Warnings())
}

func TestResolveTextMissingChild(t *testing.T) {
	page := document.Page{Blocks: []document.Block{
		word("w1", "Total"),
		{ID: "cell", BlockType: document.BlockCell, Relationships: child("w1", "ghost")},
	}}
	r, err := document.NewResolver(page)
	require.NoError(t, err)

	b, _ := r.Index().Lookup("cell")
	assert.Equal(t, "Total", r.ResolveText(b))

	require.Len(t, r.Warnings(), 1)
	w := r.Warnings()[0]
	assert.Equal(t, errs.WarningFieldExtraction, w.Type)
	assert.Equal(t, "ghost", w.Subject)
}

func TestKeyValues(t *testing.T) {
	b := doctest.New("p1")
	b.KeyValue("NUMERO DOCUMENTO", "INV-001")
	b.KeyValue("TOTALE DOCUMENTO", "€ 1.234,50")

	r, err := document.NewResolver(b.Page())
	require.NoError(t, err)

	kv := r.KeyValues()
	assert.Equal(t, document.KeyValueMap{
		"NUMERO DOCUMENTO": "INV-001",
		"TOTALE DOCUMENTO": "€ 1.234,50",
	}, kv)
}

func TestKeyValuesKeyWithoutValueIsOmitted(t *testing.T) {
	b := doctest.New("p1")
	b.Add(document.Block{
		ID:            "k1",
		BlockType:     document.BlockKeyValueSet,
		EntityTypes:   []document.EntityType{document.EntityKey},
		Relationships: child(b.Words("Vendor")...),
	})

	r, err := document.NewResolver(b.Page())
	require.NoError(t, err)
	assert.Empty(t, r.KeyValues())
}

func TestKeyValuesLastValueWins(t *testing.T) {
	page := document.Page{Blocks: []document.Block{
		word("w1", "DATA"),
		word("w2", "01/02/2024"),
		word("w3", "15/02/2024"),
		{ID: "v1", BlockType: document.BlockKeyValueSet, EntityTypes: []document.EntityType{document.EntityValue}, Relationships: child("w2")},
		{ID: "v2", BlockType: document.BlockKeyValueSet, EntityTypes: []document.EntityType{document.EntityValue}, Relationships: child("w3")},
		{
			ID:          "k1",
			BlockType:   document.BlockKeyValueSet,
			EntityTypes: []document.EntityType{document.EntityKey},
			Relationships: []document.Relationship{
				{Type: document.RelationshipChild, IDs: []string{"w1"}},
				{Type: document.RelationshipValue, IDs: []string{"v1", "v2"}},
			},
		},
	}}

	r, err := document.NewResolver(page)
	require.NoError(t, err)
	assert.Equal(t, "15/02/2024", r.KeyValues()["DATA"])
}

func TestKeyValuesIgnoresValueBlocksAndDanglingValues(t *testing.T) {
	page := document.Page{Blocks: []document.Block{
		word("w1", "Supplier"),
		{ID: "v0", BlockType: document.BlockKeyValueSet, EntityTypes: []document.EntityType{document.EntityValue}, Relationships: child("w1")},
		{
			ID:          "k1",
			BlockType:   document.BlockKeyValueSet,
			EntityTypes: []document.EntityType{document.EntityKey},
			Relationships: []document.Relationship{
				{Type: document.RelationshipChild, IDs: []string{"w1"}},
				{Type: document.RelationshipValue, IDs: []string{"missing"}},
			},
		},
	}}

	r, err := document.NewResolver(page)
	require.NoError(t, err)
	assert.Empty(t, r.KeyValues())
	require.Len(t, r.Warnings(), 1)
	assert.Equal(t, "missing", r.Warnings()[0].Subject)
}

func TestTables(t *testing.T) {
	b := doctest.New("p1")
	b.Table(
		doctest.CellSpec{Row: 1, Col: 1, Text: "DESCRIZIONE", Header: true},
		doctest.CellSpec{Row: 1, Col: 2, Text: "QUANTITA'"},
		doctest.CellSpec{Row: 2, Col: 1, Text: "Widget"},
		doctest.CellSpec{Row: 2, Col: 2, Text: "3"},
	)
	// words that belong to no table must not show up
	b.Words("stray")

	r, err := document.NewResolver(b.Page())
	require.NoError(t, err)

	tables := r.Tables()
	require.Len(t, tables, 1)
	cells := tables[0].Cells
	require.Len(t, cells, 4)

	require.NotNil(t, cells[0].Role)
	assert.Equal(t, document.EntityColumnHeader, *cells[0].Role)
	assert.Nil(t, cells[1].Role)
	assert.Equal(t, document.Cell{Row: 2, Col: 1, Text: "Widget"}, cells[2])
}

func TestTablesSkipMissingAndNonCellChildren(t *testing.T) {
	page := document.Page{Blocks: []document.Block{
		word("w1", "12,50"),
		{ID: "c1", BlockType: document.BlockCell, RowIndex: 2, ColumnIndex: 3, Relationships: child("w1")},
		{ID: "m1", BlockType: document.BlockMergedCell, RowIndex: 2, ColumnIndex: 1},
		{ID: "t1", BlockType: document.BlockTable, Relationships: child("c1", "m1", "gone")},
	}}

	r, err := document.NewResolver(page)
	require.NoError(t, err)

	tables := r.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, []document.Cell{{Row: 2, Col: 3, Text: "12,50"}}, tables[0].Cells)
	assert.Len(t, r.Warnings(), 1)
}

func TestNewResolverRejectsMalformedPages(t *testing.T) {
	_, err := document.NewResolver(document.Page{Blocks: []document.Block{word("a", "x"), word("a", "y")}})
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
	assert.Contains(t, err.Error(), `duplicate block id "a"`)

	_, err = document.NewResolver(document.Page{Blocks: []document.Block{{BlockType: document.BlockWord}}})
	assert.Error(t, err)
}

func TestResolveEmptyPage(t *testing.T) {
	res, err := document.Resolve(document.Page{})
	require.NoError(t, err)
	assert.Empty(t, res.KeyValues)
	assert.Empty(t, res.Tables)
	assert.Empty(t, res.Warnings)
}

func TestDecodePage(t *testing.T) {
	raw := `{
	  "DocumentMetadata": {"Pages": 1},
	  "Blocks": [
	    {"BlockType": "WORD", "Id": "w1", "Text": "No.", "Confidence": 99.1, "Geometry": {"BoundingBox": {}}},
	    {"BlockType": "WORD", "Id": "w2", "Text": "42"},
	    {"BlockType": "KEY_VALUE_SET", "Id": "v1", "EntityTypes": ["VALUE"],
	     "Relationships": [{"Type": "CHILD", "Ids": ["w2"]}]},
	    {"BlockType": "KEY_VALUE_SET", "Id": "k1", "EntityTypes": ["KEY"],
	     "Relationships": [{"Type": "VALUE", "Ids": ["v1"]}, {"Type": "CHILD", "Ids": ["w1"]}]}
	  ]
	}`

	page, err := document.DecodePage(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, page.Blocks, 4)
	assert.InDelta(t, 99.1, page.Blocks[0].Confidence, 0.001)

	res, err := document.Resolve(page)
	require.NoError(t, err)
	assert.Equal(t, "42", res.KeyValues["No."])
}

func TestDecodePageInvalid(t *testing.T) {
	_, err := document.DecodePage(strings.NewReader(`{"Blocks": [`))
	assert.Error(t, err)
}

func TestKeyValueMapMerge(t *testing.T) {
	m := document.KeyValueMap{"DATA": "01/01/2024", "No.": "7"}
	m.Merge(document.KeyValueMap{"DATA": "02/01/2024", "Vendor": "ACME"})
	assert.Equal(t, document.KeyValueMap{"DATA": "02/01/2024", "No.": "7", "Vendor": "ACME"}, m)
}
