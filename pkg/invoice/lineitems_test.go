package invoice

import (
	"testing"

	"docharvest/pkg/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(rows ...document.Row) []document.NormalizedTable {
	return []document.NormalizedTable{rows}
}

func TestParseLineItemsDefaultsQuantityAndReadsAmounts(t *testing.T) {
	items := ParseLineItems(table(
		document.NewRow("DESCRIZIONE", "Widget X", "QUANTITA'", "", "col3", "12,50", "col4", "37,50"),
	), nil)

	require.Len(t, items, 1)
	assert.Equal(t, LineItem{
		Description: "Widget X",
		Quantity:    "1",
		UnitPrice:   ptr("12.50"),
		Total:       ptr("37.50"),
	}, items[0])
}

func TestParseLineItemsDropsShortDescriptions(t *testing.T) {
	items := ParseLineItems(table(
		document.NewRow("DESCRIZIONE", "ab", "QUANTITA'", "1", "col3", "5,00"),
		document.NewRow("DESCRIZIONE", "Çà", "col3", "5,00"),
		document.NewRow("DESCRIZIONE", "Çàè", "col3", "5,00"),
		document.NewRow("QUANTITA'", "4", "col3", "5,00"),
	), nil)

	require.Len(t, items, 1)
	assert.Equal(t, "Çàè", items[0].Description)
}

func TestParseLineItemsAmountSelection(t *testing.T) {
	tests := []struct {
		name      string
		row       document.Row
		quantity  string
		unitPrice *string
		total     *string
	}{
		{
			name:      "quantity column is not an amount",
			row:       document.NewRow("DESCRIZIONE", "Bolts M6", "QUANTITA'", "100", "PREZZO", "0,15", "IMPORTO", "15,00"),
			quantity:  "100",
			unitPrice: ptr("0.15"),
			total:     ptr("15.00"),
		},
		{
			name:      "third amount is discarded",
			row:       document.NewRow("DESCRIZIONE", "Gasket", "QUANTITA'", "2", "a", "3,00", "b", "6,00", "c", "22"),
			quantity:  "2",
			unitPrice: ptr("3.00"),
			total:     ptr("6.00"),
		},
		{
			name:      "non numeric cells are skipped",
			row:       document.NewRow("DESCRIZIONE", "Labour", "QUANTITA'", "1", "UM", "h", "PREZZO", "n/a", "IMPORTO", "45,00"),
			quantity:  "1",
			unitPrice: ptr("45.00"),
		},
		{
			name:     "no amounts",
			row:      document.NewRow("DESCRIZIONE", "Free sample", "QUANTITA'", " 3 "),
			quantity: "3",
		},
		{
			name:      "cells are trimmed before conversion",
			row:       document.NewRow("DESCRIZIONE", "  Cable tie  ", "col3", " 1,5 ", "col4", "EUR 7,5"),
			quantity:  "1",
			unitPrice: ptr("1.5"),
			total:     ptr("EUR 7.5"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ParseLineItems(table(tt.row), nil)
			require.Len(t, items, 1)
			assert.Equal(t, tt.quantity, items[0].Quantity)
			assert.Equal(t, tt.unitPrice, items[0].UnitPrice)
			assert.Equal(t, tt.total, items[0].Total)
		})
	}
}

func TestParseLineItemsOnlyFirstTable(t *testing.T) {
	tables := []document.NormalizedTable{
		{document.NewRow("DESCRIZIONE", "First table row")},
		{document.NewRow("DESCRIZIONE", "Second table row")},
	}

	items := ParseLineItems(tables, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "First table row", items[0].Description)
}

func TestParseLineItemsNoTables(t *testing.T) {
	items := ParseLineItems(nil, nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	assert.Empty(t, ParseLineItems([]document.NormalizedTable{{}}, nil))
}

func TestParseLineItemsCustomColumns(t *testing.T) {
	aliases := DefaultAliases()
	aliases.Columns.Description = []string{"Description", "DESCRIZIONE"}
	aliases.Columns.Quantity = []string{"Qty"}

	items := ParseLineItems(table(
		document.NewRow("Qty", "2", "Description", "Hinge", "Unit", "4.00", "Amount", "8.00"),
	), aliases)

	require.Len(t, items, 1)
	assert.Equal(t, LineItem{Description: "Hinge", Quantity: "2", UnitPrice: ptr("4.00"), Total: ptr("8.00")}, items[0])
}
