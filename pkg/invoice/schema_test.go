package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecord(t *testing.T) {
	rec := &Record{
		InvoiceNumber: ptr("FT-118"),
		InvoiceTotal:  ptr("€ 35,00"),
		Currency:      ptr("EUR"),
		LineItems: []LineItem{
			{Description: "Widget X", Quantity: "3", UnitPrice: ptr("12.50"), Total: ptr("37.50")},
			{Description: "Labour", Quantity: "1"},
		},
	}
	assert.NoError(t, ValidateRecord(rec))
}

func TestValidateJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "lowercase currency",
			data: `{"invoice_number":null,"issue_date":null,"due_date":null,"supplier_name":null,"invoice_total":null,"currency":"eur","line_items":[]}`,
		},
		{
			name: "missing line_items",
			data: `{"invoice_number":null,"issue_date":null,"due_date":null,"supplier_name":null,"invoice_total":null,"currency":null}`,
		},
		{
			name: "short description",
			data: `{"invoice_number":null,"issue_date":null,"due_date":null,"supplier_name":null,"invoice_total":null,"currency":null,
				"line_items":[{"description":"ab","quantity":"1","unit_price":null,"total":null}]}`,
		},
		{
			name: "numeric total",
			data: `{"invoice_number":null,"issue_date":null,"due_date":null,"supplier_name":null,"invoice_total":12.5,"currency":null,"line_items":[]}`,
		},
		{
			name: "unknown field",
			data: `{"invoice_number":null,"issue_date":null,"due_date":null,"supplier_name":null,"invoice_total":null,"currency":null,"line_items":[],"notes":"x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "record does not match schema")
		})
	}
}

func TestValidateJSONMalformed(t *testing.T) {
	err := ValidateJSON([]byte(`{`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal record")
}
