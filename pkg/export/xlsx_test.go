package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docharvest/pkg/invoice"
	"docharvest/pkg/models"
)

func str(s string) *string { return &s }

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestInvoiceXLSX(t *testing.T) {
	rec := &invoice.Record{
		InvoiceNumber: str("FT-118"),
		SupplierName:  str("Rossi S.r.l."),
		InvoiceTotal:  str("€ 35,00"),
		Currency:      str("EUR"),
		LineItems: []invoice.LineItem{
			{Description: "Widget X", Quantity: "3", UnitPrice: str("12.50"), Total: str("37.50")},
			{Description: "Sconto", Quantity: "1", UnitPrice: str("-2.50")},
		},
	}

	data, err := InvoiceXLSX(rec)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{InvoiceSheet, LineItemsSheet}, f.GetSheetList())

	summary, err := f.GetRows(InvoiceSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary), 6)
	assert.Equal(t, []string{"Invoice Number", "FT-118"}, summary[0])
	// unset fields are left blank
	assert.Equal(t, []string{"Issue Date"}, summary[1])
	assert.Equal(t, []string{"Currency", "EUR"}, summary[5])

	items, err := f.GetRows(LineItemsSheet)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Description", "Quantity", "Unit Price", "Total"}, items[0])
	assert.Equal(t, []string{"Widget X", "3", "12.50", "37.50"}, items[1])
	assert.Equal(t, []string{"Sconto", "1", "-2.50"}, items[2])
}

func TestInvoiceXLSXEmptyRecord(t *testing.T) {
	data, err := InvoiceXLSX(&invoice.Record{LineItems: []invoice.LineItem{}})
	require.NoError(t, err)

	items, err := open(t, data).GetRows(LineItemsSheet)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = InvoiceXLSX(nil)
	assert.Error(t, err)
}

func TestPostsXLSX(t *testing.T) {
	report := &models.PostsReport{
		ProfileURL: "https://example.com/in/someone",
		Posts: []models.Post{
			{
				PostID:         7123,
				AuthorName:     "Ada",
				PostedAt:       str("2024-03-01T10:00:00Z"),
				Text:           "hello #go",
				Hashtags:       []string{"#go", "#dev"},
				Links:          []string{"https://go.dev"},
				ReactionsCount: 12,
				CommentsCount:  3,
			},
			{PostID: 2, AuthorName: "Bob"},
		},
	}

	data, err := PostsXLSX(report)
	require.NoError(t, err)

	rows, err := open(t, data).GetRows(PostsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Post ID", rows[0][0])
	assert.Equal(t, []string{"7123", "Ada", "2024-03-01T10:00:00Z", "12", "3", "#go #dev", "https://go.dev", "hello #go"}, rows[1])
	assert.Equal(t, "Bob", rows[2][1])
	assert.Equal(t, "", rows[2][2])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "àè", truncate("àèì", 2))
	assert.Equal(t, "ab", truncate("ab", 5))
}
