package invoice

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAliasFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultAliasesAreValid(t *testing.T) {
	assert.NoError(t, DefaultAliases().Validate())
}

func TestLoadAliasesOverlaysDefaults(t *testing.T) {
	path := writeAliasFile(t, `
fields:
  supplier_name: ["Ragione sociale", "Fornitore"]
currencies:
  - symbol: "£"
    code: GBP
`)

	table, err := LoadAliases(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Ragione sociale", "Fornitore"}, table.Fields.SupplierName)
	assert.Equal(t, []CurrencySymbol{{Symbol: "£", Code: "GBP"}}, table.Currencies)
	// untouched sections keep their defaults
	assert.Equal(t, []string{"NUMERO DOCUMENTO", "No."}, table.Fields.InvoiceNumber)
	assert.Equal(t, []string{"DESCRIZIONE"}, table.Columns.Description)
}

func TestLoadAliasesRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "empty alias list",
			content: "fields:\n  invoice_total: []\n",
			errText: "fields.invoice_total needs at least one alias",
		},
		{
			name:    "blank alias",
			content: "columns:\n  quantity: [\"  \"]\n",
			errText: "columns.quantity contains a blank alias",
		},
		{
			name:    "currency without code",
			content: "currencies:\n  - symbol: \"¥\"\n",
			errText: "currencies[0] needs both symbol and code",
		},
		{
			name:    "not yaml",
			content: "fields: [unterminated",
			errText: "failed to parse alias file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAliases(writeAliasFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoadAliasesMissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
