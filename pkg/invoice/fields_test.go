package invoice

import (
	"testing"

	"docharvest/pkg/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldsCurrencyFromTotal(t *testing.T) {
	rec := NormalizeFields(document.KeyValueMap{"TOTALE DOCUMENTO": "€ 1.234,50"}, nil)

	require.NotNil(t, rec.InvoiceTotal)
	assert.Equal(t, "€ 1.234,50", *rec.InvoiceTotal)
	require.NotNil(t, rec.Currency)
	assert.Equal(t, "EUR", *rec.Currency)

	assert.Nil(t, rec.InvoiceNumber)
	assert.Nil(t, rec.IssueDate)
	assert.Nil(t, rec.DueDate)
	assert.Nil(t, rec.SupplierName)
	assert.Nil(t, rec.LineItems)
}

func TestNormalizeFieldsAliasPriority(t *testing.T) {
	tests := []struct {
		name string
		kv   document.KeyValueMap
		want map[string]*string
	}{
		{
			name: "primary aliases",
			kv: document.KeyValueMap{
				"NUMERO DOCUMENTO": "FT-2024-118",
				"No.":              "118",
				"DATA DOCUMENTO":   "12/03/2024",
				"DATA":             "11/04/2024",
				"Supplier":         "Rossi S.r.l.",
				"Vendor":           "ignored",
			},
			want: map[string]*string{
				"invoice_number": ptr("FT-2024-118"),
				"issue_date":     ptr("12/03/2024"),
				"due_date":       ptr("11/04/2024"),
				"supplier_name":  ptr("Rossi S.r.l."),
			},
		},
		{
			name: "fallback aliases",
			kv: document.KeyValueMap{
				"No.":    "118",
				"DATA":   "11/04/2024",
				"Vendor": "Bianchi SpA",
			},
			want: map[string]*string{
				"invoice_number": ptr("118"),
				"issue_date":     ptr("11/04/2024"),
				"due_date":       ptr("11/04/2024"),
				"supplier_name":  ptr("Bianchi SpA"),
			},
		},
		{
			name: "blank primary falls through to populated fallback",
			kv:   document.KeyValueMap{"NUMERO DOCUMENTO": "", "No.": "42"},
			want: map[string]*string{"invoice_number": ptr("42")},
		},
		{
			name: "blank only match is kept as empty string",
			kv:   document.KeyValueMap{"NUMERO DOCUMENTO": ""},
			want: map[string]*string{"invoice_number": ptr("")},
		},
		{
			name: "labels are case sensitive",
			kv:   document.KeyValueMap{"numero documento": "x"},
			want: map[string]*string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NormalizeFields(tt.kv, DefaultAliases())
			got := map[string]*string{
				"invoice_number": rec.InvoiceNumber,
				"issue_date":     rec.IssueDate,
				"due_date":       rec.DueDate,
				"supplier_name":  rec.SupplierName,
			}
			for field, value := range got {
				want, ok := tt.want[field]
				if !ok {
					assert.Nil(t, value, field)
					continue
				}
				require.NotNil(t, value, field)
				assert.Equal(t, *want, *value, field)
			}
		})
	}
}

func TestInferCurrency(t *testing.T) {
	symbols := DefaultAliases().Currencies

	tests := []struct {
		total string
		want  *string
	}{
		{"€ 10,00", ptr("EUR")},
		{"10,00 €", ptr("EUR")},
		{"$12.00", ptr("USD")},
		{"€ 5 ($5.40)", ptr("EUR")},
		{"1.000,00", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCurrency(&tt.total, symbols))
		})
	}
	assert.Nil(t, InferCurrency(nil, symbols))
}

func TestNormalizeFieldsCustomAliasesAndUnicode(t *testing.T) {
	aliases := DefaultAliases()
	aliases.Fields.SupplierName = []string{"Ragione sociale", "Societ\u00e0"}
	aliases.Currencies = append([]CurrencySymbol{{Symbol: "CHF", Code: "CHF"}}, aliases.Currencies...)

	kv := document.KeyValueMap{
		"Societa\u0300":     "Verdi & Figli",
		"TOTALE DOCUMENTO": "CHF 99.00",
	}
	rec := NormalizeFields(kv, aliases)

	require.NotNil(t, rec.SupplierName, "decomposed label should match precomposed alias")
	assert.Equal(t, "Verdi & Figli", *rec.SupplierName)
	require.NotNil(t, rec.Currency)
	assert.Equal(t, "CHF", *rec.Currency)
}

func TestNormalizeFieldsPrefersExactKey(t *testing.T) {
	kv := document.KeyValueMap{
		"Caf\u00e9":  "A",
		"Cafe\u0301": "B",
	}
	tests := []struct {
		name  string
		alias string
		want  string
	}{
		{name: "precomposed alias", alias: "Caf\u00e9", want: "A"},
		{name: "decomposed alias", alias: "Cafe\u0301", want: "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aliases := DefaultAliases()
			aliases.Fields.SupplierName = []string{tt.alias}

			for i := 0; i < 200; i++ {
				rec := NormalizeFields(kv, aliases)
				require.NotNil(t, rec.SupplierName)
				require.Equal(t, tt.want, *rec.SupplierName, "iteration %d", i)
			}
		})
	}
}

func TestNormalizeFieldsFoldedCollisionIsStable(t *testing.T) {
	// all three spellings fold to U+1EAD; the alias matches no key exactly
	aliases := DefaultAliases()
	aliases.Fields.SupplierName = []string{"a\u0323\u0302"}
	kv := document.KeyValueMap{
		"\u1ead":        "canonical",
		"a\u0302\u0323": "reordered",
	}

	for i := 0; i < 200; i++ {
		rec := NormalizeFields(kv, aliases)
		require.NotNil(t, rec.SupplierName)
		require.Equal(t, "canonical", *rec.SupplierName, "iteration %d", i)
	}

	noncanonical := document.KeyValueMap{
		"a\u0323\u0302": "dot first",
		"a\u0302\u0323": "hat first",
	}
	for i := 0; i < 200; i++ {
		require.Equal(t, map[string]string{"\u1ead": "hat first"}, foldKeys(noncanonical))
	}
}
