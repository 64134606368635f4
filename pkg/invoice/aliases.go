package invoice

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// AliasTable lists, per canonical field, the document labels it may appear
// under, in priority order
type AliasTable struct {
	Fields     FieldAliases     `yaml:"fields" json:"fields"`
	Currencies []CurrencySymbol `yaml:"currencies" json:"currencies"`
	Columns    ColumnAliases    `yaml:"columns" json:"columns"`
}

// FieldAliases holds key aliases for the header fields
type FieldAliases struct {
	InvoiceNumber []string `yaml:"invoice_number" json:"invoice_number"`
	IssueDate     []string `yaml:"issue_date" json:"issue_date"`
	DueDate       []string `yaml:"due_date" json:"due_date"`
	SupplierName  []string `yaml:"supplier_name" json:"supplier_name"`
	InvoiceTotal  []string `yaml:"invoice_total" json:"invoice_total"`
}

// CurrencySymbol maps a symbol found in the total to a currency code.
// The first matching entry wins.
type CurrencySymbol struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Code   string `yaml:"code" json:"code"`
}

// ColumnAliases holds table header aliases for line items
type ColumnAliases struct {
	Description []string `yaml:"description" json:"description"`
	Quantity    []string `yaml:"quantity" json:"quantity"`
}

// DefaultAliases returns the labels used by Italian-layout invoices.
// DATA serves both dates; the scanned layouts print a single date.
func DefaultAliases() *AliasTable {
	return &AliasTable{
		Fields: FieldAliases{
			InvoiceNumber: []string{"NUMERO DOCUMENTO", "No."},
			IssueDate:     []string{"DATA DOCUMENTO", "DATA"},
			DueDate:       []string{"DATA"},
			SupplierName:  []string{"Supplier", "Vendor"},
			InvoiceTotal:  []string{"TOTALE DOCUMENTO"},
		},
		Currencies: []CurrencySymbol{
			{Symbol: "€", Code: "EUR"},
			{Symbol: "$", Code: "USD"},
		},
		Columns: ColumnAliases{
			Description: []string{"DESCRIZIONE"},
			Quantity:    []string{"QUANTITA'"},
		},
	}
}

// LoadAliases reads an alias table from YAML. Sections missing from the
// file keep their defaults.
func LoadAliases(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	table := DefaultAliases()
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid alias file %s: %w", path, err)
	}
	return table, nil
}

// Validate checks that every alias list is usable
func (a *AliasTable) Validate() error {
	var errs []error

	lists := map[string][]string{
		"fields.invoice_number": a.Fields.InvoiceNumber,
		"fields.issue_date":     a.Fields.IssueDate,
		"fields.due_date":       a.Fields.DueDate,
		"fields.supplier_name":  a.Fields.SupplierName,
		"fields.invoice_total":  a.Fields.InvoiceTotal,
		"columns.description":   a.Columns.Description,
		"columns.quantity":      a.Columns.Quantity,
	}
	for name, aliases := range lists {
		if len(aliases) == 0 {
			errs = append(errs, fmt.Errorf("%s needs at least one alias", name))
		}
		for _, alias := range aliases {
			if strings.TrimSpace(alias) == "" {
				errs = append(errs, fmt.Errorf("%s contains a blank alias", name))
			}
		}
	}
	for i, c := range a.Currencies {
		if c.Symbol == "" || c.Code == "" {
			errs = append(errs, fmt.Errorf("currencies[%d] needs both symbol and code", i))
		}
	}

	return errors.Join(errs...)
}

// canonical folds a label for comparison: NFC so that precomposed and
// combining accents match
func canonical(s string) string {
	return norm.NFC.String(s)
}
