package invoice

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"docharvest/pkg/document"
)

var amountPattern = regexp.MustCompile(`\d+(\.\d{1,2})?`)

// rows whose description is shorter than this are dropped
const minDescriptionRunes = 3

// ParseLineItems maps the rows of the first table onto line items. Other
// tables are ignored.
//
// Per row, the description and quantity come from their aliased columns.
// Every other non-empty cell, in column order, has its decimal comma turned
// into a dot; the first cell that looks numeric becomes the unit price and
// the second the total.
func ParseLineItems(tables []document.NormalizedTable, aliases *AliasTable) []LineItem {
	if aliases == nil {
		aliases = DefaultAliases()
	}

	items := []LineItem{}
	if len(tables) == 0 {
		return items
	}

	for _, row := range tables[0] {
		descCol, desc := column(row, aliases.Columns.Description)
		qtyCol, qty := column(row, aliases.Columns.Quantity)
		desc = strings.TrimSpace(desc)
		qty = strings.TrimSpace(qty)
		if qty == "" && desc != "" {
			qty = "1"
		}

		var unitPrice, total *string
		for _, col := range row.Columns() {
			if col == descCol || col == qtyCol {
				continue
			}
			raw, _ := row.Get(col)
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			amount := strings.ReplaceAll(raw, ",", ".")
			if !amountPattern.MatchString(amount) {
				continue
			}
			if unitPrice == nil {
				unitPrice = ptr(amount)
			} else {
				total = ptr(amount)
				break
			}
		}

		if utf8.RuneCountInString(desc) < minDescriptionRunes {
			continue
		}
		items = append(items, LineItem{
			Description: desc,
			Quantity:    qty,
			UnitPrice:   unitPrice,
			Total:       total,
		})
	}
	return items
}

// column returns the name and text of the first aliased column present in row
func column(row document.Row, aliases []string) (string, string) {
	for _, alias := range aliases {
		want := canonical(alias)
		for _, col := range row.Columns() {
			if canonical(col) == want {
				v, _ := row.Get(col)
				return col, v
			}
		}
	}
	return "", ""
}
