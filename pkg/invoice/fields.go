package invoice

import (
	"strings"

	"docharvest/pkg/document"
)

// NormalizeFields maps extracted key/value pairs onto the invoice header
// fields. The returned record has no line items.
func NormalizeFields(kv document.KeyValueMap, aliases *AliasTable) *Record {
	if aliases == nil {
		aliases = DefaultAliases()
	}

	lookup := foldKeys(kv)

	rec := &Record{
		InvoiceNumber: pick(kv, lookup, aliases.Fields.InvoiceNumber),
		IssueDate:     pick(kv, lookup, aliases.Fields.IssueDate),
		DueDate:       pick(kv, lookup, aliases.Fields.DueDate),
		SupplierName:  pick(kv, lookup, aliases.Fields.SupplierName),
		InvoiceTotal:  pick(kv, lookup, aliases.Fields.InvoiceTotal),
	}
	rec.Currency = InferCurrency(rec.InvoiceTotal, aliases.Currencies)
	return rec
}

// foldKeys indexes kv by canonical key. When several keys fold to the same
// form, a key already in canonical form wins, then the smallest key.
func foldKeys(kv document.KeyValueMap) map[string]string {
	owner := make(map[string]string, len(kv))
	for k := range kv {
		c := canonical(k)
		prev, seen := owner[c]
		if !seen || (prev != c && (k == c || k < prev)) {
			owner[c] = k
		}
	}
	lookup := make(map[string]string, len(owner))
	for c, k := range owner {
		lookup[c] = kv[k]
	}
	return lookup
}

// lookupAlias matches alias exactly first, then by canonical form
func lookupAlias(kv document.KeyValueMap, folded map[string]string, alias string) (string, bool) {
	if v, ok := kv[alias]; ok {
		return v, true
	}
	v, ok := folded[canonical(alias)]
	return v, ok
}

// pick returns the value of the first alias with non-blank text. If only
// blank matches exist the result is an empty string; with no match it is nil.
func pick(kv document.KeyValueMap, folded map[string]string, aliases []string) *string {
	var blank *string
	for _, alias := range aliases {
		v, ok := lookupAlias(kv, folded, alias)
		if !ok {
			continue
		}
		if strings.TrimSpace(v) != "" {
			return ptr(v)
		}
		if blank == nil {
			blank = ptr(v)
		}
	}
	return blank
}

// InferCurrency returns the code of the first symbol contained in total
func InferCurrency(total *string, symbols []CurrencySymbol) *string {
	if total == nil || *total == "" {
		return nil
	}
	for _, s := range symbols {
		if strings.Contains(*total, s.Symbol) {
			return ptr(s.Code)
		}
	}
	return nil
}
