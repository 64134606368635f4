// Package invoice turns per-page document analysis into a single canonical
// invoice record.
//
// A Parser pulls pages 1..N from a PageSource, resolves each page's block
// graph with package document, merges the key/value pairs across pages (a
// later page overrides an earlier one) and then maps labels onto canonical
// fields through an AliasTable:
//
//	source := textract.NewFileSource(client, "invoice_page_{i}.png", nil)
//	parser := invoice.NewParser(source, invoice.WithEvents(events))
//	res, err := parser.Parse(ctx, 2)
//	if err != nil {
//	    return err // a page could not be fetched
//	}
//	fmt.Println(invoice.Value(res.Record.InvoiceTotal))
//
// Labels are matched exactly after Unicode NFC normalization. Line items are
// read from the first table only.
package invoice
