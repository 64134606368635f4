package invoice

// Record is the canonical invoice. Nil fields were not found on any page
// and serialize as null.
type Record struct {
	InvoiceNumber *string    `json:"invoice_number"`
	IssueDate     *string    `json:"issue_date"`
	DueDate       *string    `json:"due_date"`
	SupplierName  *string    `json:"supplier_name"`
	InvoiceTotal  *string    `json:"invoice_total"`
	Currency      *string    `json:"currency"`
	LineItems     []LineItem `json:"line_items"`
}

// LineItem is one billed row. Amounts are kept as text with "." as the
// decimal separator.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
	Total       *string `json:"total"`
}

// Value dereferences an optional field, returning "" for nil
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	return &s
}

// Count returns the number of line items
func (r *Record) Count() int { return len(r.LineItems) }
