package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"docharvest/pkg/invoice"
	"docharvest/pkg/models"
)

// Sheet names
const (
	InvoiceSheet   = "Invoice"
	LineItemsSheet = "Line Items"
	PostsSheet     = "Posts"
)

// InvoiceXLSX returns a workbook with a summary sheet holding the header
// fields of rec and a second sheet listing its line items.
func InvoiceXLSX(rec *invoice.Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("xlsx: nil record")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := renameDefault(f, InvoiceSheet); err != nil {
		return nil, err
	}

	summary := [][2]string{
		{"Invoice Number", invoice.Value(rec.InvoiceNumber)},
		{"Issue Date", invoice.Value(rec.IssueDate)},
		{"Due Date", invoice.Value(rec.DueDate)},
		{"Supplier", invoice.Value(rec.SupplierName)},
		{"Total", invoice.Value(rec.InvoiceTotal)},
		{"Currency", invoice.Value(rec.Currency)},
		{"Line Items", fmt.Sprint(len(rec.LineItems))},
	}
	for i, kv := range summary {
		setRow(f, InvoiceSheet, i+1, kv[0], kv[1])
	}
	_ = f.SetColWidth(InvoiceSheet, "A", "A", 18)
	_ = f.SetColWidth(InvoiceSheet, "B", "B", 40)

	if _, err := f.NewSheet(LineItemsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	setRow(f, LineItemsSheet, 1, "Description", "Quantity", "Unit Price", "Total")
	for i, item := range rec.LineItems {
		setRow(f, LineItemsSheet, i+2,
			item.Description,
			item.Quantity,
			invoice.Value(item.UnitPrice),
			invoice.Value(item.Total),
		)
	}
	_ = f.SetColWidth(LineItemsSheet, "A", "A", 48)
	_ = f.SetColWidth(LineItemsSheet, "B", "D", 14)

	return write(f, InvoiceSheet)
}

// PostsXLSX returns a workbook with one row per scraped post
func PostsXLSX(report *models.PostsReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xlsx: nil report")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := renameDefault(f, PostsSheet); err != nil {
		return nil, err
	}

	setRow(f, PostsSheet, 1, "Post ID", "Author", "Posted At", "Reactions", "Comments", "Hashtags", "Links", "Text")
	for i, p := range report.Posts {
		row := i + 2
		postedAt := ""
		if p.PostedAt != nil {
			postedAt = *p.PostedAt
		}
		setRow(f, PostsSheet, row,
			p.PostID,
			p.AuthorName,
			postedAt,
			p.ReactionsCount,
			p.CommentsCount,
			strings.Join(p.Hashtags, " "),
			strings.Join(p.Links, "\n"),
			truncate(p.Text, 32000),
		)
	}

	_ = f.SetColWidth(PostsSheet, "A", "A", 22)
	_ = f.SetColWidth(PostsSheet, "B", "B", 24)
	_ = f.SetColWidth(PostsSheet, "C", "C", 22)
	_ = f.SetColWidth(PostsSheet, "D", "E", 11)
	_ = f.SetColWidth(PostsSheet, "F", "G", 30)
	_ = f.SetColWidth(PostsSheet, "H", "H", 80)

	return write(f, PostsSheet)
}

// renameDefault turns the workbook's initial sheet into name
func renameDefault(f *excelize.File, name string) error {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func write(f *excelize.File, active string) ([]byte, error) {
	if index, err := f.GetSheetIndex(active); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate caps s at n runes; Excel rejects longer cell text
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
