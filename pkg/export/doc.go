// Package export renders invoice records and post reports as XLSX
// workbooks.
package export
