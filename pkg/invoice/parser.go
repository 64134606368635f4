package invoice

import (
	"context"
	"fmt"

	"docharvest/pkg/document"
	errs "docharvest/pkg/errors"
	"docharvest/pkg/logger"
)

// Pipeline event names
const (
	EventParsingStarted     = "INVOICE_PARSING_STARTED"
	EventPageProcessing     = "PAGE_PROCESSING"
	EventFieldWarning       = "FIELD_EXTRACTION_WARNING"
	EventLineItemsExtracted = "LINE_ITEMS_EXTRACTED"
	EventParsed             = "INVOICE_PARSED"
	EventParsingFailed      = "INVOICE_PARSING_FAILED"
)

// PageSource fetches the analysis of one page. Page numbers are 1-based.
// Implementations retry transient failures themselves; an error returned
// here aborts the run.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (document.Page, error)
}

// PageSourceFunc adapts a function to PageSource
type PageSourceFunc func(ctx context.Context, page int) (document.Page, error)

func (f PageSourceFunc) FetchPage(ctx context.Context, page int) (document.Page, error) {
	return f(ctx, page)
}

// Parser turns a multi-page document into one Record
type Parser struct {
	source  PageSource
	aliases *AliasTable
	events  logger.EventSink
	logger  logger.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithAliases overrides the default alias table
func WithAliases(a *AliasTable) Option {
	return func(p *Parser) {
		if a != nil {
			p.aliases = a
		}
	}
}

// WithEvents sets the event sink
func WithEvents(sink logger.EventSink) Option {
	return func(p *Parser) {
		if sink != nil {
			p.events = sink
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a parser reading pages from source
func NewParser(source PageSource, opts ...Option) *Parser {
	p := &Parser{
		source:  source,
		aliases: DefaultAliases(),
		events:  logger.NopEvents(),
		logger:  logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of a successful parse
type Result struct {
	Record *Record
	// Pages is the number of pages that contributed blocks
	Pages     int
	KeyValues document.KeyValueMap
	Tables    []document.NormalizedTable
	Warnings  []errs.Warning
}

// Parse fetches pages 1..pageCount in order, merges their key/value pairs
// (a later page overrides an earlier one) and tables, then normalizes the
// result. A page that cannot be resolved contributes nothing; a page that
// cannot be fetched fails the whole parse.
func (p *Parser) Parse(ctx context.Context, pageCount int) (*Result, error) {
	if pageCount < 1 {
		return nil, errs.New(errs.ErrorTypeInvalidInput, fmt.Sprintf("page count must be positive, got %d", pageCount), nil)
	}

	p.events.Event(EventParsingStarted, map[string]interface{}{"page_count": pageCount})

	res := &Result{KeyValues: document.KeyValueMap{}}
	var tables []document.Table

	for page := 1; page <= pageCount; page++ {
		p.events.Event(EventPageProcessing, map[string]interface{}{"page_number": page})

		blocks, err := p.fetch(ctx, page)
		if err != nil {
			p.events.Event(EventParsingFailed, map[string]interface{}{
				"page_number": page,
				"error":       err.Error(),
			})
			return nil, fmt.Errorf("parse invoice: %w", err)
		}

		resolved, err := document.Resolve(blocks)
		if err != nil {
			p.warn(res, errs.Warning{
				Type:    errs.WarningFieldExtraction,
				Page:    page,
				Subject: "page",
				Message: err.Error(),
			})
			continue
		}
		for _, w := range resolved.Warnings {
			w.Page = page
			p.warn(res, w)
		}

		p.logger.DebugWithFields("page resolved", map[string]interface{}{
			"page_number": page,
			"blocks":      len(blocks.Blocks),
			"key_values":  len(resolved.KeyValues),
			"tables":      len(resolved.Tables),
		})

		res.KeyValues.Merge(resolved.KeyValues)
		tables = append(tables, resolved.Tables...)
		res.Pages++
	}

	res.Tables = document.NormalizeTables(tables)
	res.Record = NormalizeFields(res.KeyValues, p.aliases)
	res.Record.LineItems = ParseLineItems(res.Tables, p.aliases)

	p.events.Event(EventLineItemsExtracted, map[string]interface{}{"count": len(res.Record.LineItems)})
	p.events.Event(EventParsed, map[string]interface{}{
		"pages":          res.Pages,
		"invoice_number": Value(res.Record.InvoiceNumber),
		"warnings":       len(res.Warnings),
	})

	return res, nil
}

func (p *Parser) fetch(ctx context.Context, page int) (document.Page, error) {
	if err := ctx.Err(); err != nil {
		return document.Page{}, &errs.FetchError{Page: page, Err: err}
	}
	blocks, err := p.source.FetchPage(ctx, page)
	if err != nil {
		if errs.IsFetchError(err) {
			return document.Page{}, err
		}
		return document.Page{}, &errs.FetchError{Page: page, Err: err}
	}
	return blocks, nil
}

func (p *Parser) warn(res *Result, w errs.Warning) {
	res.Warnings = append(res.Warnings, w)
	p.events.Event(EventFieldWarning, w.Fields())
}
