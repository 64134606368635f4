package document

import (
	"fmt"
	"strings"

	errs "docharvest/pkg/errors"
)

// KeyValueMap maps resolved key text to resolved value text
type KeyValueMap map[string]string

// Merge copies other into m; keys already in m are overwritten
func (m KeyValueMap) Merge(other KeyValueMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Resolver walks the block graph of a single page. Dangling references are
// skipped and recorded as warnings instead of failing the page.
type Resolver struct {
	index    *Index
	warnings []errs.Warning
}

// NewResolver indexes page. An error means the page is malformed and can
// contribute nothing.
func NewResolver(page Page) (*Resolver, error) {
	ix, err := NewIndex(page.Blocks)
	if err != nil {
		return nil, err
	}
	return &Resolver{index: ix}, nil
}

// Index returns the underlying block index
func (r *Resolver) Index() *Index {
	return r.index
}

// Warnings returns the problems met so far, in discovery order
func (r *Resolver) Warnings() []errs.Warning {
	return r.warnings
}

func (r *Resolver) lookup(id, from string) (*Block, bool) {
	b, ok := r.index.Lookup(id)
	if !ok {
		r.warnings = append(r.warnings, errs.Warning{
			Type:    errs.WarningFieldExtraction,
			Subject: id,
			Message: fmt.Sprintf("block %s references missing block", from),
		})
	}
	return b, ok
}

// ResolveText joins the text of the WORD and LINE blocks directly under b
// with single spaces. Only one level of CHILD edges is followed.
func (r *Resolver) ResolveText(b *Block) string {
	var parts []string
	for _, id := range b.Targets(RelationshipChild) {
		child, ok := r.lookup(id, b.ID)
		if !ok {
			continue
		}
		if child.BlockType != BlockWord && child.BlockType != BlockLine {
			continue
		}
		if child.Text != "" {
			parts = append(parts, child.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// KeyValues pairs every KEY block with the text of its VALUE targets. When a
// key has several VALUE targets the last one wins; a key with none is omitted.
func (r *Resolver) KeyValues() KeyValueMap {
	kv := KeyValueMap{}
	blocks := r.index.Blocks()
	for i := range blocks {
		b := &blocks[i]
		if b.BlockType != BlockKeyValueSet || !b.HasEntityType(EntityKey) {
			continue
		}
		key := r.ResolveText(b)
		for _, id := range b.Targets(RelationshipValue) {
			value, ok := r.lookup(id, b.ID)
			if !ok {
				continue
			}
			kv[key] = r.ResolveText(value)
		}
	}
	return kv
}

// Tables extracts the CELL children of every TABLE block
func (r *Resolver) Tables() []Table {
	var tables []Table
	blocks := r.index.Blocks()
	for i := range blocks {
		b := &blocks[i]
		if b.BlockType != BlockTable {
			continue
		}
		table := Table{ID: b.ID}
		for _, id := range b.Targets(RelationshipChild) {
			cell, ok := r.lookup(id, b.ID)
			if !ok || cell.BlockType != BlockCell {
				continue
			}
			var role *EntityType
			if len(cell.EntityTypes) > 0 {
				et := cell.EntityTypes[0]
				role = &et
			}
			table.Cells = append(table.Cells, Cell{
				Row:  cell.RowIndex,
				Col:  cell.ColumnIndex,
				Text: r.ResolveText(cell),
				Role: role,
			})
		}
		tables = append(tables, table)
	}
	return tables
}

// Result is everything extracted from one page
type Result struct {
	KeyValues KeyValueMap
	Tables    []Table
	Warnings  []errs.Warning
}

// Resolve runs the full extraction over page
func Resolve(page Page) (*Result, error) {
	r, err := NewResolver(page)
	if err != nil {
		return nil, err
	}
	kv := r.KeyValues()
	tables := r.Tables()
	return &Result{KeyValues: kv, Tables: tables, Warnings: r.Warnings()}, nil
}
