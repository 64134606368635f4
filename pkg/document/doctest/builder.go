// Package doctest builds synthetic analysis pages for tests.
package doctest

import (
	"fmt"
	"strings"

	"docharvest/pkg/document"
)

// Builder assembles a page block by block, generating ids
type Builder struct {
	prefix string
	next   int
	blocks []document.Block
}

// New creates a builder whose ids start with prefix
func New(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

func (b *Builder) id() string {
	b.next++
	return fmt.Sprintf("%s-%d", b.prefix, b.next)
}

// Add appends a raw block and returns its id, generating one if empty
func (b *Builder) Add(block document.Block) string {
	if block.ID == "" {
		block.ID = b.id()
	}
	b.blocks = append(b.blocks, block)
	return block.ID
}

// Words adds one WORD block per whitespace-separated token of text
func (b *Builder) Words(text string) []string {
	var ids []string
	for _, w := range strings.Fields(text) {
		ids = append(ids, b.Add(document.Block{BlockType: document.BlockWord, Text: w}))
	}
	return ids
}

func children(ids []string) []document.Relationship {
	if len(ids) == 0 {
		return nil
	}
	return []document.Relationship{{Type: document.RelationshipChild, IDs: ids}}
}

// KeyValue adds a KEY block and its VALUE block, both with word children
func (b *Builder) KeyValue(key, value string) (keyID, valueID string) {
	valueID = b.Add(document.Block{
		BlockType:     document.BlockKeyValueSet,
		EntityTypes:   []document.EntityType{document.EntityValue},
		Relationships: children(b.Words(value)),
	})
	rels := children(b.Words(key))
	rels = append(rels, document.Relationship{Type: document.RelationshipValue, IDs: []string{valueID}})
	keyID = b.Add(document.Block{
		BlockType:     document.BlockKeyValueSet,
		EntityTypes:   []document.EntityType{document.EntityKey},
		Relationships: rels,
	})
	return keyID, valueID
}

// CellSpec describes one table cell
type CellSpec struct {
	Row, Col int
	Text     string
	Header   bool
}

// Table adds a TABLE block owning one CELL per CellSpec, in argument order
func (b *Builder) Table(cells ...CellSpec) string {
	var ids []string
	for _, c := range cells {
		block := document.Block{
			BlockType:     document.BlockCell,
			RowIndex:      c.Row,
			ColumnIndex:   c.Col,
			Relationships: children(b.Words(c.Text)),
		}
		if c.Header {
			block.EntityTypes = []document.EntityType{document.EntityColumnHeader}
		}
		ids = append(ids, b.Add(block))
	}
	return b.Add(document.Block{
		BlockType:     document.BlockTable,
		Relationships: children(ids),
	})
}

// Page returns the assembled page
func (b *Builder) Page() document.Page {
	blocks := make([]document.Block, len(b.blocks))
	copy(blocks, b.blocks)
	return document.Page{Blocks: blocks}
}
