package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// BlockType is the kind of an analysis block
type BlockType string

const (
	BlockPage             BlockType = "PAGE"
	BlockLine             BlockType = "LINE"
	BlockWord             BlockType = "WORD"
	BlockKeyValueSet      BlockType = "KEY_VALUE_SET"
	BlockTable            BlockType = "TABLE"
	BlockCell             BlockType = "CELL"
	BlockMergedCell       BlockType = "MERGED_CELL"
	BlockSelectionElement BlockType = "SELECTION_ELEMENT"
)

// EntityType is a semantic role tag on a block
type EntityType string

const (
	EntityKey          EntityType = "KEY"
	EntityValue        EntityType = "VALUE"
	EntityColumnHeader EntityType = "COLUMN_HEADER"
)

// RelationshipType is the kind of a directed edge between blocks
type RelationshipType string

const (
	RelationshipChild RelationshipType = "CHILD"
	RelationshipValue RelationshipType = "VALUE"
)

// Relationship is a typed edge to other blocks of the same page
type Relationship struct {
	Type RelationshipType `json:"Type"`
	IDs  []string         `json:"Ids"`
}

// Block is one node of the analysis graph. Field names follow the wire
// format of the analysis response.
type Block struct {
	ID            string         `json:"Id"`
	BlockType     BlockType      `json:"BlockType"`
	Text          string         `json:"Text,omitempty"`
	EntityTypes   []EntityType   `json:"EntityTypes,omitempty"`
	Relationships []Relationship `json:"Relationships,omitempty"`
	RowIndex      int            `json:"RowIndex,omitempty"`
	ColumnIndex   int            `json:"ColumnIndex,omitempty"`
	Confidence    float64        `json:"Confidence,omitempty"`
	Page          int            `json:"Page,omitempty"`
}

// HasEntityType reports whether the block carries role t
func (b *Block) HasEntityType(t EntityType) bool {
	for _, et := range b.EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// Targets returns the ids of all edges of type rt, in relationship order
func (b *Block) Targets(rt RelationshipType) []string {
	var ids []string
	for _, rel := range b.Relationships {
		if rel.Type == rt {
			ids = append(ids, rel.IDs...)
		}
	}
	return ids
}

// Page is the block collection returned for one analyzed page
type Page struct {
	Blocks []Block `json:"Blocks"`
}

// DecodePage reads an analysis response. Unknown fields such as geometry
// and document metadata are ignored.
func DecodePage(r io.Reader) (Page, error) {
	var page Page
	if err := json.NewDecoder(r).Decode(&page); err != nil {
		return Page{}, fmt.Errorf("decode page: %w", err)
	}
	return page, nil
}

// LoadPage reads an analysis response from a JSON file
func LoadPage(path string) (Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return Page{}, err
	}
	defer f.Close()

	page, err := DecodePage(f)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", path, err)
	}
	return page, nil
}
