package document

import (
	"fmt"

	errs "docharvest/pkg/errors"
)

// Index is an arena of blocks addressable by id
type Index struct {
	blocks []Block
	byID   map[string]int
}

// NewIndex builds an index over blocks. It fails on an empty or duplicated
// id, which means the page is malformed.
func NewIndex(blocks []Block) (*Index, error) {
	ix := &Index{
		blocks: blocks,
		byID:   make(map[string]int, len(blocks)),
	}
	for i := range blocks {
		id := blocks[i].ID
		if id == "" {
			return nil, errs.New(errs.ErrorTypeParsing, fmt.Sprintf("block %d has no id", i), nil)
		}
		if _, dup := ix.byID[id]; dup {
			return nil, errs.New(errs.ErrorTypeParsing, fmt.Sprintf("duplicate block id %q", id), nil)
		}
		ix.byID[id] = i
	}
	return ix, nil
}

// Lookup returns the block with the given id
func (ix *Index) Lookup(id string) (*Block, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return &ix.blocks[i], true
}

// Blocks returns the blocks in collection order
func (ix *Index) Blocks() []Block {
	return ix.blocks
}

func (ix *Index) Len() int {
	return len(ix.blocks)
}
