package textract

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"docharvest/pkg/document"
)

// ConvertBlocks copies SDK blocks into the document model. Geometry is dropped.
func ConvertBlocks(blocks []types.Block) []document.Block {
	out := make([]document.Block, 0, len(blocks))
	for _, b := range blocks {
		block := document.Block{
			ID:          aws.ToString(b.Id),
			BlockType:   document.BlockType(b.BlockType),
			Text:        aws.ToString(b.Text),
			RowIndex:    int(aws.ToInt32(b.RowIndex)),
			ColumnIndex: int(aws.ToInt32(b.ColumnIndex)),
			Confidence:  float64(aws.ToFloat32(b.Confidence)),
			Page:        int(aws.ToInt32(b.Page)),
		}
		for _, et := range b.EntityTypes {
			block.EntityTypes = append(block.EntityTypes, document.EntityType(et))
		}
		for _, rel := range b.Relationships {
			block.Relationships = append(block.Relationships, document.Relationship{
				Type: document.RelationshipType(rel.Type),
				IDs:  append([]string(nil), rel.Ids...),
			})
		}
		out = append(out, block)
	}
	return out
}
