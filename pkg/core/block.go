package core

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Block is a single node of a document tree.
//
// Blocks are created once by the authoring surface and keep their ID for
// their whole life; the ID is never derived from the block position and
// never reused. The Type selects a registered definition, Props carries the
// per-type configuration.
//
// Container blocks keep their nested blocks in Props["children"]:
//
//   - columns: an ordered list of slots ([][]Block), one per column
//   - section: an ordered flat list ([]Block)
//
// Decoding normalises both shapes into typed slices so that
// decode→encode→decode round trips are deep-equal.
type Block struct {
	ID    string `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	Props Props  `json:"props" yaml:"props"`
}

// Built-in block types.
const (
	TypeHeading   = "heading"
	TypeText      = "text"
	TypeImage     = "image"
	TypeButton    = "button"
	TypeDivider   = "divider"
	TypeSpacer    = "spacer"
	TypeColumns   = "columns"
	TypeSocial    = "social"
	TypeHTML      = "html"
	TypeQuote     = "quote"
	TypeList      = "list"
	TypeVideo     = "video"
	TypeFooter    = "footer"
	TypeCountdown = "countdown"
	TypeTable     = "table"
	TypeSection   = "section"
	TypeAccordion = "accordion"
)

// NewID returns a fresh block identifier.
func NewID() string {
	return "block-" + uuid.NewString()
}

// NewBlock creates a block of the given type with a fresh ID. The props map
// is copied so the caller may keep mutating its own.
func NewBlock(blockType string, props Props) Block {
	return Block{
		ID:    NewID(),
		Type:  blockType,
		Props: Props{}.Merge(props),
	}
}

// UnmarshalJSON decodes a block and types its nested children.
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Block(p)
	if _, ok := b.Props["children"]; !ok {
		return nil
	}

	var raw struct {
		Props struct {
			Children json.RawMessage `json:"children"`
		} `json:"props"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var slots [][]Block
	if err := json.Unmarshal(raw.Props.Children, &slots); err == nil && slots != nil {
		b.Props["children"] = slots
		return nil
	}
	var flat []Block
	if err := json.Unmarshal(raw.Props.Children, &flat); err == nil && flat != nil {
		b.Props["children"] = flat
	}
	return nil
}

// ColumnSlots returns the children of a columns block as slots.
func (b Block) ColumnSlots() [][]Block {
	return ColumnSlots(b.Props)
}

// Children returns every direct descendant of b, flattening column slots.
func (b Block) Children() []Block {
	if slots := ColumnSlots(b.Props); b.Type == TypeColumns && len(slots) > 0 {
		var out []Block
		for _, slot := range slots {
			out = append(out, slot...)
		}
		return out
	}
	return ChildBlocks(b.Props)
}

// ColumnSlots reads props["children"] as a list of slots. A flat list is
// treated as a single slot.
func ColumnSlots(p Props) [][]Block {
	switch v := p["children"].(type) {
	case [][]Block:
		return v
	case []Block:
		if len(v) == 0 {
			return nil
		}
		return [][]Block{v}
	case []any:
		slots := make([][]Block, 0, len(v))
		for _, item := range v {
			switch slot := item.(type) {
			case []any:
				slots = append(slots, blocksFrom(slot))
			case []Block:
				slots = append(slots, slot)
			default:
				// mixed shapes: treat the whole list as one slot
				return [][]Block{blocksFrom(v)}
			}
		}
		return slots
	}
	return nil
}

// ChildBlocks reads props["children"] as a flat list of blocks. Slots are
// flattened in order.
func ChildBlocks(p Props) []Block {
	switch v := p["children"].(type) {
	case []Block:
		return v
	case [][]Block:
		var out []Block
		for _, slot := range v {
			out = append(out, slot...)
		}
		return out
	case []any:
		var out []Block
		for _, item := range v {
			if nested, ok := item.([]any); ok {
				out = append(out, blocksFrom(nested)...)
				continue
			}
			if blk, ok := blockFrom(item); ok {
				out = append(out, blk)
			}
		}
		return out
	}
	return nil
}

func blocksFrom(items []any) []Block {
	out := make([]Block, 0, len(items))
	for _, item := range items {
		if blk, ok := blockFrom(item); ok {
			out = append(out, blk)
		}
	}
	return out
}

func blockFrom(v any) (Block, bool) {
	switch b := v.(type) {
	case Block:
		return b, true
	case *Block:
		if b == nil {
			return Block{}, false
		}
		return *b, true
	case map[string]any:
		data, err := json.Marshal(b)
		if err != nil {
			return Block{}, false
		}
		var blk Block
		if err := json.Unmarshal(data, &blk); err != nil {
			return Block{}, false
		}
		return blk, blk.Type != ""
	}
	return Block{}, false
}
