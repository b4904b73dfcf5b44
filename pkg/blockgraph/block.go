package blockgraph

import "github.com/scratchkit/scratchvm/pkg/value"

// BlockID identifies a block within a single target's graph. Block ids are
// scoped to the graph they were loaded into; a clone shares its sprite's
// Graph (spec.md §3 "Clones share the sprite's block graph").
type BlockID string

// InputKind distinguishes the three forms an Input can take, per spec.md
// §3 "An input is either a literal primitive ... a reference to another
// block (reporter), or a substack pointer."
type InputKind int

const (
	InputLiteral InputKind = iota
	InputReporter
	InputSubstack
)

// Input is one entry in a Block's ordered input map. Input order is
// significant (spec.md §3: "must be preserved for short-circuit
// operators"), so Graph stores each block's input names in a separate
// ordered slice (Block.InputOrder) alongside the map.
type Input struct {
	Kind     InputKind
	Literal  value.Value // valid when Kind == InputLiteral
	RefBlock BlockID     // valid when Kind == InputReporter
	Substack BlockID     // valid when Kind == InputSubstack; first block of the nested sequence
}

// Field is a block field: an inline dropdown/text value plus an optional
// reference id (e.g. a variable field's id), per spec.md §3.
type Field struct {
	Text string
	Ref  string // e.g. a variable or broadcast id; empty if not a reference field
}

// Block is one node of the graph: spec.md §3's
// "opcode, inputs, fields, next, parent, topLevel, shadow".
type Block struct {
	ID       BlockID
	Opcode   Opcode
	Inputs   map[string]Input
	InputOrder []string // preserves declaration order for short-circuit evaluation
	Fields   map[string]Field
	Next     BlockID // empty if none
	Parent   BlockID // empty if none
	TopLevel bool
	Shadow   bool
}

// Info returns the static classification for this block's opcode.
func (b *Block) Info() OpcodeInfo { return Classify(b.Opcode) }

// InputNames returns the input names in declaration order.
func (b *Block) InputNames() []string { return b.InputOrder }
