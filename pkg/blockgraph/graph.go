package blockgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Graph is the immutable, id-indexed block graph for one target's scripts,
// per spec.md §3/§4.3. It is built once at load time (by pkg/script for
// tests/examples, or by the out-of-scope project loader in production) and
// never mutated afterward — every read in pkg/thread and pkg/ops goes
// through the accessors below rather than touching the map directly, the
// same "constant pool, looked up by index" discipline the teacher's
// bytecode.Bytecode enforces for its Constants slice.
type Graph struct {
	blocks   map[BlockID]*Block
	topLevel []BlockID
}

// New returns an empty, buildable Graph. Use Add to populate it, then treat
// it as read-only.
func New() *Graph {
	return &Graph{blocks: make(map[BlockID]*Block)}
}

// Add inserts or replaces a block. If b.TopLevel is set and id isn't
// already tracked as a top-level block, it is appended to the top-level
// list (used to find hats at project load / green-flag time).
func (g *Graph) Add(b *Block) {
	if _, exists := g.blocks[b.ID]; !exists && b.TopLevel {
		g.topLevel = append(g.topLevel, b.ID)
	}
	g.blocks[b.ID] = b
}

// Block returns the block with the given id, or nil if absent. A nil
// return is not an error — spec.md §7 requires that a dangling reference
// resolve to a harmless default rather than a crash; callers (pkg/thread)
// treat a nil block as "fall off the end of this frame".
func (g *Graph) Block(id BlockID) *Block {
	if id == "" {
		return nil
	}
	return g.blocks[id]
}

// Next returns the block id following id, or "" if id is absent or has no
// successor.
func (g *Graph) Next(id BlockID) BlockID {
	b := g.Block(id)
	if b == nil {
		return ""
	}
	return b.Next
}

// TopLevelBlocks returns every top-level block id, in the order they were
// added (stable, matching spec.md §5's insertion-order scheduling
// guarantee when multiple hats fire at once, e.g. two green-flag hats).
func (g *Graph) TopLevelBlocks() []BlockID {
	out := make([]BlockID, len(g.topLevel))
	copy(out, g.topLevel)
	return out
}

// HatsByOpcode returns every top-level block whose opcode matches op, in
// stable order. Used by the scheduler/runtime to find e.g. every
// "event_whenflagclicked" hat at green-flag time, or every
// "event_whenbroadcastreceived" hat matching a fired broadcast.
func (g *Graph) HatsByOpcode(op Opcode) []*Block {
	var out []*Block
	for _, id := range g.topLevel {
		b := g.blocks[id]
		if b != nil && b.Opcode == op {
			out = append(out, b)
		}
	}
	return out
}

// Dump renders a human-readable walk of the graph: every top-level script,
// each block's opcode/inputs/fields, indented by substack nesting. This is
// the block-graph analogue of the teacher's disassembleFile/formatConstant
// (cmd/smog/main.go) — a debugging aid, not part of execution.
func (g *Graph) Dump() string {
	var b strings.Builder
	ids := make([]BlockID, len(g.topLevel))
	copy(ids, g.topLevel)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		g.dumpScript(&b, id, 0)
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Graph) dumpScript(b *strings.Builder, id BlockID, depth int) {
	for id != "" {
		blk := g.Block(id)
		if blk == nil {
			fmt.Fprintf(b, "%s<missing %s>\n", strings.Repeat("  ", depth), id)
			return
		}
		fmt.Fprintf(b, "%s%s", strings.Repeat("  ", depth), blk.Opcode)
		for _, name := range blk.InputOrder {
			in := blk.Inputs[name]
			switch in.Kind {
			case InputLiteral:
				fmt.Fprintf(b, " %s=%v", name, in.Literal)
			case InputReporter:
				fmt.Fprintf(b, " %s=(%s)", name, in.RefBlock)
			case InputSubstack:
				fmt.Fprintf(b, " %s=<substack %s>", name, in.Substack)
			}
		}
		for name, f := range blk.Fields {
			fmt.Fprintf(b, " [%s=%q]", name, f.Text)
		}
		b.WriteString("\n")
		for _, name := range blk.InputOrder {
			in := blk.Inputs[name]
			if in.Kind == InputSubstack && in.Substack != "" {
				g.dumpScript(b, in.Substack, depth+1)
			}
		}
		id = blk.Next
	}
}
