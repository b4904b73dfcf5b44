package blockgraph

import (
	"strings"
	"testing"

	"github.com/scratchkit/scratchvm/pkg/value"
)

func TestGraphBasics(t *testing.T) {
	g := New()
	g.Add(&Block{ID: "hat", Opcode: "event_whenflagclicked", TopLevel: true, Next: "body"})
	g.Add(&Block{
		ID:     "body",
		Opcode: "data_changevariableby",
		Inputs: map[string]Input{
			"VALUE": {Kind: InputLiteral, Literal: value.Number(1)},
		},
		InputOrder: []string{"VALUE"},
	})

	if g.Block("hat") == nil {
		t.Fatal("expected hat block to exist")
	}
	if got := g.Next("hat"); got != "body" {
		t.Errorf("Next(hat) = %q, want body", got)
	}
	if g.Block("missing") != nil {
		t.Error("expected missing block to be nil, not crash")
	}

	hats := g.HatsByOpcode("event_whenflagclicked")
	if len(hats) != 1 || hats[0].ID != "hat" {
		t.Errorf("HatsByOpcode returned %v", hats)
	}
}

func TestClassify(t *testing.T) {
	if !IsHat("event_whenflagclicked") {
		t.Error("green flag hat should classify as a hat")
	}
	if !IsReporter("operator_add") {
		t.Error("operator_add should classify as a reporter")
	}
	if IsHat("unknown_opcode_from_future_extension") {
		t.Error("unknown opcodes must default to a harmless stack block, not a hat")
	}
}

func TestGraphDump(t *testing.T) {
	g := New()
	g.Add(&Block{ID: "hat", Opcode: "event_whenflagclicked", TopLevel: true, Next: "body"})
	g.Add(&Block{ID: "body", Opcode: "control_forever"})

	dump := g.Dump()
	if !strings.Contains(dump, "event_whenflagclicked") || !strings.Contains(dump, "control_forever") {
		t.Errorf("Dump() missing expected opcodes:\n%s", dump)
	}
}
