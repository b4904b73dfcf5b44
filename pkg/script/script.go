// Package script is a small textual fixture format for building
// blockgraph.Graph values and target.Target scaffolding in tests and
// examples, without hand-writing Go struct literals for every block.
//
// It replaces the teacher's lexer -> parser -> ast -> compiler pipeline
// (pkg/lexer, pkg/parser, pkg/ast, pkg/compiler): smog's pipeline exists
// because smog source is a token stream with operator precedence and
// class/method syntax to parse. A Scratch program has none of that — it is
// already a graph of opcode-tagged nodes with named inputs, which is
// exactly what a YAML document expresses directly. So where the teacher
// tokenizes and recursive-descent parses, script.go decodes one YAML
// document (via gopkg.in/yaml.v3, SPEC_FULL.md's DOMAIN STACK choice for this
// concern) into a Document and walks it once, in the same "single linear
// compile pass, no backtracking" spirit as compiler.Compile.
//
// script is test/example tooling, not a .sb3 project loader: it has no
// opinion on costumes, sounds-as-assets, or monitor layout beyond the bare
// scalars pkg/target needs for fencing tests.
package script

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Document is the root of a script fixture: one target's variables, lists,
// and block graph.
type Document struct {
	Target    TargetDoc     `yaml:"target"`
	Variables []VariableDoc `yaml:"variables"`
	Lists     []VariableDoc `yaml:"lists"`
	Blocks    []BlockDoc    `yaml:"blocks"`
}

// TargetDoc carries the handful of scalar fields a fixture typically needs
// to set; anything left zero keeps target.New's defaults.
type TargetDoc struct {
	Name           string  `yaml:"name"`
	IsStage        bool    `yaml:"stage"`
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	BoundingWidth  float64 `yaml:"boundingWidth"`
	BoundingHeight float64 `yaml:"boundingHeight"`
}

// VariableDoc declares one scalar or list variable. ID defaults to Name
// when omitted, since fixtures rarely need the id/name distinction a real
// project's variable-renaming UI requires.
type VariableDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// BlockDoc is one node of the graph, keyed by a document-local string id.
// InputOrder is optional: a fixture whose block has more than one input and
// cares about evaluation order (e.g. operator_and/or's short-circuit rule,
// spec.md §3 "input order ... must be preserved") lists its input names
// there; omitted, Inputs' keys are used in sorted order, which is
// indistinguishable from any other order for the single-input and
// commutative blocks most fixtures build.
type BlockDoc struct {
	ID         string              `yaml:"id"`
	Opcode     string              `yaml:"opcode"`
	Top        bool                `yaml:"top"`
	Next       string              `yaml:"next"`
	Fields     map[string]FieldDoc `yaml:"fields"`
	Inputs     map[string]InputDoc `yaml:"inputs"`
	InputOrder []string            `yaml:"inputOrder"`
}

// FieldDoc is a block field: inline text plus an optional reference id
// (e.g. the id of the variable a VARIABLE field names).
type FieldDoc struct {
	Text string `yaml:"text"`
	Ref  string `yaml:"ref"`
}

// InputDoc is one input slot. Exactly one of Literal/Reporter/Substack is
// set; which one determines the InputKind it compiles to.
//
//	inputs:
//	  VALUE: {number: 1}
//	  VALUE: {text: "hi"}
//	  VALUE: {bool: true}
//	  OPERAND: {reporter: someBlockID}
//	  SUBSTACK: {substack: firstBlockOfBody}
type InputDoc struct {
	Number   *float64 `yaml:"number"`
	Text     *string  `yaml:"text"`
	Bool     *bool    `yaml:"bool"`
	Reporter string   `yaml:"reporter"`
	Substack string   `yaml:"substack"`
}

// Parse decodes a YAML fixture document.
func Parse(src []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	return &doc, nil
}

// Build compiles a parsed Document into a target.Target (with its
// variables/lists defined) and the blockgraph.Graph it owns, the way
// compiler.Compile turns an *ast.Program into a *bytecode.Bytecode in one
// pass over the tree.
func Build(doc *Document) (*target.Target, *blockgraph.Graph, error) {
	t := target.New(doc.Target.Name, doc.Target.IsStage)
	t.X = doc.Target.X
	t.Y = doc.Target.Y
	t.BoundingWidth = doc.Target.BoundingWidth
	t.BoundingHeight = doc.Target.BoundingHeight

	for _, v := range doc.Variables {
		t.DefineVariable(&target.Variable{ID: varID(v), Name: v.Name, Kind: target.VariableScalar, Value: value.Zero})
	}
	for _, v := range doc.Lists {
		t.DefineVariable(&target.Variable{ID: varID(v), Name: v.Name, Kind: target.VariableList})
	}

	g := blockgraph.New()
	for _, bd := range doc.Blocks {
		blk, err := buildBlock(bd)
		if err != nil {
			return nil, nil, fmt.Errorf("script: block %q: %w", bd.ID, err)
		}
		g.Add(blk)
	}
	t.Graph = g
	return t, g, nil
}

// Load parses and builds a fixture document in one call, the common case
// for a table-driven test.
func Load(src []byte) (*target.Target, *blockgraph.Graph, error) {
	doc, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	return Build(doc)
}

func varID(v VariableDoc) string {
	if v.ID != "" {
		return v.ID
	}
	return v.Name
}

func buildBlock(bd BlockDoc) (*blockgraph.Block, error) {
	blk := &blockgraph.Block{
		ID:       blockgraph.BlockID(bd.ID),
		Opcode:   blockgraph.Opcode(bd.Opcode),
		Next:     blockgraph.BlockID(bd.Next),
		TopLevel: bd.Top,
		Fields:   make(map[string]blockgraph.Field, len(bd.Fields)),
		Inputs:   make(map[string]blockgraph.Input, len(bd.Inputs)),
	}
	for name, f := range bd.Fields {
		blk.Fields[name] = blockgraph.Field{Text: f.Text, Ref: f.Ref}
	}

	names := bd.InputOrder
	if names == nil {
		names = make([]string, 0, len(bd.Inputs))
		for name := range bd.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		in := bd.Inputs[name]
		compiled, err := buildInput(in)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
		blk.Inputs[name] = compiled
		blk.InputOrder = append(blk.InputOrder, name)
	}
	return blk, nil
}

func buildInput(in InputDoc) (blockgraph.Input, error) {
	switch {
	case in.Number != nil:
		return blockgraph.Input{Kind: blockgraph.InputLiteral, Literal: value.Number(*in.Number)}, nil
	case in.Text != nil:
		return blockgraph.Input{Kind: blockgraph.InputLiteral, Literal: value.Text(*in.Text)}, nil
	case in.Bool != nil:
		return blockgraph.Input{Kind: blockgraph.InputLiteral, Literal: value.Bool(*in.Bool)}, nil
	case in.Reporter != "":
		return blockgraph.Input{Kind: blockgraph.InputReporter, RefBlock: blockgraph.BlockID(in.Reporter)}, nil
	case in.Substack != "":
		return blockgraph.Input{Kind: blockgraph.InputSubstack, Substack: blockgraph.BlockID(in.Substack)}, nil
	default:
		return blockgraph.Input{}, fmt.Errorf("input has no literal/reporter/substack set")
	}
}
