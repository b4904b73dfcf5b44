package ops

import (
	"strconv"
	"strings"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/thread"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Custom block calls (spec.md §4.2 "Procedures"). A procedures_definition
// hat carries the procedure's code in its PROCCODE field and its
// parameter names, in declaration order, comma-joined in an ARGNAMES
// field — a deliberately flat stand-in for Scratch's mutation-JSON
// argument metadata, since this engine's blockgraph has no block-mutation
// concept of its own (spec.md §3's Block is exactly "opcode, inputs,
// fields, next, parent, topLevel, shadow", nothing more).
func init() {
	stackTable["procedures_call"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)

		code := c.Field(b, "PROCCODE")
		def := findProcedureDef(c, code)
		if def == nil {
			return nil // dangling/unknown call: spec.md §7, no-op rather than crash
		}

		locals := bindArguments(c, b, def)
		warp := strings.EqualFold(c.Field(def, "WARP"), "true")
		if warp {
			c.Thread.WarpDepth++
		}
		c.Thread.Push(&thread.Frame{
			Cursor:   def.Next,
			Body:     def.Next,
			IsCall:   true,
			ProcCode: code,
			Warp:     warp,
			Locals:   locals,
		})
		return nil
	}

	reporterTable["argument_reporter_string_number"] = func(c *Context, b *blockgraph.Block) value.Value {
		return argumentValue(c, c.Field(b, "VALUE"))
	}
	reporterTable["argument_reporter_boolean"] = func(c *Context, b *blockgraph.Block) value.Value {
		return argumentValue(c, c.Field(b, "VALUE"))
	}
}

// findProcedureDef locates the procedures_definition hat whose PROCCODE
// field matches code.
func findProcedureDef(c *Context, code string) *blockgraph.Block {
	for _, h := range c.Graph.HatsByOpcode("procedures_definition") {
		if h.Fields["PROCCODE"].Text == code {
			return h
		}
	}
	return nil
}

// bindArguments zips def's ARGNAMES with b's call-site inputs, evaluated
// in declaration order, into a fresh locals map for the new call frame.
func bindArguments(c *Context, b, def *blockgraph.Block) map[string]value.Value {
	names := splitArgNames(def.Fields["ARGNAMES"].Text)
	locals := make(map[string]value.Value, len(names))
	for i, name := range names {
		argInput := "ARG" + strconv.Itoa(i)
		locals[name] = c.Resolve(b, argInput)
	}
	return locals
}

func splitArgNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// argumentValue reads name out of the nearest enclosing call frame's
// locals, walking up the thread's frame stack the way a lexical scope
// lookup walks up enclosing scopes — loop/if frames nested inside a
// procedure body don't carry their own locals, only the call frame does.
func argumentValue(c *Context, name string) value.Value {
	for i := len(c.Thread.Frames) - 1; i >= 0; i-- {
		f := c.Thread.Frames[i]
		if f.IsCall {
			if v, ok := f.Locals[name]; ok {
				return v
			}
			return value.Empty
		}
	}
	return value.Empty
}
