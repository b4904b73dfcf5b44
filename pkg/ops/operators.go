package ops

import (
	"strings"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Operators reporters. Pure functions of their resolved inputs — no target
// or engine state involved, the same "no side effects, just cast and
// combine" shape the teacher's vm.go gives smog's arithmetic message
// sends (e.g. the "+"/"-"/"*" cases in send()).
func init() {
	reporterTable["operator_add"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Resolve(b, "NUM1").ToNumber() + c.Resolve(b, "NUM2").ToNumber())
	}
	reporterTable["operator_subtract"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Resolve(b, "NUM1").ToNumber() - c.Resolve(b, "NUM2").ToNumber())
	}
	reporterTable["operator_multiply"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Resolve(b, "NUM1").ToNumber() * c.Resolve(b, "NUM2").ToNumber())
	}
	reporterTable["operator_divide"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Resolve(b, "NUM1").ToNumber() / c.Resolve(b, "NUM2").ToNumber())
	}
	reporterTable["operator_mod"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(value.Mod(c.Resolve(b, "NUM1").ToNumber(), c.Resolve(b, "NUM2").ToNumber()))
	}
	reporterTable["operator_round"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(value.Round(c.Resolve(b, "NUM").ToNumber()))
	}
	reporterTable["operator_math_op"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(mathOp(c.Field(b, "OPERATOR"), c.Resolve(b, "NUM").ToNumber()))
	}
	reporterTable["operator_lt"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Bool(value.Compare(c.Resolve(b, "OPERAND1"), c.Resolve(b, "OPERAND2")) < 0)
	}
	reporterTable["operator_gt"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Bool(value.Compare(c.Resolve(b, "OPERAND1"), c.Resolve(b, "OPERAND2")) > 0)
	}
	reporterTable["operator_equals"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Bool(value.Compare(c.Resolve(b, "OPERAND1"), c.Resolve(b, "OPERAND2")) == 0)
	}

	// "and"/"or" short-circuit (spec.md §3 "input order must be preserved
	// for short-circuit operators"): the second operand is only resolved
	// if the first doesn't already decide the result.
	reporterTable["operator_and"] = func(c *Context, b *blockgraph.Block) value.Value {
		if !c.ResolveBool(b, "OPERAND1") {
			return value.Bool(false)
		}
		return value.Bool(c.ResolveBool(b, "OPERAND2"))
	}
	reporterTable["operator_or"] = func(c *Context, b *blockgraph.Block) value.Value {
		if c.ResolveBool(b, "OPERAND1") {
			return value.Bool(true)
		}
		return value.Bool(c.ResolveBool(b, "OPERAND2"))
	}
	reporterTable["operator_not"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Bool(!c.ResolveBool(b, "OPERAND"))
	}

	reporterTable["operator_join"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Text(c.Resolve(b, "STRING1").ToString() + c.Resolve(b, "STRING2").ToString())
	}
	reporterTable["operator_letter_of"] = func(c *Context, b *blockgraph.Block) value.Value {
		s := []rune(c.Resolve(b, "STRING").ToString())
		idx := int(c.Resolve(b, "LETTER").ToNumber())
		if idx < 1 || idx > len(s) {
			return value.Text("")
		}
		return value.Text(string(s[idx-1]))
	}
	reporterTable["operator_length"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(float64(len([]rune(c.Resolve(b, "STRING").ToString()))))
	}
	reporterTable["operator_contains"] = func(c *Context, b *blockgraph.Block) value.Value {
		haystack := value.Fold(c.Resolve(b, "STRING1").ToString())
		needle := value.Fold(c.Resolve(b, "STRING2").ToString())
		return value.Bool(strings.Contains(haystack, needle))
	}
	reporterTable["operator_random"] = func(c *Context, b *blockgraph.Block) value.Value {
		lo := c.Resolve(b, "FROM").ToNumber()
		hi := c.Resolve(b, "TO").ToNumber()
		if lo > hi {
			lo, hi = hi, lo
		}
		return value.Number(c.Engine.Random(lo, hi))
	}
}

// mathOp implements operator_math_op's OPERATOR dropdown (abs, floor,
// ceiling, sqrt, sin, cos, tan, asin, acos, atan, ln, log, e^, 10^), the
// reporter analogue of the teacher's stdlib time/crypto primitive
// functions: one small pure function per named operation, looked up by
// string key rather than switched on inline at every call site.
func mathOp(op string, n float64) float64 {
	fn, ok := mathOps[op]
	if !ok {
		return 0
	}
	return fn(n)
}
