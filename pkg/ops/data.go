package ops

import (
	"strings"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// variableField resolves a block's VARIABLE/LIST field to the Variable it
// names, checking the target's own scope first and falling back to the
// stage (global) scope, per spec.md §3's lookup-order invariant.
func variableField(c *Context, b *blockgraph.Block, fieldName string) (*target.Variable, bool) {
	f, ok := b.Fields[fieldName]
	if !ok {
		return nil, false
	}
	if f.Ref != "" {
		if v, ok := c.Target.LookupByID(f.Ref); ok {
			return v, true
		}
		if stage := c.Engine.Stage(); stage != nil {
			if v, ok := stage.LookupByID(f.Ref); ok {
				return v, true
			}
		}
	}
	return c.Target.LookupByName(f.Text, c.Engine.Stage())
}

func init() {
	reporterTable["data_variable"] = func(c *Context, b *blockgraph.Block) value.Value {
		v, ok := variableField(c, b, "VARIABLE")
		if !ok {
			return value.Empty
		}
		return v.Value
	}

	stackTable["data_setvariableto"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "VARIABLE")
		if !ok {
			return nil
		}
		v.Value = c.Resolve(b, "VALUE")
		return nil
	}
	stackTable["data_changevariableby"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "VARIABLE")
		if !ok {
			return nil
		}
		v.Value = value.Number(v.Value.ToNumber() + c.Resolve(b, "VALUE").ToNumber())
		return nil
	}

	// Monitor visibility is a stage-UI concern the headless engine doesn't
	// render (spec.md §1 Non-goals); these are accepted as no-ops so a
	// loaded project's scripts don't fail on an opcode it happens to use.
	stackTable["data_showvariable"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		return nil
	}
	stackTable["data_hidevariable"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		return nil
	}

	reporterTable["data_itemoflist"] = func(c *Context, b *blockgraph.Block) value.Value {
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return value.Empty
		}
		return target.ListItem(v, int(c.Resolve(b, "INDEX").ToNumber()))
	}
	reporterTable["data_itemnumoflist"] = func(c *Context, b *blockgraph.Block) value.Value {
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return value.Number(0)
		}
		return value.Number(float64(target.ListItemNumberOf(v, c.Resolve(b, "ITEM"))))
	}
	reporterTable["data_lengthoflist"] = func(c *Context, b *blockgraph.Block) value.Value {
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return value.Number(0)
		}
		return value.Number(float64(len(v.List)))
	}
	reporterTable["data_listcontainsitem"] = func(c *Context, b *blockgraph.Block) value.Value {
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return value.Bool(false)
		}
		return value.Bool(target.ListContains(v, c.Resolve(b, "ITEM")))
	}
	reporterTable["data_listcontents"] = func(c *Context, b *blockgraph.Block) value.Value {
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return value.Text("")
		}
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.ToString()
		}
		return value.Text(strings.Join(parts, " "))
	}

	stackTable["data_addtolist"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return nil
		}
		target.ListAdd(v, c.Resolve(b, "ITEM"))
		return nil
	}
	stackTable["data_deleteoflist"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return nil
		}
		idx := listIndexField(c, b, "INDEX")
		target.ListDeleteAt(v, idx)
		return nil
	}
	stackTable["data_deletealloflist"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return nil
		}
		target.ListDeleteAt(v, target.DeleteAll)
		return nil
	}
	stackTable["data_insertatlist"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return nil
		}
		target.ListInsertAt(v, int(c.Resolve(b, "INDEX").ToNumber()), c.Resolve(b, "ITEM"))
		return nil
	}
	stackTable["data_replaceitemoflist"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		v, ok := variableField(c, b, "LIST")
		if !ok {
			return nil
		}
		target.ListReplaceAt(v, int(c.Resolve(b, "INDEX").ToNumber()), c.Resolve(b, "ITEM"))
		return nil
	}
}

// listIndexField resolves an INDEX input that may be the literal keyword
// "all" (data_deleteoflist's "delete all" menu entry) instead of a number.
func listIndexField(c *Context, b *blockgraph.Block, name string) int {
	v := c.Resolve(b, name)
	if strings.EqualFold(v.ToString(), "all") {
		return target.DeleteAll
	}
	return int(v.ToNumber())
}
