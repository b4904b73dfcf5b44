package ops

import (
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Looks blocks (spec.md §4.2 "Looks"): costume/visibility/size/graphic
// effect state. Rendering the result is the out-of-scope renderer's job
// (spec.md §1); these helpers only maintain the state it reads.
func init() {
	stackTable["looks_switchcostumeto"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		names := costumeNames(c.Target)
		if i := selectIndex(names, c.Resolve(b, "COSTUME")); i >= 0 {
			c.Target.CurrentCostumeIndex = i
		}
		return nil
	}
	stackTable["looks_nextcostume"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		if n := len(c.Target.Costumes); n > 0 {
			c.Target.CurrentCostumeIndex = (c.Target.CurrentCostumeIndex + 1) % n
		}
		return nil
	}
	stackTable["looks_show"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.Visible = true
		return nil
	}
	stackTable["looks_hide"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.Visible = false
		return nil
	}
	stackTable["looks_seteffectto"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.GraphicEffects[c.Field(b, "EFFECT")] = c.Resolve(b, "VALUE").ToNumber()
		return nil
	}
	stackTable["looks_setsizeto"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.Size = c.Resolve(b, "SIZE").ToNumber()
		return nil
	}

	reporterTable["looks_costumenumbername"] = func(c *Context, b *blockgraph.Block) value.Value {
		if c.Field(b, "NUMBER_NAME") == "name" {
			if c.Target.CurrentCostumeIndex < len(c.Target.Costumes) {
				return value.Text(c.Target.Costumes[c.Target.CurrentCostumeIndex].Name)
			}
			return value.Text("")
		}
		return value.Number(float64(c.Target.CurrentCostumeIndex + 1))
	}
	reporterTable["looks_size"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Target.Size)
	}
}

func costumeNames(t *target.Target) []string {
	names := make([]string, len(t.Costumes))
	for i, c := range t.Costumes {
		names[i] = c.Name
	}
	return names
}
