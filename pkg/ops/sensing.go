package ops

import (
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Sensing reporters/stack blocks (spec.md §4.2). Timer, mouse, and keyboard
// state all come from the Engine, the same way the teacher's primitives.go
// wraps os/net/time facilities behind small VM methods instead of letting
// send() reach into the stdlib directly.
func init() {
	reporterTable["sensing_timer"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Engine.Now())
	}
	stackTable["sensing_resettimer"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Engine.ResetTimer()
		return nil
	}
	reporterTable["sensing_mousex"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Engine.MouseX())
	}
	reporterTable["sensing_mousey"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Engine.MouseY())
	}
	reporterTable["sensing_mousedown"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Bool(c.Engine.MouseDown())
	}
	reporterTable["sensing_keypressed"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Bool(c.Engine.KeyPressed(c.Resolve(b, "KEY_OPTION").ToString()))
	}
	reporterTable["sensing_dayssince2000"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Engine.DaysSince2000())
	}

	// Legacy global counter (spec.md §4.9 "Counter & Timers"): a
	// process-wide integer shared by every target, independent of any
	// sprite's own variables.
	reporterTable["sensing_counter"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Engine.Counter())
	}
	stackTable["sensing_changecounter"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Engine.IncrCounter()
		return nil
	}
	stackTable["sensing_clearcounter"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Engine.ClearCounter()
		return nil
	}
}
