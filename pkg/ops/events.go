package ops

import (
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/thread"
)

// Broadcasting (spec.md §4.2/§4.5). event_whenflagclicked,
// event_whenkeypressed, event_whenbroadcastreceived,
// event_whenthisspriteclicked, event_whengreaterthan, and
// control_start_as_clone are hats: pkg/runtime finds and spawns them
// directly, so they have no StackFn here.
func init() {
	stackTable["event_broadcast"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Engine.Broadcast(c.Resolve(b, "BROADCAST_INPUT").ToString())
		return nil
	}

	stackTable["event_broadcastandwait"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		joined := c.Engine.Broadcast(c.Resolve(b, "BROADCAST_INPUT").ToString())
		c.Thread.Wait = thread.WaitJoin
		c.Thread.WaitJoinSet = joined
		c.Thread.Status = thread.Waiting
		return nil
	}
}
