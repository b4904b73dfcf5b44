package ops

import (
	"math"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/fence"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Motion blocks (spec.md §4.2 "Motion", §4.6 "Motion/Fence"). Every setter
// that moves a sprite passes its result through fence.Clamp, honoring the
// runtime's fencing option the same way every other stateful block here
// honors its Engine collaborator rather than reaching past it.
func init() {
	stackTable["motion_movesteps"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		steps := c.Resolve(b, "STEPS").ToNumber()
		rad := c.Target.Direction * math.Pi / 180
		dx := math.Sin(rad) * steps
		dy := math.Cos(rad) * steps
		setPosition(c, c.Target.X+dx, c.Target.Y+dy)
		return nil
	}

	stackTable["motion_turnright"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.Direction = fence.Normalize(c.Target.Direction + c.Resolve(b, "DEGREES").ToNumber())
		return nil
	}
	stackTable["motion_turnleft"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.Direction = fence.Normalize(c.Target.Direction - c.Resolve(b, "DEGREES").ToNumber())
		return nil
	}
	stackTable["motion_pointindirection"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.Direction = fence.Normalize(c.Resolve(b, "DIRECTION").ToNumber())
		return nil
	}

	stackTable["motion_goto_xy"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		setPosition(c, c.Resolve(b, "X").ToNumber(), c.Resolve(b, "Y").ToNumber())
		return nil
	}

	stackTable["motion_ifonedgebounce"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		x, y, dir, bounced := fence.Bounce(c.Target.X, c.Target.Y, c.Target.BoundingWidth, c.Target.BoundingHeight, c.Target.Direction)
		if bounced {
			c.Target.X, c.Target.Y, c.Target.Direction = x, y, dir
		}
		return nil
	}

	stackTable["motion_setrotationstyle"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		c.Target.RotationStyle = rotationStyleFromField(c.Field(b, "STYLE"))
		return nil
	}

	// glide is the one motion block that parks the thread: it behaves like
	// control_wait but pkg/scheduler interpolates the position every frame
	// via the thread's GlideState instead of leaving it untouched until
	// the deadline (spec.md §4.2 "blocking, time-interpolated move").
	stackTable["motion_glideto_xy"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		secs := c.Resolve(b, "SECS").ToNumber()
		if secs <= 0 {
			setPosition(c, c.Resolve(b, "X").ToNumber(), c.Resolve(b, "Y").ToNumber())
			return nil
		}
		c.Thread.Glide = &thread.GlideState{
			StartX:    c.Target.X,
			StartY:    c.Target.Y,
			EndX:      c.Resolve(b, "X").ToNumber(),
			EndY:      c.Resolve(b, "Y").ToNumber(),
			StartTime: c.Engine.Now(),
			Duration:  secs,
		}
		c.Thread.Wait = thread.WaitGlide
		c.Thread.WaitDeadline = c.Engine.Now() + secs
		c.Thread.Status = thread.Waiting
		return nil
	}

	reporterTable["motion_xposition"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Target.X)
	}
	reporterTable["motion_yposition"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Target.Y)
	}
	reporterTable["motion_direction"] = func(c *Context, b *blockgraph.Block) value.Value {
		return value.Number(c.Target.Direction)
	}
}

func setPosition(c *Context, x, y float64) {
	c.Target.X, c.Target.Y = fence.Clamp(x, y, c.Target.BoundingWidth, c.Target.BoundingHeight, c.Engine.FencingEnabled())
}

func rotationStyleFromField(s string) target.RotationStyle {
	switch s {
	case "left-right":
		return target.RotationLeftRight
	case "don't rotate":
		return target.RotationDontRotate
	default:
		return target.RotationAllAround
	}
}
