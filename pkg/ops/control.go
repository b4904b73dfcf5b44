package ops

import (
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/thread"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// Control blocks are the one category where the "helper" mutates the
// thread's frame stack instead of just its target's fields, so this file
// carries more bookkeeping than motion.go/looks.go. Every branch follows
// the same two-step shape: first point the current frame's Cursor at what
// comes *after* this block (so when the pushed child frame eventually
// falls off the end, control returns to the right place), then decide
// whether to push a child frame at all.
//
// This plays the role vm.go's "Block"/"value:" and whileTrue: cases play
// for smog: the teacher's executeBlock pushes a StackFrame and recurses
// for every block activation; here, pushing a thread.Frame onto
// Thread.Frames is the same idea, generalized so a loop frame can be
// re-entered in place (see ReenterLoop) instead of being re-pushed from
// scratch on every iteration.
func init() {
	stackTable["control_if"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		if c.ResolveBool(b, "CONDITION") {
			pushBody(c, c.Substack(b, "SUBSTACK"), thread.LoopNone, "")
		}
		return nil
	}

	stackTable["control_if_else"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		if c.ResolveBool(b, "CONDITION") {
			pushBody(c, c.Substack(b, "SUBSTACK"), thread.LoopNone, "")
		} else {
			pushBody(c, c.Substack(b, "SUBSTACK2"), thread.LoopNone, "")
		}
		return nil
	}

	stackTable["control_repeat"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		n := int(value.Round(c.Resolve(b, "TIMES").ToNumber()))
		if n <= 0 {
			return nil
		}
		pushLoop(c, b, c.Substack(b, "SUBSTACK"), thread.LoopRepeat, n)
		return nil
	}

	stackTable["control_forever"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		pushLoop(c, b, c.Substack(b, "SUBSTACK"), thread.LoopForever, 0)
		return nil
	}

	stackTable["control_while"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		if !c.ResolveBool(b, "CONDITION") {
			return nil
		}
		pushLoop(c, b, c.Substack(b, "SUBSTACK"), thread.LoopWhile, 0)
		return nil
	}

	stackTable["control_repeat_until"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		if c.ResolveBool(b, "CONDITION") {
			return nil
		}
		pushLoop(c, b, c.Substack(b, "SUBSTACK"), thread.LoopRepeatUntil, 0)
		return nil
	}

	stackTable["control_all_at_once"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		sub := c.Substack(b, "SUBSTACK")
		if sub == "" {
			return nil
		}
		c.Thread.Push(&thread.Frame{Cursor: sub, Body: sub, AllAtOnce: true})
		return nil
	}

	stackTable["control_wait"] = func(c *Context, b *blockgraph.Block) error {
		d := c.Resolve(b, "DURATION").ToNumber()
		if d < 0 {
			d = 0
		}
		c.Frame.Cursor = c.Graph.Next(b.ID)
		if d == 0 {
			// wait 0: explicit "do not run again this frame", distinct
			// from a real deadline wait (spec.md §4.4 thread statuses).
			c.Thread.Status = thread.YieldedTick
			return nil
		}
		c.Thread.Wait = thread.WaitDeadline
		c.Thread.WaitDeadline = c.Engine.Now() + d
		c.Thread.Status = thread.Waiting
		return nil
	}

	stackTable["control_stop"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		switch c.Field(b, "STOP_OPTION") {
		case "all":
			c.Engine.StopAll()
		case "other scripts in sprite":
			c.Engine.StopOtherScripts(c.Target.Handle(), c.Thread.ID())
		default: // "this script"
			c.Thread.TruncateToCallBoundary()
		}
		return nil
	}

	stackTable["control_create_clone_of"] = func(c *Context, b *blockgraph.Block) error {
		c.Frame.Cursor = c.Graph.Next(b.ID)
		name := c.Resolve(b, "CLONE_OPTION").ToString()
		src := c.Target
		if name != "" && name != "_myself_" {
			if t, ok := c.Engine.TargetByName(name); ok {
				src = t
			}
		}
		c.Engine.CreateClone(src)
		return nil
	}

	stackTable["control_delete_this_clone"] = func(c *Context, b *blockgraph.Block) error {
		if !c.Target.IsClone {
			c.Frame.Cursor = c.Graph.Next(b.ID)
			return nil
		}
		c.Engine.DeleteClone(c.Target.Handle())
		c.Thread.Frames = c.Thread.Frames[:0]
		c.Thread.Status = thread.Done
		return nil
	}
}

// pushBody pushes a plain (non-looping) child frame for a substack, if it
// isn't empty.
func pushBody(c *Context, body blockgraph.BlockID, loop thread.LoopKind, owner blockgraph.BlockID) {
	if body == "" && loop == thread.LoopNone {
		return
	}
	c.Thread.Push(&thread.Frame{Cursor: body, Body: body, Loop: loop, Owner: owner})
}

// pushLoop pushes a looping child frame. An empty substack is still
// pushed (rather than skipped) so forever/while/until loops with no body
// keep re-evaluating their condition and yielding once per tick, matching
// Scratch's behavior for an empty C-block.
func pushLoop(c *Context, owner *blockgraph.Block, body blockgraph.BlockID, kind thread.LoopKind, n int) {
	c.Thread.Push(&thread.Frame{
		Cursor:    body,
		Body:      body,
		Loop:      kind,
		Owner:     owner.ID,
		Remaining: n,
	})
}

// ReenterLoop is called by the scheduler when a loop frame's Cursor falls
// off the end of its body (spec.md §4.4's per-iteration yield point). It
// decides whether to restart the body (returning true, with f.Cursor reset
// to f.Body) or let the loop end (returning false, leaving f ready to be
// popped). This is opcode-aware logic — for LoopWhile/LoopRepeatUntil it
// must re-read the owning block's CONDITION input — so it lives here
// rather than in pkg/scheduler, the same division of labor EvalReporter
// draws between the generic graph walk and the per-opcode reporter table.
func ReenterLoop(c *Context, f *thread.Frame) bool {
	switch f.Loop {
	case thread.LoopForever:
		f.Cursor = f.Body
		return true
	case thread.LoopRepeat:
		f.Remaining--
		if f.Remaining <= 0 {
			return false
		}
		f.Cursor = f.Body
		return true
	case thread.LoopWhile, thread.LoopRepeatUntil:
		owner := c.Graph.Block(f.Owner)
		if owner == nil {
			return false
		}
		cond := c.ResolveBool(owner, "CONDITION")
		if f.Loop == thread.LoopRepeatUntil {
			cond = !cond
		}
		if !cond {
			return false
		}
		f.Cursor = f.Body
		return true
	default:
		return false
	}
}
