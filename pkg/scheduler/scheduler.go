// Package scheduler implements spec.md §4.4/§5's per-frame thread
// advance: yield policy, warp budget, and thread reaping. It is the direct
// analogue of the teacher's VM.Run main loop (pkg/vm/vm.go) — except
// where smog's Run drives one linear instruction stream to completion,
// StepThread drives one Scratch thread to its next yield point
// and hands control back, because a whole project is many cooperative
// threads taking turns within a single logical frame rather than one
// program running start to finish.
//
// Ownership split: pkg/runtime owns the canonical thread slice (so newly
// broadcast-spawned threads can be appended to it mid-frame per spec.md
// §5's ordering guarantee); this package only knows how to advance one
// thread already in that slice, and how to compact the slice afterward.
package scheduler

import (
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/ops"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
)

// WarpStepBudget bounds a single thread's block executions within one
// frame while in warp, per spec.md §5 "a hard per-frame step budget
// bounds runaway warps" / §7 StepBudgetExceeded.
const WarpStepBudget = 1 << 20

// Host is everything StepThread needs beyond the thread/target pair: the
// full ops.Engine surface block helpers call into, plus the ability to
// resolve a Waiting thread's predicate (timer deadline, sound handle,
// broadcast join) back to Running.
type Host interface {
	ops.Engine
	// ResolveWait reports whether th's current Wait predicate is
	// satisfied. If so, the caller (StepThread) clears th.Wait and
	// advances th.Status back to Running.
	ResolveWait(th *thread.Thread) bool
}

// BudgetObserver is an optional Host extension. A host that implements it
// is told every time a warp thread is forcibly yielded for exceeding
// WarpStepBudget (spec.md §7 StepBudgetExceeded), so it can expose an
// observable hit counter (SPEC_FULL.md "Step budget accounting exposed as
// a metric") without StepThread's signature needing to change for hosts
// that don't care.
type BudgetObserver interface {
	StepBudgetExceeded(th *thread.Thread)
}

// PrepareFrame resets every thread that yielded last frame (YieldedFrame
// or YieldedTick) back to Running, so it gets a turn this frame. Waiting
// threads are untouched here — ResolveWait (called from StepThread) is
// what promotes them back to Running, once their predicate is satisfied.
func PrepareFrame(threads []*thread.Thread) {
	for _, th := range threads {
		if th.Status == thread.YieldedFrame || th.Status == thread.YieldedTick {
			th.Status = thread.Running
		}
	}
}

// AdvanceGlides interpolates the position of every thread currently
// parked on a glide, regardless of whether that thread is about to get a
// turn this frame — spec.md §4.2 "glide is a blocking, time-interpolated
// move", which must keep moving every frame, not just at the moment the
// thread resumes.
func AdvanceGlides(threads []*thread.Thread, targetOf func(target.Handle) *target.Target, now float64) {
	for _, th := range threads {
		if th.Wait != thread.WaitGlide || th.Glide == nil {
			continue
		}
		tgt := targetOf(th.TargetHandle)
		if tgt == nil {
			continue
		}
		frac := 1.0
		if th.Glide.Duration > 0 {
			frac = (now - th.Glide.StartTime) / th.Glide.Duration
		}
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		tgt.X = lerp(th.Glide.StartX, th.Glide.EndX, frac)
		tgt.Y = lerp(th.Glide.StartY, th.Glide.EndY, frac)
	}
}

func lerp(a, b, frac float64) float64 { return a + (b-a)*frac }

// StepThread advances th, running against target tgt, until it yields
// (YieldedFrame/YieldedTick), parks (Waiting), or finishes (Done/Killed).
// It is this frame's single "turn" for th; the caller is responsible for
// calling it once per Running thread per frame, in insertion order
// (spec.md §5 "Ordering guarantees").
func StepThread(th *thread.Thread, tgt *target.Target, host Host) {
	if th.Status == thread.Waiting {
		if !host.ResolveWait(th) {
			return
		}
		th.Wait = thread.WaitNone
		th.Glide = nil
		th.Status = thread.Running
	}
	if th.Status != thread.Running {
		return
	}

	graph := tgt.Graph
	warp := th.InWarp()
	steps := 0

	for {
		f := th.Current()
		if f == nil {
			th.Status = thread.Done
			return
		}

		if f.Cursor == "" {
			if f.Loop != thread.LoopNone {
				ctx := &ops.Context{Target: tgt, Graph: graph, Thread: th, Frame: f, Engine: host}
				if ops.ReenterLoop(ctx, f) {
					if !warp && !th.AllAtOnce() {
						th.Status = thread.YieldedFrame
						return
					}
					if budgetExceeded(&steps, warp, th, host) {
						return
					}
					continue
				}
			}
			popped := th.Pop()
			if popped != nil && popped.Warp {
				th.WarpDepth--
				warp = th.InWarp()
			}
			if th.Status == thread.Done {
				return
			}
			continue
		}

		blk := graph.Block(f.Cursor)
		if blk == nil {
			// Dangling reference: spec.md §7, treat as falling off the
			// end of this frame rather than crashing.
			f.Cursor = ""
			continue
		}

		ctx := &ops.Context{Target: tgt, Graph: graph, Thread: th, Frame: f, Engine: host}
		ops.Dispatch(ctx, blk) // malformed/unknown opcodes are no-ops; see ops.Dispatch
		warp = th.InWarp()     // a procedure call just dispatched may have changed WarpDepth

		switch th.Status {
		case thread.Waiting, thread.Done, thread.Killed, thread.YieldedFrame, thread.YieldedTick:
			return
		}

		if blk.Info().Redraw && !warp {
			th.Status = thread.YieldedFrame
			return
		}

		if budgetExceeded(&steps, warp, th, host) {
			return
		}
	}
}

// budgetExceeded increments the per-frame step counter for a warp thread
// and, if it crosses WarpStepBudget, forces a yield (not a kill) per
// spec.md §7 StepBudgetExceeded. Non-warp threads are never budget-capped
// here; their own yield points (redraw/loop) already bound their run.
func budgetExceeded(steps *int, warp bool, th *thread.Thread, host Host) bool {
	if !warp {
		return false
	}
	*steps++
	if *steps >= WarpStepBudget {
		th.Status = thread.YieldedFrame
		if obs, ok := host.(BudgetObserver); ok {
			obs.StepBudgetExceeded(th)
		}
		return true
	}
	return false
}

// Reap returns threads with Done and Killed entries removed, compacting
// the set per spec.md §2's "thread reaping compacts the set".
func Reap(threads []*thread.Thread) []*thread.Thread {
	out := threads[:0]
	for _, th := range threads {
		if th.IsAlive() {
			out = append(out, th)
		}
	}
	return out
}

var _ = blockgraph.BlockID("") // blockgraph is part of this package's public surface via ops.Context/Host
