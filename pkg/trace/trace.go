// Package trace is a read-only inspector over a running pkg/runtime.Runtime:
// per-thread frame stacks, per-target variables, and a block-id breakpoint
// registry a host can poll between frames.
//
// Adapted from the teacher's pkg/vm/debugger.go: that Debugger renders one
// linear instruction pointer, one stack, one call stack, because smog runs
// a single program to completion. Here there are N cooperative threads, so
// ShowThreads lists every thread and ShowStack takes one *thread.Thread,
// and "call stack" becomes a thread's frame stack (the procedure-call
// frames within it) rather than a separate field — spec.md §3's Thread has
// no call-stack distinct from its own Frames. The interactive stdin loop
// (InteractivePrompt in the teacher) is not reproduced: cmd/scratchvm's
// trace command takes breakpoints as flags and polls ShouldPause once per
// frame; this package only owns rendering and the breakpoint registry.
package trace

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/runtime"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
)

// Inspector wraps a *runtime.Runtime with read-only introspection and a
// block-id breakpoint registry. It never mutates the runtime.
type Inspector struct {
	rt          *runtime.Runtime
	breakpoints map[blockgraph.BlockID]bool
}

// New wraps rt for inspection.
func New(rt *runtime.Runtime) *Inspector {
	return &Inspector{rt: rt, breakpoints: make(map[blockgraph.BlockID]bool)}
}

// AddBreakpoint arms a breakpoint on block id. ShouldPause reports true for
// any thread currently parked with its cursor on an armed block.
func (in *Inspector) AddBreakpoint(id blockgraph.BlockID) { in.breakpoints[id] = true }

// RemoveBreakpoint disarms a breakpoint.
func (in *Inspector) RemoveBreakpoint(id blockgraph.BlockID) { delete(in.breakpoints, id) }

// ClearBreakpoints disarms every breakpoint.
func (in *Inspector) ClearBreakpoints() { in.breakpoints = make(map[blockgraph.BlockID]bool) }

// ShouldPause reports whether any live thread's current frame cursor sits
// on an armed breakpoint. A host (cmd/scratchvm) calls this between
// Update() calls, the same point the teacher's VM checks ShouldPause
// between instructions — except here the check is once per frame, since a
// Scratch thread never pauses mid-block.
func (in *Inspector) ShouldPause() (thread.ID, blockgraph.BlockID, bool) {
	for _, th := range in.rt.Threads() {
		if !th.IsAlive() {
			continue
		}
		f := th.Current()
		if f == nil {
			continue
		}
		if in.breakpoints[f.Cursor] {
			return th.ID(), f.Cursor, true
		}
	}
	return thread.ID{}, "", false
}

// ListBreakpoints returns armed breakpoint ids in a stable order.
func (in *Inspector) ListBreakpoints() []blockgraph.BlockID {
	out := make([]blockgraph.BlockID, 0, len(in.breakpoints))
	for id := range in.breakpoints {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ShowThreads writes one summary line per live thread: id, target, status,
// warp depth, and current block — the thread-table analogue of the
// teacher's ShowCallStack, generalized from one call stack to N threads.
func (in *Inspector) ShowThreads(w io.Writer) {
	threads := in.rt.Threads()
	if len(threads) == 0 {
		fmt.Fprintln(w, "Threads: (none)")
		return
	}
	fmt.Fprintln(w, "Threads:")
	for _, th := range threads {
		cursor := "(done)"
		if f := th.Current(); f != nil {
			cursor = string(f.Cursor)
			if cursor == "" {
				cursor = "(frame end)"
			}
		}
		fmt.Fprintf(w, "  %s target=%s status=%s warp=%d at=%s\n",
			th.ID(), th.TargetHandle, th.Status, th.WarpDepth, cursor)
	}
}

// ShowStack writes th's frame stack, innermost (top) first, the way the
// teacher's ShowStack prints the VM's value stack top to bottom — here a
// "frame" plays the role a stack slot does, since a Scratch thread's
// nesting state is its frame stack, not a value stack.
func (in *Inspector) ShowStack(w io.Writer, th *thread.Thread) {
	fmt.Fprintln(w, "Frames (innermost first):")
	if th.Depth() == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for i := th.Depth() - 1; i >= 0; i-- {
		f := th.Frames[i]
		kind := "substack"
		if f.IsCall {
			kind = fmt.Sprintf("call %s", f.ProcCode)
			if f.Warp {
				kind += " (warp)"
			}
		} else if f.Loop != thread.LoopNone {
			kind = loopKindName(f.Loop)
		}
		fmt.Fprintf(w, "  [%d] %s cursor=%s\n", i, kind, displayCursor(f.Cursor))
	}
}

func loopKindName(k thread.LoopKind) string {
	switch k {
	case thread.LoopRepeat:
		return "repeat"
	case thread.LoopRepeatUntil:
		return "repeat until"
	case thread.LoopWhile:
		return "while"
	case thread.LoopForever:
		return "forever"
	default:
		return "substack"
	}
}

func displayCursor(id blockgraph.BlockID) string {
	if id == "" {
		return "(frame end)"
	}
	return string(id)
}

// ShowVariables writes every scalar/list variable on t, the target
// analogue of the teacher's ShowGlobals (smog has no per-object variable
// dump since instance fields are positional, not named).
func (in *Inspector) ShowVariables(w io.Writer, t *target.Target) {
	fmt.Fprintf(w, "Variables (%s):\n", t.Name)
	if len(t.Variables) == 0 && len(t.Lists) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	names := make([]string, 0, len(t.Variables))
	for id := range t.Variables {
		names = append(names, id)
	}
	sort.Strings(names)
	for _, id := range names {
		v := t.Variables[id]
		fmt.Fprintf(w, "  %s = %s\n", v.Name, v.Value.ToString())
	}
	listNames := make([]string, 0, len(t.Lists))
	for id := range t.Lists {
		listNames = append(listNames, id)
	}
	sort.Strings(listNames)
	for _, id := range listNames {
		v := t.Lists[id]
		items := make([]string, len(v.List))
		for i, it := range v.List {
			items[i] = it.ToString()
		}
		fmt.Fprintf(w, "  %s = [%s]\n", v.Name, strings.Join(items, ", "))
	}
}

// ShowTargets writes one line per registered target (stage and sprites),
// mirroring the teacher's ShowGlobals/ShowLocals summary shape applied to
// the runtime's target registry instead of the VM's variable tables.
func (in *Inspector) ShowTargets(w io.Writer) {
	fmt.Fprintln(w, "Targets:")
	for _, t := range in.rt.Targets() {
		kind := "sprite"
		if t.IsStage {
			kind = "stage"
		} else if t.IsClone {
			kind = "clone"
		}
		fmt.Fprintf(w, "  %s (%s) at (%.1f, %.1f)\n", t.Name, kind, t.X, t.Y)
	}
}

// ShowStats writes the runtime's observable counters (spec.md §7
// StepBudgetExceeded accounting).
func (in *Inspector) ShowStats(w io.Writer) {
	s := in.rt.Stats()
	fmt.Fprintf(w, "Stats: step_budget_hits=%d\n", s.StepBudgetHits)
}
