package scheduler

import (
	"testing"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/ops"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// fakeHost is a minimal scheduler.Host: it owns the thread slice so a
// broadcast fired mid-frame can append new receiver threads to the very
// slice RunFrame (simulated here by the test's own driving loop) is
// iterating, per spec.md §5's same-frame ordering guarantee.
type fakeHost struct {
	targets map[target.Handle]*target.Target
	threads *[]*thread.Thread
	graph   *blockgraph.Graph
	now     float64
	done    map[thread.ID]bool

	receiverBody blockgraph.BlockID // where a broadcast receiver thread starts, if set
}

func (h *fakeHost) Now() float64                    { return h.now }
func (h *fakeHost) ResetTimer()                     {}
func (h *fakeHost) Counter() float64                { return 0 }
func (h *fakeHost) IncrCounter()                    {}
func (h *fakeHost) ClearCounter()                   {}
func (h *fakeHost) DaysSince2000() float64          { return 0 }
func (h *fakeHost) Random(min, max float64) float64 { return min }

func (h *fakeHost) Stage() *target.Target                             { return nil }
func (h *fakeHost) Targets() []*target.Target                         { return nil }
func (h *fakeHost) TargetByName(string) (*target.Target, bool)        { return nil, false }
func (h *fakeHost) CreateClone(*target.Target) (*target.Target, bool) { return nil, false }
func (h *fakeHost) DeleteClone(target.Handle)                         {}

func (h *fakeHost) Broadcast(name string) []thread.ID {
	if h.receiverBody == "" {
		return nil
	}
	var anchor target.Handle
	for hnd := range h.targets {
		anchor = hnd
		break
	}
	nt := thread.New(anchor, h.receiverBody, h.receiverBody)
	*h.threads = append(*h.threads, nt)
	return []thread.ID{nt.ID()}
}
func (h *fakeHost) ThreadDone(id thread.ID) bool { return h.done[id] }

func (h *fakeHost) PlaySound(*target.Target, string, bool) (uint64, bool) { return 0, false }
func (h *fakeHost) SoundDone(uint64) bool                                 { return true }
func (h *fakeHost) StopAllSounds()                                        {}

func (h *fakeHost) StopAll()                                  {}
func (h *fakeHost) StopOtherScripts(target.Handle, thread.ID) {}

func (h *fakeHost) KeyPressed(string) bool { return false }
func (h *fakeHost) MouseX() float64        { return 0 }
func (h *fakeHost) MouseY() float64        { return 0 }
func (h *fakeHost) MouseDown() bool        { return false }
func (h *fakeHost) FencingEnabled() bool   { return true }

func (h *fakeHost) ResolveWait(th *thread.Thread) bool {
	switch th.Wait {
	case thread.WaitDeadline:
		return h.now >= th.WaitDeadline
	case thread.WaitJoin:
		for _, id := range th.WaitJoinSet {
			if !h.done[id] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

var _ Host = (*fakeHost)(nil)
var _ ops.Engine = (*fakeHost)(nil)

func newIncrementGraph(targetVar string) (*blockgraph.Graph, blockgraph.BlockID) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "inc", Opcode: "data_changevariableby", Fields: map[string]blockgraph.Field{
		"VARIABLE": {Text: targetVar, Ref: targetVar},
	}, Inputs: map[string]blockgraph.Input{
		"VALUE": {Kind: blockgraph.InputLiteral, Literal: value.Number(1)},
	}, InputOrder: []string{"VALUE"}})
	return g, "inc"
}

// runFrames drives every Running/Waiting thread in threads for n frames,
// the way pkg/runtime's update(dt) will: reset yields, resolve waits, and
// give each thread (including ones appended mid-frame) a turn in order.
func runFrames(threads *[]*thread.Thread, targetOf func(target.Handle) *target.Target, host Host, n int) {
	for i := 0; i < n; i++ {
		PrepareFrame(*threads)
		for idx := 0; idx < len(*threads); idx++ {
			th := (*threads)[idx]
			if !th.IsAlive() {
				continue
			}
			StepThread(th, targetOf(th.TargetHandle), host)
		}
		*threads = Reap(*threads)
	}
}

func TestRepeatYieldsOncePerIterationOutsideWarp(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "repeat", Opcode: "control_repeat", Inputs: map[string]blockgraph.Input{
		"TIMES":    {Kind: blockgraph.InputLiteral, Literal: value.Number(3)},
		"SUBSTACK": {Kind: blockgraph.InputSubstack, Substack: "inc"},
	}, InputOrder: []string{"TIMES", "SUBSTACK"}})
	g.Add(&blockgraph.Block{ID: "inc", Opcode: "data_changevariableby", Fields: map[string]blockgraph.Field{
		"VARIABLE": {Text: "counter", Ref: "v1"},
	}, Inputs: map[string]blockgraph.Input{
		"VALUE": {Kind: blockgraph.InputLiteral, Literal: value.Number(1)},
	}, InputOrder: []string{"VALUE"}})

	tgt := target.New("Sprite1", false)
	tgt.Graph = g
	tgt.DefineVariable(&target.Variable{ID: "v1", Name: "counter", Kind: target.VariableScalar, Value: value.Number(0)})

	th := thread.New(tgt.Handle(), "repeat", "repeat")
	threads := []*thread.Thread{th}
	targets := map[target.Handle]*target.Target{tgt.Handle(): tgt}
	host := &fakeHost{targets: targets, threads: &threads, graph: g, done: map[thread.ID]bool{}}
	targetOf := func(h target.Handle) *target.Target { return targets[h] }

	PrepareFrame(threads)
	StepThread(th, tgt, host)
	v, _ := tgt.LookupByID("v1")
	if v.Value.RawNumber() != 1 {
		t.Fatalf("after frame 1, counter = %v, want 1 (one iteration per frame outside warp)", v.Value)
	}
	if th.Status != thread.YieldedFrame {
		t.Fatalf("expected YieldedFrame after a data-only loop iteration, got %v", th.Status)
	}

	runFrames(&threads, targetOf, host, 2)
	v, _ = tgt.LookupByID("v1")
	if v.Value.RawNumber() != 3 {
		t.Errorf("counter after 3 frames = %v, want 3", v.Value)
	}
	if th.Status != thread.Done {
		t.Errorf("thread should be Done after repeat exhausts, got %v", th.Status)
	}
}

func TestWaitZeroYieldsTickNotDeadline(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "wait", Opcode: "control_wait", Inputs: map[string]blockgraph.Input{
		"DURATION": {Kind: blockgraph.InputLiteral, Literal: value.Number(0)},
	}, InputOrder: []string{"DURATION"}})

	tgt := target.New("Sprite1", false)
	tgt.Graph = g
	th := thread.New(tgt.Handle(), "wait", "wait")
	threads := []*thread.Thread{th}
	targets := map[target.Handle]*target.Target{tgt.Handle(): tgt}
	host := &fakeHost{targets: targets, threads: &threads, done: map[thread.ID]bool{}}

	StepThread(th, tgt, host)
	if th.Status != thread.YieldedTick {
		t.Errorf("wait 0 should yield YieldedTick, got %v", th.Status)
	}
	if th.Wait != thread.WaitNone {
		t.Errorf("wait 0 should not set a Wait predicate, got %v", th.Wait)
	}
}

func TestWarpSuppressesLoopYield(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{
		ID: "def", Opcode: "procedures_definition", TopLevel: true,
		Fields: map[string]blockgraph.Field{"PROCCODE": {Text: "loop"}, "ARGNAMES": {}, "WARP": {Text: "true"}},
		Next:   "repeat",
	})
	g.Add(&blockgraph.Block{ID: "repeat", Opcode: "control_repeat", Inputs: map[string]blockgraph.Input{
		"TIMES":    {Kind: blockgraph.InputLiteral, Literal: value.Number(5)},
		"SUBSTACK": {Kind: blockgraph.InputSubstack, Substack: "inc"},
	}, InputOrder: []string{"TIMES", "SUBSTACK"}})
	g.Add(&blockgraph.Block{ID: "inc", Opcode: "data_changevariableby", Fields: map[string]blockgraph.Field{
		"VARIABLE": {Text: "counter", Ref: "v1"},
	}, Inputs: map[string]blockgraph.Input{
		"VALUE": {Kind: blockgraph.InputLiteral, Literal: value.Number(1)},
	}, InputOrder: []string{"VALUE"}})
	g.Add(&blockgraph.Block{ID: "call", Opcode: "procedures_call", Fields: map[string]blockgraph.Field{
		"PROCCODE": {Text: "loop"}, "WARP": {Text: "true"},
	}})

	tgt := target.New("Sprite1", false)
	tgt.Graph = g
	tgt.DefineVariable(&target.Variable{ID: "v1", Name: "counter", Kind: target.VariableScalar, Value: value.Number(0)})

	th := thread.New(tgt.Handle(), "call", "call")
	targets := map[target.Handle]*target.Target{tgt.Handle(): tgt}
	threads := []*thread.Thread{th}
	host := &fakeHost{targets: targets, threads: &threads, done: map[thread.ID]bool{}}

	StepThread(th, tgt, host)

	v, _ := tgt.LookupByID("v1")
	if v.Value.RawNumber() != 5 {
		t.Errorf("warp call should run all 5 iterations in one turn, counter = %v", v.Value)
	}
	if th.Status != thread.Done {
		t.Errorf("thread should finish within the same frame under warp, got %v", th.Status)
	}
}

func TestBroadcastAndWaitReceiverRunsSameFrame(t *testing.T) {
	// spec.md §5/§8 scenario 3: broadcast-and-wait must schedule its
	// receiver to run within the same frame, after the already-scheduled
	// threads have had their turn, so that by the time the broadcaster's
	// own continuation resumes (next frame), the receiver's effect has
	// already landed: result == 11 = receiver(10) + continuation(1).
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "bcast", Opcode: "event_broadcastandwait", Inputs: map[string]blockgraph.Input{
		"BROADCAST_INPUT": {Kind: blockgraph.InputLiteral, Literal: value.Text("go")},
	}, InputOrder: []string{"BROADCAST_INPUT"}, Next: "continuation"})
	g.Add(&blockgraph.Block{ID: "continuation", Opcode: "data_changevariableby", Fields: map[string]blockgraph.Field{
		"VARIABLE": {Text: "result", Ref: "v1"},
	}, Inputs: map[string]blockgraph.Input{
		"VALUE": {Kind: blockgraph.InputLiteral, Literal: value.Number(1)},
	}, InputOrder: []string{"VALUE"}})
	g.Add(&blockgraph.Block{ID: "receiverSet", Opcode: "data_changevariableby", Fields: map[string]blockgraph.Field{
		"VARIABLE": {Text: "result", Ref: "v1"},
	}, Inputs: map[string]blockgraph.Input{
		"VALUE": {Kind: blockgraph.InputLiteral, Literal: value.Number(10)},
	}, InputOrder: []string{"VALUE"}})

	tgt := target.New("Sprite1", false)
	tgt.Graph = g
	tgt.DefineVariable(&target.Variable{ID: "v1", Name: "result", Kind: target.VariableScalar, Value: value.Number(0)})

	broadcaster := thread.New(tgt.Handle(), "bcast", "bcast")
	targets := map[target.Handle]*target.Target{tgt.Handle(): tgt}
	threads := []*thread.Thread{broadcaster}
	host := &fakeHost{targets: targets, threads: &threads, done: map[thread.ID]bool{}, receiverBody: "receiverSet"}
	targetOf := func(h target.Handle) *target.Target { return targets[h] }

	// Frame 1: broadcaster fires event_broadcastandwait, spawning the
	// receiver into `threads`; the receiver must get its turn before the
	// frame ends, per the ordering guarantee.
	PrepareFrame(threads)
	for idx := 0; idx < len(threads); idx++ {
		th := threads[idx]
		if !th.IsAlive() {
			continue
		}
		StepThread(th, targetOf(th.TargetHandle), host)
		if th != broadcaster && th.Status == thread.Done {
			host.done[th.ID()] = true
		}
	}
	threads = Reap(threads)

	v, _ := tgt.LookupByID("v1")
	if v.Value.RawNumber() != 10 {
		t.Fatalf("after frame 1, result = %v, want 10 (receiver ran same frame)", v.Value)
	}
	if broadcaster.Status != thread.Waiting {
		t.Fatalf("broadcaster should be parked on WaitJoin, got %v", broadcaster.Status)
	}

	// Frame 2: the receiver is done, so the broadcaster's wait resolves
	// and its continuation runs.
	runFrames(&threads, targetOf, host, 1)
	v, _ = tgt.LookupByID("v1")
	if v.Value.RawNumber() != 11 {
		t.Errorf("result after continuation = %v, want 11", v.Value)
	}
}
