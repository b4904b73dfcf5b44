package ops

import (
	"testing"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// fakeEngine is a minimal Engine stub for exercising ops in isolation,
// without pkg/scheduler or pkg/runtime. It records broadcasts/clones/stops
// so tests can assert on them.
type fakeEngine struct {
	now           float64
	counter       float64
	stage         *target.Target
	targets       map[string]*target.Target
	broadcasts    []string
	clonesCreated []target.Handle
	stoppedAll    bool
	fencing       bool
	randomValue   float64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{targets: map[string]*target.Target{}, fencing: true}
}

func (e *fakeEngine) Now() float64           { return e.now }
func (e *fakeEngine) ResetTimer()            { e.now = 0 }
func (e *fakeEngine) Counter() float64       { return e.counter }
func (e *fakeEngine) IncrCounter()           { e.counter++ }
func (e *fakeEngine) ClearCounter()          { e.counter = 0 }
func (e *fakeEngine) DaysSince2000() float64 { return 0 }
func (e *fakeEngine) Random(min, max float64) float64 {
	if e.randomValue != 0 {
		return e.randomValue
	}
	return min
}

func (e *fakeEngine) Stage() *target.Target { return e.stage }
func (e *fakeEngine) Targets() []*target.Target {
	out := make([]*target.Target, 0, len(e.targets))
	for _, t := range e.targets {
		out = append(out, t)
	}
	return out
}
func (e *fakeEngine) TargetByName(name string) (*target.Target, bool) {
	t, ok := e.targets[name]
	return t, ok
}
func (e *fakeEngine) CreateClone(src *target.Target) (*target.Target, bool) {
	c := src.Clone()
	e.clonesCreated = append(e.clonesCreated, c.Handle())
	return c, true
}
func (e *fakeEngine) DeleteClone(h target.Handle) {}

func (e *fakeEngine) Broadcast(name string) []thread.ID {
	e.broadcasts = append(e.broadcasts, name)
	return nil
}
func (e *fakeEngine) ThreadDone(id thread.ID) bool { return true }

func (e *fakeEngine) PlaySound(t *target.Target, soundName string, wait bool) (uint64, bool) {
	return 1, true
}
func (e *fakeEngine) SoundDone(handle uint64) bool { return true }
func (e *fakeEngine) StopAllSounds()               {}

func (e *fakeEngine) StopAll()                                            { e.stoppedAll = true }
func (e *fakeEngine) StopOtherScripts(on target.Handle, except thread.ID) {}

func (e *fakeEngine) KeyPressed(key string) bool { return false }
func (e *fakeEngine) MouseX() float64            { return 0 }
func (e *fakeEngine) MouseY() float64            { return 0 }
func (e *fakeEngine) MouseDown() bool            { return false }
func (e *fakeEngine) FencingEnabled() bool       { return e.fencing }

func newTestContext(t *target.Target, g *blockgraph.Graph, th *thread.Thread, e *fakeEngine) *Context {
	return &Context{Target: t, Graph: g, Thread: th, Frame: th.Current(), Engine: e}
}

func TestOperatorAddAndShortCircuit(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "add", Opcode: "operator_add", Inputs: map[string]blockgraph.Input{
		"NUM1": {Kind: blockgraph.InputLiteral, Literal: value.Number(2)},
		"NUM2": {Kind: blockgraph.InputLiteral, Literal: value.Number(3)},
	}, InputOrder: []string{"NUM1", "NUM2"}})
	tgt := target.New("Sprite1", false)
	th := thread.New(tgt.Handle(), "hat", "add")
	c := newTestContext(tgt, g, th, newFakeEngine())

	if got := c.EvalReporter("add"); got.RawNumber() != 5 {
		t.Errorf("operator_add = %v, want 5", got)
	}

	// "or" must not evaluate OPERAND2 when OPERAND1 is already true: wire
	// OPERAND2 to a reporter block this test would error on if evaluated.
	g.Add(&blockgraph.Block{ID: "or", Opcode: "operator_or", Inputs: map[string]blockgraph.Input{
		"OPERAND1": {Kind: blockgraph.InputLiteral, Literal: value.Bool(true)},
		"OPERAND2": {Kind: blockgraph.InputReporter, RefBlock: "missing-block-should-not-matter"},
	}, InputOrder: []string{"OPERAND1", "OPERAND2"}})
	if got := c.EvalReporter("or"); !got.ToBoolean() {
		t.Errorf("operator_or short-circuit should return true")
	}
}

func TestControlRepeatLoopsNTimes(t *testing.T) {
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
	tgt.DefineVariable(&target.Variable{ID: "v1", Name: "counter", Kind: target.VariableScalar, Value: value.Number(0)})
	th := thread.New(tgt.Handle(), "hat", "repeat")
	eng := newFakeEngine()

	// Drive the thread by hand the way pkg/scheduler would: execute the
	// current block, and whenever a frame's cursor falls off the end,
	// either re-enter its loop or pop it.
	for steps := 0; steps < 100 && th.IsAlive(); steps++ {
		f := th.Current()
		c := &Context{Target: tgt, Graph: g, Thread: th, Frame: f, Engine: eng}
		if f.Cursor == "" {
			if f.Loop != thread.LoopNone && ReenterLoop(c, f) {
				continue
			}
			th.Pop()
			continue
		}
		blk := g.Block(f.Cursor)
		if err := Dispatch(c, blk); err != nil {
			t.Fatalf("dispatch error: %v", err)
		}
	}

	v, _ := tgt.LookupByID("v1")
	if v.Value.RawNumber() != 3 {
		t.Errorf("counter = %v, want 3 after repeat 3", v.Value)
	}
	if th.Status != thread.Done {
		t.Errorf("thread should be Done, got %v", th.Status)
	}
}

func TestProcedureCallBindsArgumentsAndWarp(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{
		ID: "def", Opcode: "procedures_definition", TopLevel: true,
		Fields: map[string]blockgraph.Field{"PROCCODE": {Text: "add %n"}, "ARGNAMES": {Text: "n"}, "WARP": {Text: "true"}},
		Next:   "body",
	})
	g.Add(&blockgraph.Block{ID: "body", Opcode: "data_changevariableby", Fields: map[string]blockgraph.Field{
		"VARIABLE": {Text: "counter", Ref: "v1"},
	}, Inputs: map[string]blockgraph.Input{
		"VALUE": {Kind: blockgraph.InputReporter, RefBlock: "arg"},
	}, InputOrder: []string{"VALUE"}})
	g.Add(&blockgraph.Block{ID: "arg", Opcode: "argument_reporter_string_number", Fields: map[string]blockgraph.Field{
		"VALUE": {Text: "n"},
	}})
	g.Add(&blockgraph.Block{ID: "call", Opcode: "procedures_call", Fields: map[string]blockgraph.Field{
		"PROCCODE": {Text: "add %n"}, "WARP": {Text: "true"},
	}, Inputs: map[string]blockgraph.Input{
		"ARG0": {Kind: blockgraph.InputLiteral, Literal: value.Number(7)},
	}, InputOrder: []string{"ARG0"}})

	tgt := target.New("Sprite1", false)
	tgt.DefineVariable(&target.Variable{ID: "v1", Name: "counter", Kind: target.VariableScalar, Value: value.Number(0)})
	th := thread.New(tgt.Handle(), "call", "call")
	eng := newFakeEngine()
	c := &Context{Target: tgt, Graph: g, Thread: th, Frame: th.Current(), Engine: eng}

	if err := Dispatch(c, g.Block("call")); err != nil {
		t.Fatalf("dispatch procedures_call: %v", err)
	}
	if th.Depth() != 2 {
		t.Fatalf("expected a pushed call frame, depth = %d", th.Depth())
	}
	if th.WarpDepth != 1 {
		t.Errorf("warp call should increment WarpDepth, got %d", th.WarpDepth)
	}

	callFrame := th.Current()
	c2 := &Context{Target: tgt, Graph: g, Thread: th, Frame: callFrame, Engine: eng}
	if err := Dispatch(c2, g.Block(callFrame.Cursor)); err != nil {
		t.Fatalf("dispatch body: %v", err)
	}

	v, _ := tgt.LookupByID("v1")
	if v.Value.RawNumber() != 7 {
		t.Errorf("counter = %v, want 7 (argument binding)", v.Value)
	}
}

func TestStopThisScriptResumesCaller(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "stop", Opcode: "control_stop", Fields: map[string]blockgraph.Field{
		"STOP_OPTION": {Text: "this script"},
	}})

	tgt := target.New("Sprite1", false)
	th := thread.New(tgt.Handle(), "call", "outer")
	th.Push(&thread.Frame{Cursor: "stop", Body: "proc-body", IsCall: true})
	eng := newFakeEngine()
	c := &Context{Target: tgt, Graph: g, Thread: th, Frame: th.Current(), Engine: eng}

	if err := Dispatch(c, g.Block("stop")); err != nil {
		t.Fatalf("dispatch control_stop: %v", err)
	}
	if th.Depth() != 1 {
		t.Errorf("stop this script should pop back to the caller frame, depth = %d", th.Depth())
	}
	if th.Status == thread.Done {
		t.Errorf("thread should still be alive, the caller frame remains")
	}
}

func TestMotionMoveStepsAndFence(t *testing.T) {
	g := blockgraph.New()
	g.Add(&blockgraph.Block{ID: "goto", Opcode: "motion_goto_xy", Inputs: map[string]blockgraph.Input{
		"X": {Kind: blockgraph.InputLiteral, Literal: value.Number(300)},
		"Y": {Kind: blockgraph.InputLiteral, Literal: value.Number(0)},
	}, InputOrder: []string{"X", "Y"}})

	tgt := target.New("Sprite1", false)
	tgt.BoundingWidth, tgt.BoundingHeight = 40, 40
	th := thread.New(tgt.Handle(), "goto", "goto")
	eng := newFakeEngine()
	c := &Context{Target: tgt, Graph: g, Thread: th, Frame: th.Current(), Engine: eng}

	if err := Dispatch(c, g.Block("goto")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if tgt.X <= 240 || tgt.X > 255 {
		t.Errorf("fenced x = %v, want in (240, 255]", tgt.X)
	}
}
