package runtime

import (
	"log"
	"math/rand"
	"time"

	"github.com/scratchkit/scratchvm/pkg/audio"
	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/broadcast"
	"github.com/scratchkit/scratchvm/pkg/clock"
	"github.com/scratchkit/scratchvm/pkg/ops"
	"github.com/scratchkit/scratchvm/pkg/scheduler"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
)

// Options configures a Runtime, the same role the teacher leaves to
// cmd/smog's hand-assembled flag choices (vm.New itself takes no config).
// There is no project config-file format here, only these in-process
// knobs; cmd/scratchvm's CLI flags are the one place they're parsed from
// text (SPEC_FULL.md "Configuration").
type Options struct {
	// StepBudget is stored but not consulted: scheduler.StepThread always
	// bounds a warp thread's per-frame block executions by the constant
	// scheduler.WarpStepBudget (spec.md §5, §7 StepBudgetExceeded),
	// whatever value is set here.
	StepBudget int
	// CloneCap bounds the number of live clones (spec.md §7 CloneLimit).
	// Zero means DefaultCloneCap.
	CloneCap int
	// FencingEnabled gates whether motion setters clamp into the stage
	// (spec.md §4.6).
	FencingEnabled bool
	// Logger receives one line per degraded condition (spec.md §7); nil
	// discards them.
	Logger *log.Logger
	// Rand seeds operator_random; nil uses a fixed, reproducible source
	// so two runtime instances given identical scripts produce identical
	// variable states (spec.md §8 "Loop determinism").
	Rand *rand.Rand
}

// DefaultCloneCap is the clone ceiling used when Options.CloneCap is left
// at zero.
const DefaultCloneCap = 300

func (o Options) stepBudget() int {
	if o.StepBudget > 0 {
		return o.StepBudget
	}
	return scheduler.WarpStepBudget
}

func (o Options) cloneCap() int {
	if o.CloneCap > 0 {
		return o.CloneCap
	}
	return DefaultCloneCap
}

// Stats exposes counters a host can poll for operability, the systems
// analogue of the teacher's call-stack-depth bookkeeping kept purely for
// stack-trace reporting.
type Stats struct {
	StepBudgetHits int
}

// Runtime composes pkg/clock, pkg/broadcast, pkg/audio, and the target
// registry behind ops.Engine and scheduler.Host, and owns the one piece of
// mutable state those packages deliberately don't: the live thread slice,
// grown mid-frame by Broadcast and compacted by scheduler.Reap at frame
// end (spec.md §5 "Ordering guarantees").
type Runtime struct {
	opts   Options
	clock  *clock.Clock
	edges  *broadcast.EdgeTracker
	audio  *audio.Engine
	rng    *rand.Rand
	logger *log.Logger

	stage   *target.Target
	targets map[target.Handle]*target.Target
	order   []target.Handle // insertion order: stable iteration for Targets()/TargetByName

	threads []*thread.Thread

	cloneCount         int
	pendingCloneStarts []target.Handle
	pendingDeletes     []target.Handle

	pendingGreenFlag bool
	pendingKeys      []string
	pendingClicks    []target.Handle

	keys      map[string]bool
	mouseX    float64
	mouseY    float64
	mouseDown bool

	stats Stats
}

// New returns a Runtime over the given stage and no sprites. Use AddSprite
// (and the stage's own Target, from Stage()) to populate targets before
// the first update.
func New(stage *target.Target, sink audio.Sink, opts Options) *Runtime {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	r := &Runtime{
		opts:    opts,
		clock:   clock.New(),
		edges:   broadcast.NewEdgeTracker(),
		audio:   audio.New(sink),
		rng:     rng,
		logger:  opts.Logger,
		stage:   stage,
		targets: make(map[target.Handle]*target.Target),
		keys:    make(map[string]bool),
	}
	r.register(stage)
	return r
}

// AddSprite registers t (a freshly-created, non-clone sprite) with the
// runtime so its hats become eligible for spawning.
func (r *Runtime) AddSprite(t *target.Target) {
	r.register(t)
}

func (r *Runtime) register(t *target.Target) {
	r.targets[t.Handle()] = t
	r.order = append(r.order, t.Handle())
}

func (r *Runtime) logf(kind ErrorKind, threadID thread.ID, handle target.Handle, detail string) {
	if r.logger == nil {
		return
	}
	r.logger.Print((&DegradedError{Kind: kind, ThreadID: threadID, TargetHandle: handle, Detail: detail}).Error())
}

// Stats returns a snapshot of the runtime's observable counters.
func (r *Runtime) Stats() Stats { return r.stats }

// StepBudgetExceeded implements scheduler.BudgetObserver.
func (r *Runtime) StepBudgetExceeded(th *thread.Thread) {
	r.stats.StepBudgetHits++
	r.logf(StepBudgetExceededKind, th.ID(), th.TargetHandle, "warp thread forcibly yielded")
}

// --- Event input API (spec.md §6) ---------------------------------------

// BroadcastGreenFlag queues a green-flag event, drained at the start of
// the next update(dt).
func (r *Runtime) BroadcastGreenFlag() { r.pendingGreenFlag = true }

// BroadcastKey queues a key-press event for the named key (spec.md §6
// "canonical names include space, letter keys, arrow keys, any").
func (r *Runtime) BroadcastKey(key string) { r.pendingKeys = append(r.pendingKeys, key) }

// BroadcastSpriteClick queues a sprite-click event for the target
// currently at handle.
func (r *Runtime) BroadcastSpriteClick(handle target.Handle) {
	r.pendingClicks = append(r.pendingClicks, handle)
}

// SetMouse updates the pointer state sensing_mousex/y/down read; it is not
// queued because it is state, not an event that spawns threads.
func (r *Runtime) SetMouse(x, y float64, down bool) {
	r.mouseX, r.mouseY, r.mouseDown = x, y, down
}

// SetKeyState records key as currently held or released. sensing_keypressed
// reads this continuous state; it is distinct from BroadcastKey, which
// fires the edge-triggered event_whenkeypressed hat. spec.md §6 only names
// the broadcast, not a release event — the held-state query
// sensing_keypressed needs is a SUPPLEMENTED input the host must drive.
func (r *Runtime) SetKeyState(key string, down bool) { r.keys[key] = down }

// SetTimerReset zeros the runtime timer (spec.md §6 set_timer_reset()).
func (r *Runtime) SetTimerReset() { r.clock.ResetTimer() }

// --- update loop (spec.md §4.5) -----------------------------------------

// Update advances the runtime by one logical frame, per spec.md §4.5's
// five numbered steps.
func (r *Runtime) Update(dt float64) {
	r.clock.Advance(dt) // step 1

	r.drainEvents() // step 2

	scheduler.AdvanceGlides(r.threads, r.targetOf, r.clock.Now())
	scheduler.PrepareFrame(r.threads)

	for i := 0; i < len(r.threads); i++ { // step 3; len re-read each iteration so
		th := r.threads[i] // broadcast-spawned receivers appended
		if th.Status != thread.Running && th.Status != thread.Waiting {
			continue
		}
		tgt := r.targetOf(th.TargetHandle)
		if tgt == nil {
			th.Status = thread.Killed // owning target vanished (e.g. clone deleted)
			continue
		}
		scheduler.StepThread(th, tgt, r)
	}

	r.evaluateGreaterThanHats() // step 4

	r.threads = scheduler.Reap(r.threads) // step 5
	r.applyPendingDeletes()
}

func (r *Runtime) drainEvents() {
	if r.pendingGreenFlag {
		r.pendingGreenFlag = false
		r.spawnHats("event_whenflagclicked", func(*target.Target, *blockgraph.Block) bool { return true })
	}
	for _, key := range r.pendingKeys {
		r.keys[key] = true
		r.spawnHats("event_whenkeypressed", func(_ *target.Target, hat *blockgraph.Block) bool {
			want := hat.Fields["KEY_OPTION"].Text
			return want == "any" || want == key
		})
	}
	r.pendingKeys = r.pendingKeys[:0]

	for _, handle := range r.pendingClicks {
		r.spawnHats("event_whenthisspriteclicked", func(t *target.Target, _ *blockgraph.Block) bool {
			return t.Handle() == handle
		})
	}
	r.pendingClicks = r.pendingClicks[:0]

	for _, handle := range r.pendingCloneStarts {
		t := r.targets[handle]
		if t == nil {
			continue
		}
		for _, hat := range t.Graph.HatsByOpcode("control_start_as_clone") {
			r.spawnThread(t, hat)
		}
	}
	r.pendingCloneStarts = r.pendingCloneStarts[:0]
}

func (r *Runtime) spawnHats(op blockgraph.Opcode, match func(*target.Target, *blockgraph.Block) bool) {
	for _, handle := range r.order {
		t := r.targets[handle]
		if t == nil || t.Graph == nil {
			continue
		}
		for _, hat := range t.Graph.HatsByOpcode(op) {
			if match(t, hat) {
				r.spawnThread(t, hat)
			}
		}
	}
}

// spawnThread implements spec.md §4.5 step 2's restart rule: a prior Done
// thread for the same (target, top_block) restarts in place rather than
// being duplicated, so a script that finished before the next fire of its
// own hat picks up fresh instead of piling up dead threads.
func (r *Runtime) spawnThread(t *target.Target, hat *blockgraph.Block) thread.ID {
	for _, th := range r.threads {
		if th.TargetHandle == t.Handle() && th.TopBlock == hat.ID && th.Status == thread.Done && th.Restartable {
			th.Frames = []*thread.Frame{{Cursor: hat.Next, Body: hat.Next}}
			th.Status = thread.Running
			th.WarpDepth = 0
			th.Wait = thread.WaitNone
			th.Glide = nil
			return th.ID()
		}
	}
	th := thread.New(t.Handle(), hat.ID, hat.Next)
	r.threads = append(r.threads, th)
	return th.ID()
}

// evaluateGreaterThanHats implements spec.md §4.5 step 4: edge-triggered
// predicate hats are polled once per frame, after block execution, firing
// only on a false->true transition (pkg/broadcast.EdgeTracker).
func (r *Runtime) evaluateGreaterThanHats() {
	for _, handle := range r.order {
		t := r.targets[handle]
		if t == nil || t.Graph == nil {
			continue
		}
		for _, hat := range t.Graph.HatsByOpcode("event_whengreaterthan") {
			current := r.greaterThanPredicate(t, hat)
			edgeID := handle.String() + ":" + string(hat.ID)
			if r.edges.Evaluate(edgeID, current) {
				r.spawnThread(t, hat)
			}
		}
	}
}

func (r *Runtime) greaterThanPredicate(t *target.Target, hat *blockgraph.Block) bool {
	ctx := &ops.Context{Target: t, Graph: t.Graph, Engine: r}
	threshold := ctx.Resolve(hat, "VALUE").ToNumber()
	switch ctx.Field(hat, "WHENGREATERTHANMENU") {
	case "TIMER":
		return r.clock.Now() > threshold
	default:
		// LOUDNESS and any future option: no input sensor is wired
		// (spec.md §1 "the input layer ... is out of scope"), so the
		// predicate never trips.
		return false
	}
}

func (r *Runtime) applyPendingDeletes() {
	if len(r.pendingDeletes) == 0 {
		return
	}
	for _, handle := range r.pendingDeletes {
		delete(r.targets, handle)
		for i, h := range r.order {
			if h == handle {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.pendingDeletes = r.pendingDeletes[:0]
}

func (r *Runtime) targetOf(h target.Handle) *target.Target { return r.targets[h] }

// --- ops.Engine -----------------------------------------------------------

func (r *Runtime) Now() float64           { return r.clock.Now() }
func (r *Runtime) ResetTimer()            { r.clock.ResetTimer() }
func (r *Runtime) Counter() float64       { return r.clock.Counter() }
func (r *Runtime) IncrCounter()           { r.clock.IncrCounter() }
func (r *Runtime) ClearCounter()          { r.clock.ClearCounter() }
func (r *Runtime) DaysSince2000() float64 { return clock.DaysSince2000(time.Now()) }

// Random implements spec.md §4.2's random(from, to): if both bounds are
// whole numbers, the result is an inclusive integer; otherwise a uniform
// float across the range. Callers (operator_random) already sort lo <= hi.
func (r *Runtime) Random(lo, hi float64) float64 {
	if lo == float64(int64(lo)) && hi == float64(int64(hi)) {
		loI, hiI := int64(lo), int64(hi)
		span := hiI - loI + 1
		if span <= 0 {
			return lo
		}
		return float64(loI + r.rng.Int63n(span))
	}
	return lo + r.rng.Float64()*(hi-lo)
}

func (r *Runtime) Stage() *target.Target { return r.stage }

func (r *Runtime) Targets() []*target.Target {
	out := make([]*target.Target, 0, len(r.order))
	for _, h := range r.order {
		if t := r.targets[h]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Threads returns a snapshot of the live thread slice, for pkg/trace's
// read-only inspection. Callers must not retain it across an Update call:
// the underlying threads are reused/compacted in place (spec.md §5
// "reaping compacts the set").
func (r *Runtime) Threads() []*thread.Thread {
	out := make([]*thread.Thread, len(r.threads))
	copy(out, r.threads)
	return out
}

func (r *Runtime) TargetByName(name string) (*target.Target, bool) {
	for _, h := range r.order {
		if t := r.targets[h]; t != nil && t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// CreateClone implements spec.md §3/§7: a deep copy of src registered
// immediately (so Handle-based lookups resolve this same frame), with its
// `when I start as a clone` hat deferred to the next update's event drain
// — "new clone creations take effect at frame end" (spec.md §5
// "Ordering"). ok is false once the clone cap is reached.
func (r *Runtime) CreateClone(src *target.Target) (*target.Target, bool) {
	if r.cloneCount >= r.opts.cloneCap() {
		r.logf(CloneLimitExceeded, thread.ID{}, src.Handle(), "clone cap reached")
		return nil, false
	}
	clone := src.Clone()
	r.register(clone)
	r.cloneCount++
	r.pendingCloneStarts = append(r.pendingCloneStarts, clone.Handle())
	return clone, true
}

// DeleteClone kills every thread running on h immediately and marks h for
// removal from the registry at this frame's end (spec.md §5 "deleted
// clones' threads are Killed immediately").
func (r *Runtime) DeleteClone(h target.Handle) {
	t := r.targets[h]
	if t == nil || !t.IsClone {
		return
	}
	for _, th := range r.threads {
		if th.TargetHandle == h {
			th.Status = thread.Killed
		}
	}
	r.pendingDeletes = append(r.pendingDeletes, h)
	r.cloneCount--
}

// Broadcast fires name immediately: every matching
// event_whenbroadcastreceived hat across every target is spawned (or
// restarted) right now, appended to the live thread slice so the same
// update() pass's remaining iterations give them a turn this frame
// (spec.md §5 "Ordering guarantees"). The returned ids are exactly the
// threads (re)started by this call, for broadcast-and-wait to join on
// (spec.md §4.7: "re-entered broadcasts of the same name spawn new
// handles, not the prior ones").
func (r *Runtime) Broadcast(name string) []thread.ID {
	canon := broadcast.Canonicalize(name)
	var spawned []thread.ID
	for _, handle := range r.order {
		t := r.targets[handle]
		if t == nil || t.Graph == nil {
			continue
		}
		for _, hat := range t.Graph.HatsByOpcode("event_whenbroadcastreceived") {
			if broadcast.Canonicalize(hat.Fields["BROADCAST_OPTION"].Text) != canon {
				continue
			}
			spawned = append(spawned, r.spawnThread(t, hat))
		}
	}
	return spawned
}

func (r *Runtime) ThreadDone(id thread.ID) bool {
	for _, th := range r.threads {
		if th.ID() == id {
			return th.Status == thread.Done
		}
	}
	return true // already reaped: it reached Done before it was compacted out
}

func (r *Runtime) PlaySound(t *target.Target, soundName string, wait bool) (uint64, bool) {
	h, ok := r.audio.Play(t, soundName, wait)
	if !ok {
		r.logf(ResourceMissing, thread.ID{}, t.Handle(), "sound not found: "+soundName)
		return 0, false
	}
	return uint64(h), true
}

func (r *Runtime) SoundDone(handle uint64) bool { return r.audio.Done(audio.Handle(handle)) }
func (r *Runtime) StopAllSounds()               { r.audio.StopAll() }

func (r *Runtime) StopAll() {
	for _, th := range r.threads {
		th.Status = thread.Killed
	}
}

func (r *Runtime) StopOtherScripts(on target.Handle, except thread.ID) {
	for _, th := range r.threads {
		if th.TargetHandle == on && th.ID() != except {
			th.Status = thread.Killed
		}
	}
}

// HostStop implements a host-initiated global stop (spec.md §5: "behaves
// as stop all plus audio stop-all"), distinct from the `stop all` block
// (StopAll), which leaves audio untouched.
func (r *Runtime) HostStop() {
	r.StopAll()
	r.audio.StopAll()
}

func (r *Runtime) KeyPressed(key string) bool {
	if key == "any" {
		for _, down := range r.keys {
			if down {
				return true
			}
		}
		return false
	}
	return r.keys[key]
}

func (r *Runtime) MouseX() float64      { return r.mouseX }
func (r *Runtime) MouseY() float64      { return r.mouseY }
func (r *Runtime) MouseDown() bool      { return r.mouseDown }
func (r *Runtime) FencingEnabled() bool { return r.opts.FencingEnabled }

// --- scheduler.Host --------------------------------------------------------

// ResolveWait implements scheduler.Host: every Waiting predicate shape
// spec.md §4.4/§4.5 names reduces to one of three checks — a deadline
// (wait and glide share WaitDeadline's "now >= deadline" test, since both
// are "resume once a precomputed time has passed"), a sound handle, or a
// join over a broadcast-and-wait receiver set.
func (r *Runtime) ResolveWait(th *thread.Thread) bool {
	switch th.Wait {
	case thread.WaitDeadline, thread.WaitGlide:
		return r.clock.Now() >= th.WaitDeadline
	case thread.WaitSound:
		return r.audio.Done(audio.Handle(th.WaitSoundID))
	case thread.WaitJoin:
		for _, id := range th.WaitJoinSet {
			if !r.ThreadDone(id) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

var _ ops.Engine = (*Runtime)(nil)
var _ scheduler.Host = (*Runtime)(nil)
var _ scheduler.BudgetObserver = (*Runtime)(nil)
