// Package target implements the mutable per-target state described in
// spec.md §3 "Target": the stage, each sprite, and each runtime clone.
//
// This plays the role the teacher's pkg/vm Instance/ClassDefinition pair
// plays for smog objects (a class-shared, read-only definition plus a
// per-instance mutable Fields slice) — except a Scratch clone doesn't
// share mutable fields with its originating sprite by index, it gets a
// full deep copy at creation time (spec.md §3 "clones inherit deep copies
// at creation"; §4.2 "subsequent writes diverge"), since variables and
// lists are looked up by id/name rather than by a compiler-assigned slot.
package target

import (
	"github.com/google/uuid"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/value"
)

// RotationStyle is one of the three sprite rotation modes (spec.md §3).
type RotationStyle string

const (
	RotationAllAround  RotationStyle = "all around"
	RotationLeftRight  RotationStyle = "left-right"
	RotationDontRotate RotationStyle = "don't rotate"
)

// VariableKind distinguishes scalar, list, and broadcast "variables" —
// Scratch's project format keeps all three in one namespace (spec.md §3).
type VariableKind string

const (
	VariableScalar    VariableKind = "scalar"
	VariableList      VariableKind = "list"
	VariableBroadcast VariableKind = "broadcast"
)

// Variable is spec.md §3's Variable record. Only one of Value/List/Bcast
// is meaningful, selected by Kind.
type Variable struct {
	ID    string
	Name  string
	Kind  VariableKind
	Value value.Value   // meaningful when Kind == VariableScalar
	List  []value.Value // meaningful when Kind == VariableList; stored 0-based (List[0] is item 1), the List helpers take 1-based positions
	Bcast string        // meaningful when Kind == VariableBroadcast: the canonical broadcast name
}

// Costume and Sound are the asset *references* a target owns; decoding the
// underlying asset bytes is the out-of-scope asset-decoder collaborator's
// job (spec.md §1). The engine only needs the id/name/index bookkeeping.
type Costume struct {
	ID   string
	Name string
}

type Sound struct {
	ID       string
	Name     string
	Duration float64 // seconds; not read by the engine: sound_playuntildone completion comes only from the audio Sink
}

// SoundEffects holds the two sound-specific effect knobs (spec.md §3),
// clamped on write by SetPitch/SetPan.
type SoundEffects struct {
	Pitch float64 // clamped to [-360, 360]
	Pan   float64 // clamped to [-100, 100]
}

// Handle is a stable, comparable identity for a Target, used by pkg/thread
// so a thread can detect "my target was deleted" at a frame boundary
// without holding a dangling pointer (spec.md §9 "Clone ownership").
// google/uuid is used here (rather than e.g. a monotonic counter) because
// clones are created and destroyed continuously during a run and a handle
// must never collide with a reused slot — the same reasoning the retrieval
// pack's other_examples/infastin-toy project applies when it reaches for
// uuid to hand out opaque object identities.
type Handle uuid.UUID

func newHandle() Handle { return Handle(uuid.New()) }

func (h Handle) String() string { return uuid.UUID(h).String() }

// Target is spec.md §3's per-target mutable state.
type Target struct {
	handle Handle

	IsStage  bool
	Name     string
	X, Y     float64 // sprites only; stage leaves these at 0
	Direction float64 // degrees, Scratch convention (spec.md §4.2)
	Size     float64 // percent, 100 = normal
	Visible  bool

	Costumes           []Costume
	CurrentCostumeIndex int
	// BoundingWidth/BoundingHeight are the current costume's axis-aligned
	// bounding box in stage pixels (spec.md §4.6's "half the sprite's
	// current costume bounding size"). Computing this precisely from a
	// rotated, scaled costume bitmap is the out-of-scope renderer's job
	// (spec.md §1); the engine only needs the two scalars fencing reads.
	BoundingWidth, BoundingHeight float64
	Sounds             []Sound
	Volume             float64 // clamped [0,100]
	Effects            SoundEffects
	// GraphicEffects holds the looks-category effect knobs (color, ghost,
	// brightness, ...) by name. Unlike Volume/Pitch/Pan, Scratch does not
	// clamp these on write, so they are stored unclamped (spec.md §3 only
	// specifies clamping for sound_effects).
	GraphicEffects map[string]float64
	RotationStyle      RotationStyle
	LayerOrder         int

	Variables map[string]*Variable // keyed by id
	Lists     map[string]*Variable // keyed by id, Kind == VariableList
	nameIndex map[string]string    // name -> id, for name-based lookup within this target's scope

	Graph *blockgraph.Graph // shared by a sprite and all of its clones

	IsClone    bool
	Originator Handle // the sprite this clone was created from; zero Handle for non-clones

	TextToSpeechVoice string // text2speech_state per spec.md §3; engine only tracks the selection, synthesis is an external TTS service
}

// New creates a fresh, non-clone target (a sprite or the stage).
func New(name string, isStage bool) *Target {
	return &Target{
		handle:        newHandle(),
		IsStage:       isStage,
		Name:          name,
		Size:          100,
		Visible:       true,
		Volume:        100,
		RotationStyle: RotationAllAround,
		Variables:      make(map[string]*Variable),
		Lists:          make(map[string]*Variable),
		nameIndex:      make(map[string]string),
		GraphicEffects: make(map[string]float64),
	}
}

// Handle returns this target's stable identity.
func (t *Target) Handle() Handle { return t.handle }

// DefineVariable registers a scalar/list/broadcast variable under its id
// and indexes it by name for name-based lookup.
func (t *Target) DefineVariable(v *Variable) {
	if v.Kind == VariableList {
		t.Lists[v.ID] = v
	} else {
		t.Variables[v.ID] = v
	}
	t.nameIndex[v.Name] = v.ID
}

// LookupByID finds a variable by id, stage-scope excluded (callers that
// want the stage fallback use LookupByName).
func (t *Target) LookupByID(id string) (*Variable, bool) {
	if v, ok := t.Variables[id]; ok {
		return v, true
	}
	if v, ok := t.Lists[id]; ok {
		return v, true
	}
	return nil, false
}

// LookupByName resolves a variable by name within this target's scope,
// falling back to stage scope per spec.md §3's invariant. stage may be nil
// when t is itself the stage (no further fallback).
func (t *Target) LookupByName(name string, stage *Target) (*Variable, bool) {
	if id, ok := t.nameIndex[name]; ok {
		if v, ok := t.LookupByID(id); ok {
			return v, true
		}
	}
	if stage != nil && stage != t {
		return stage.LookupByName(name, nil)
	}
	return nil, false
}

// SetVolume clamps and stores the target's volume (spec.md §3).
func (t *Target) SetVolume(v float64) {
	t.Volume = clamp(v, 0, 100)
}

// SetPitch clamps and stores the pitch sound effect.
func (t *Target) SetPitch(v float64) {
	t.Effects.Pitch = clamp(v, -360, 360)
}

// SetPan clamps and stores the pan sound effect.
func (t *Target) SetPan(v float64) {
	t.Effects.Pan = clamp(v, -100, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clone returns a new clone of t: a deep copy of variables/lists and a
// shared (not copied) Graph pointer, per spec.md §3's clone invariants.
// The clone's own Handle is freshly minted; the caller (pkg/runtime) is
// responsible for enforcing the clone cap (spec.md §3 "Lifecycles",
// §7 CloneLimit) before calling Clone.
func (t *Target) Clone() *Target {
	c := &Target{
		handle:            newHandle(),
		IsStage:           false,
		Name:              t.Name,
		X:                 t.X,
		Y:                 t.Y,
		Direction:         t.Direction,
		Size:              t.Size,
		Visible:           t.Visible,
		Costumes:          t.Costumes,
		CurrentCostumeIndex: t.CurrentCostumeIndex,
		BoundingWidth:     t.BoundingWidth,
		BoundingHeight:    t.BoundingHeight,
		Sounds:            t.Sounds,
		Volume:            t.Volume,
		Effects:           t.Effects,
		GraphicEffects:    make(map[string]float64, len(t.GraphicEffects)),
		RotationStyle:     t.RotationStyle,
		LayerOrder:        t.LayerOrder,
		Variables:         make(map[string]*Variable, len(t.Variables)),
		Lists:             make(map[string]*Variable, len(t.Lists)),
		nameIndex:         make(map[string]string, len(t.nameIndex)),
		Graph:             t.Graph,
		IsClone:           true,
		Originator:        t.handle,
	}
	for id, v := range t.Variables {
		cp := *v
		c.Variables[id] = &cp
	}
	for id, v := range t.Lists {
		cp := *v
		cp.List = append([]value.Value(nil), v.List...)
		c.Lists[id] = &cp
	}
	for name, id := range t.nameIndex {
		c.nameIndex[name] = id
	}
	for k, v := range t.GraphicEffects {
		c.GraphicEffects[k] = v
	}
	return c
}
