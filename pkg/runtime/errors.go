// Package runtime is the composition root: it wires pkg/clock, pkg/broadcast,
// pkg/audio, pkg/target, and pkg/thread together behind the ops.Engine and
// scheduler.Host interfaces, and owns the one piece of state neither of
// those packages is allowed to own — the canonical, per-frame-growable
// thread slice (spec.md §5 "Ordering guarantees").
//
// This plays the role vm.New/VM plays for the teacher: vm.go composes a
// stack, a call stack, a global/local environment, and a *Debugger into
// one struct that drives Run() to completion; Runtime composes the
// Scratch-side equivalents and drives update(dt) once per logical frame
// instead of once per program.
package runtime

import (
	"fmt"

	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/thread"
)

// ErrorKind is one of spec.md §7's error kinds. Like the teacher's
// RuntimeError (pkg/vm/errors.go), this exists so a host can distinguish
// failure categories with errors.As/errors.Is instead of string matching
// — but per §7, none of these ever leave the engine as a returned Go
// error; they are logged at the single call site (Runtime.logf) and the
// operation degrades (no-op / zero / immediate completion) in place.
type ErrorKind int

const (
	ReferenceMissing ErrorKind = iota
	ResourceMissing
	CloneLimitExceeded
	StepBudgetExceededKind
	HostErrorKind
)

func (k ErrorKind) String() string {
	switch k {
	case ReferenceMissing:
		return "ReferenceMissing"
	case ResourceMissing:
		return "ResourceMissing"
	case CloneLimitExceeded:
		return "CloneLimit"
	case StepBudgetExceededKind:
		return "StepBudgetExceeded"
	case HostErrorKind:
		return "HostError"
	default:
		return "Unknown"
	}
}

// DegradedError records one of spec.md §7's non-fatal degrade conditions,
// carrying just enough context (which thread, which target, what was
// missing) to make a log line actionable, the way the teacher's
// RuntimeError carries a StackFrame trace rather than a bare message.
type DegradedError struct {
	Kind         ErrorKind
	ThreadID     thread.ID
	TargetHandle target.Handle
	Detail       string
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("%s: %s (thread=%s target=%s)", e.Kind, e.Detail, e.ThreadID, e.TargetHandle)
}
