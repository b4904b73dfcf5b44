// Package broadcast implements spec.md §4.7's broadcast-name bookkeeping
// and edge-triggered hat tracking. It deliberately does not spawn threads
// itself — that needs the block graph and target set, which is
// pkg/runtime's job — it only owns the two pieces of state that are
// purely about *names* and *edges*: canonicalizing a broadcast name for
// matching while preserving its display form, and remembering each
// predicate hat's last evaluated value so it fires only on a
// false->true transition.
package broadcast

import "golang.org/x/text/cases"

var foldCaser = cases.Fold()

// Canonicalize folds name for broadcast-id matching (spec.md §4.7
// "Broadcast names are canonicalised to lower-case for matching but
// preserved as-given for display").
func Canonicalize(name string) string { return foldCaser.String(name) }

// EdgeTracker remembers, per hat instance id, whether its predicate last
// evaluated true — the state spec.md §4.7 calls last_value.
type EdgeTracker struct {
	lastValue map[string]bool
}

// NewEdgeTracker returns an empty tracker.
func NewEdgeTracker() *EdgeTracker {
	return &EdgeTracker{lastValue: make(map[string]bool)}
}

// Evaluate records current for hatID and reports whether this update is a
// false->true transition (i.e. the hat should fire). A still-true
// predicate across repeated calls does not re-fire, matching spec.md §4.7.
func (e *EdgeTracker) Evaluate(hatID string, current bool) bool {
	prev := e.lastValue[hatID]
	e.lastValue[hatID] = current
	return !prev && current
}

// Forget drops a hat's tracked state (e.g. when its target is deleted).
func (e *EdgeTracker) Forget(hatID string) { delete(e.lastValue, hatID) }
