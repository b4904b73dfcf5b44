// Package fence implements the stage boundary geometry spec.md §4.6
// describes: clamping a sprite's position to stay within an inset of the
// stage edges, and the reflection math for "if on edge, bounce".
//
// This is a pure-geometry sibling to pkg/value's arithmetic helpers (round,
// mod) — small, stateless, table-free functions grounded directly in the
// spec's prose rather than in any teacher code, since the teacher (a
// language VM) has no notion of a bounded 2D stage. The shape of the
// package — free functions operating on plain float64s, no receiver type —
// follows pkg/value/arith.go's precedent for "this is math, not state".
package fence

// Stage extents and fence width (spec.md §6 "Numeric constants").
const (
	MaxX  = 240
	MinX  = -240
	MaxY  = 180
	MinY  = -180
	Width = 15
)

// Inset returns the effective fence inset for a sprite of the given
// costume bounding half-size: min(Width, halfBound), per spec.md §4.6.
func Inset(halfBound float64) float64 {
	if halfBound < Width {
		return halfBound
	}
	return Width
}

// Clamp constrains a proposed position (x, y) for a sprite with costume
// bounding box (boundW, boundH) so its nearest edge does not cross the
// stage edge minus the fence inset (spec.md §4.6). When fencingEnabled is
// false, it passes the position through unclamped (per the runtime option
// spec.md §4.6 names).
func Clamp(x, y, boundW, boundH float64, fencingEnabled bool) (float64, float64) {
	if !fencingEnabled {
		return x, y
	}
	insetX := Inset(boundW / 2)
	insetY := Inset(boundH / 2)
	x = clampAxis(x, MinX-insetX, MaxX+insetX)
	y = clampAxis(y, MinY-insetY, MaxY+insetY)
	return x, y
}

func clampAxis(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Bounce computes the post-bounce direction and corrected position for a
// sprite currently at (x, y) with costume bounding box (boundW, boundH)
// and heading direction (Scratch convention, 0=up/90=right), per
// spec.md §4.6's "if on edge, bounce": for each of the four stage edges,
// compute the overlap past that edge; if any overlap is positive, reflect
// the direction about the corresponding axis and translate the sprite
// back inside the stage by the maximum overlap. bounced reports whether
// any edge was crossed.
func Bounce(x, y, boundW, boundH, direction float64) (newX, newY, newDirection float64, bounced bool) {
	halfW, halfH := boundW/2, boundH/2

	overLeft := (MinX - (x - halfW))
	overRight := (x + halfW) - MaxX
	overBottom := (MinY - (y - halfH))
	overTop := (y + halfH) - MaxY

	maxOverlap := 0.0
	horiz, vert := false, false
	if overLeft > maxOverlap {
		maxOverlap = overLeft
		vert = true
	}
	if overRight > maxOverlap {
		maxOverlap = overRight
		vert = true
	}
	if overBottom > maxOverlap {
		maxOverlap = overBottom
		horiz = true
	}
	if overTop > maxOverlap {
		maxOverlap = overTop
		horiz = true
	}

	if maxOverlap <= 0 {
		return x, y, direction, false
	}

	newDirection = direction
	if horiz {
		newDirection = 180 - newDirection
	}
	if vert {
		newDirection = -newDirection
	}
	newDirection = Normalize(newDirection)

	newX, newY = x, y
	if overLeft > 0 {
		newX += overLeft
	} else if overRight > 0 {
		newX -= overRight
	}
	if overBottom > 0 {
		newY += overBottom
	} else if overTop > 0 {
		newY -= overTop
	}
	return newX, newY, newDirection, true
}

// Normalize folds a direction in degrees into (-180, 180], Scratch's
// canonical range (spec.md §4.2 "turnRight n ... normalised into
// (−180, 180]").
func Normalize(dir float64) float64 {
	for dir <= -180 {
		dir += 360
	}
	for dir > 180 {
		dir -= 360
	}
	return dir
}
