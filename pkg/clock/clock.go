// Package clock implements the timing primitives spec.md §4.9 describes:
// the process-wide timer (advanced by runtime.update(dt), zeroed by
// reset_timer), the legacy global counter, and daysSince2000 with its DST
// correction.
//
// Grounded on the teacher's pkg/vm/primitives.go "Date/Time Primitives"
// section: small, independently testable functions wrapping the stdlib
// time package, one responsibility per function, rather than a monolithic
// "now" call scattered across the VM.
package clock

import "time"

// Clock is the runtime's process-wide time source.
type Clock struct {
	elapsed float64 // seconds since last reset_timer
	counter float64
}

// New returns a Clock with its timer and counter both zeroed.
func New() *Clock { return &Clock{} }

// Advance moves the timer forward by dt seconds (runtime.update(dt)).
func (c *Clock) Advance(dt float64) { c.elapsed += dt }

// Now returns the timer's current value in seconds.
func (c *Clock) Now() float64 { return c.elapsed }

// ResetTimer zeros the timer (sensing_resettimer).
func (c *Clock) ResetTimer() { c.elapsed = 0 }

// Counter returns the legacy global counter's value.
func (c *Clock) Counter() float64 { return c.counter }

// IncrCounter increments the global counter by one.
func (c *Clock) IncrCounter() { c.counter++ }

// ClearCounter resets the global counter to zero.
func (c *Clock) ClearCounter() { c.counter = 0 }

// epoch2000 is the Scratch daysSince2000 epoch: 2000-01-01T00:00:00 UTC.
var epoch2000 = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DaysSince2000 returns (now - epoch2000) in days, DST-corrected per
// spec.md §4.2: the raw millisecond delta has
// (tz_offset(now) - tz_offset(epoch2000)) * 60000 subtracted out, so the
// result matches what a JS `Date` computes in local time regardless of
// whether a DST transition happened between the epoch and now.
func DaysSince2000(now time.Time) float64 {
	rawMS := float64(now.UnixMilli() - epoch2000.UnixMilli())
	_, nowOffsetSec := now.Zone()
	_, epochOffsetSec := epoch2000.In(now.Location()).Zone()
	correctionMS := float64((nowOffsetSec/60 - epochOffsetSec/60) * 60000)
	return (rawMS - correctionMS) / 86_400_000
}
