// Package audio implements the audio engine state spec.md §4.8 describes:
// a handle-based registry of playing/waiting sounds per target, backed by
// an external playback Sink the engine treats as an opaque collaborator
// (spec.md §1 "the rendering pipeline ... the input layer ... only the
// events it delivers are specified" applies equally to audio playback).
//
// Grounded on the teacher's primitives.go pattern of wrapping an external
// facility (the OS, the network) behind a small typed Go API rather than
// calling it ad hoc from the dispatch loop.
package audio

import "github.com/scratchkit/scratchvm/pkg/target"

// Sink is the external audio playback collaborator. A production host
// wires this to whatever actually decodes and plays the sound asset;
// tests can use a fake that reports immediate or delayed completion.
type Sink interface {
	// Play starts playback of the named sound and returns a token the
	// sink uses internally to track this specific playback instance.
	Play(soundName string) (token uint64, ok bool)
	// Done reports whether the given token has finished playing.
	Done(token uint64) bool
	// StopAll halts every in-flight playback.
	StopAll()
}

// Handle is an opaque id returned to a thread that wants to wait on a
// sound's completion (play-until-done), distinct from the Sink's internal
// token so the engine never leaks the sink's own id space.
type Handle uint64

// Engine is the per-run audio state: which sounds are playing or being
// waited on, per target, plus the next handle to mint.
type Engine struct {
	sink Sink

	nextHandle Handle
	tokens     map[Handle]uint64 // our handle -> sink token

	playing map[target.Handle]map[Handle]struct{}
	waiting map[target.Handle]map[Handle]struct{}
}

// New wraps sink in a fresh Engine.
func New(sink Sink) *Engine {
	return &Engine{
		sink:    sink,
		tokens:  make(map[Handle]uint64),
		playing: make(map[target.Handle]map[Handle]struct{}),
		waiting: make(map[target.Handle]map[Handle]struct{}),
	}
}

// Play starts soundName playing for t and registers the playback, per
// spec.md §4.8's playSound(target, sound_id, wait_for_done). If wait is
// true, the returned handle is also added to t's waiting set. ok is false
// if the sink couldn't start playback (spec.md §7 ResourceMissing);
// callers treat that as a no-op / immediate completion.
func (e *Engine) Play(t *target.Target, soundName string, wait bool) (Handle, bool) {
	token, ok := e.sink.Play(soundName)
	if !ok {
		return 0, false
	}
	e.nextHandle++
	h := e.nextHandle
	e.tokens[h] = token

	th := t.Handle()
	if e.playing[th] == nil {
		e.playing[th] = make(map[Handle]struct{})
	}
	e.playing[th][h] = struct{}{}
	if wait {
		if e.waiting[th] == nil {
			e.waiting[th] = make(map[Handle]struct{})
		}
		e.waiting[th][h] = struct{}{}
	}
	return h, true
}

// Done reports whether h has finished playing, per the sink's report of
// end-of-stream. A handle this Engine never issued is considered done
// (defensive default; spec.md §7 favors graceful completion over a stuck
// thread).
func (e *Engine) Done(h Handle) bool {
	token, ok := e.tokens[h]
	if !ok {
		return true
	}
	return e.sink.Done(token)
}

// HasWaitingSounds reports whether t has any outstanding play-until-done
// waits (spec.md §4.8 "used by tests as a post-condition for stop-all").
func (e *Engine) HasWaitingSounds(t *target.Target) bool {
	return len(e.waiting[t.Handle()]) > 0
}

// StopAll clears every playing/waiting registration and tells the sink to
// halt playback; any thread parked on a handle resumes on the next frame
// because Done treats an unknown/cleared handle as finished.
func (e *Engine) StopAll() {
	e.sink.StopAll()
	e.tokens = make(map[Handle]uint64)
	e.playing = make(map[target.Handle]map[Handle]struct{})
	e.waiting = make(map[target.Handle]map[Handle]struct{})
}
