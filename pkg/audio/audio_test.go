package audio

import (
	"testing"

	"github.com/scratchkit/scratchvm/pkg/target"
)

type fakeSink struct {
	nextToken uint64
	doneSet   map[uint64]bool
	playCount map[string]int
	stopped   bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{doneSet: map[uint64]bool{}, playCount: map[string]int{}}
}

func (s *fakeSink) Play(name string) (uint64, bool) {
	s.nextToken++
	s.playCount[name]++
	return s.nextToken, true
}
func (s *fakeSink) Done(token uint64) bool { return s.doneSet[token] }
func (s *fakeSink) StopAll()               { s.stopped = true }

func TestPlayUntilDoneWaitsForSinkCompletion(t *testing.T) {
	sink := newFakeSink()
	eng := New(sink)
	tgt := target.New("Sprite1", false)

	h, ok := eng.Play(tgt, "meow", true)
	if !ok {
		t.Fatal("expected Play to succeed")
	}
	if !eng.HasWaitingSounds(tgt) {
		t.Error("expected a waiting sound after play-until-done")
	}
	if eng.Done(h) {
		t.Error("sound should not be done before the sink reports completion")
	}

	sink.doneSet[1] = true
	if !eng.Done(h) {
		t.Error("sound should be done once the sink reports completion")
	}
}

func TestStopAllClearsWaitingSounds(t *testing.T) {
	sink := newFakeSink()
	eng := New(sink)
	tgt := target.New("Sprite1", false)

	h, _ := eng.Play(tgt, "meow", true)
	eng.StopAll()

	if !sink.stopped {
		t.Error("StopAll should tell the sink to stop")
	}
	if eng.HasWaitingSounds(tgt) {
		t.Error("StopAll should clear waiting sounds")
	}
	if !eng.Done(h) {
		t.Error("a cleared handle should report done so parked threads resume")
	}
}

func TestPlayCountMatchesLoopIterationsNotFrames(t *testing.T) {
	// spec.md §8 scenario 7: playSound must be invoked exactly once per
	// loop iteration, independent of how many scheduler frames that
	// iteration spans while waiting.
	sink := newFakeSink()
	eng := New(sink)
	tgt := target.New("Sprite1", false)

	for i := 0; i < 5; i++ {
		h, _ := eng.Play(tgt, "beep", true)
		sink.doneSet[sink.nextToken] = true
		if !eng.Done(h) {
			t.Fatalf("iteration %d: sound should complete before the next play", i)
		}
	}
	if sink.playCount["beep"] != 5 {
		t.Errorf("playCount = %d, want 5", sink.playCount["beep"])
	}
}
