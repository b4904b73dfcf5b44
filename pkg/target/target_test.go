package target

import (
	"testing"

	"github.com/scratchkit/scratchvm/pkg/value"
)

func TestVolumeAndEffectsClamp(t *testing.T) {
	tgt := New("Sprite1", false)
	tgt.SetVolume(150)
	if tgt.Volume != 100 {
		t.Errorf("volume should clamp to 100, got %v", tgt.Volume)
	}
	tgt.SetVolume(-10)
	if tgt.Volume != 0 {
		t.Errorf("volume should clamp to 0, got %v", tgt.Volume)
	}
	tgt.SetPitch(1000)
	if tgt.Effects.Pitch != 360 {
		t.Errorf("pitch should clamp to 360, got %v", tgt.Effects.Pitch)
	}
	tgt.SetPan(-1000)
	if tgt.Effects.Pan != -100 {
		t.Errorf("pan should clamp to -100, got %v", tgt.Effects.Pan)
	}
}

func TestCloneDeepCopiesState(t *testing.T) {
	sprite := New("Sprite1", false)
	sprite.DefineVariable(&Variable{ID: "v1", Name: "counter", Kind: VariableScalar, Value: value.Number(5)})
	sprite.DefineVariable(&Variable{ID: "l1", Name: "items", Kind: VariableList, List: []value.Value{value.Number(1)}})

	clone := sprite.Clone()
	if !clone.IsClone {
		t.Fatal("expected IsClone to be true")
	}
	if clone.Originator != sprite.Handle() {
		t.Error("clone should record its originator's handle")
	}

	cv, _ := clone.LookupByID("v1")
	cv.Value = value.Number(99)
	sv, _ := sprite.LookupByID("v1")
	if sv.Value.RawNumber() != 5 {
		t.Error("mutating the clone's variable must not affect the originating sprite")
	}

	cl, _ := clone.LookupByID("l1")
	ListAdd(cl, value.Number(2))
	sl, _ := sprite.LookupByID("l1")
	if len(sl.List) != 1 {
		t.Error("mutating the clone's list must not affect the originating sprite's list")
	}
}

func TestListOneIndexed(t *testing.T) {
	v := &Variable{Kind: VariableList}
	ListAdd(v, value.Number(10))
	ListAdd(v, value.Number(20))
	ListAdd(v, value.Number(30))

	if got := ListItem(v, 1); got.RawNumber() != 10 {
		t.Errorf("ListItem(1) = %v, want 10", got)
	}
	if got := ListItem(v, len(v.List)+1); got != value.Empty {
		t.Errorf("ListItem(len+1) should be empty, got %v", got)
	}
	if got := ListItem(v, 0); got != value.Empty {
		t.Errorf("ListItem(0) should be empty, got %v", got)
	}

	ListInsertAt(v, 2, value.Number(15))
	if got := ListItem(v, 2); got.RawNumber() != 15 {
		t.Errorf("after insert, ListItem(2) = %v, want 15", got)
	}

	ListDeleteAt(v, 2)
	if got := ListItem(v, 2); got.RawNumber() != 20 {
		t.Errorf("after delete, ListItem(2) = %v, want 20", got)
	}

	if n := ListItemNumberOf(v, value.Number(30)); n != 3 {
		t.Errorf("ListItemNumberOf(30) = %d, want 3", n)
	}

	ListDeleteAt(v, DeleteAll)
	if len(v.List) != 0 {
		t.Error("DeleteAll should empty the list")
	}
}
