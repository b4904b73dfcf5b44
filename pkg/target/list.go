package target

import "github.com/scratchkit/scratchvm/pkg/value"

// DeleteAll is the sentinel index spec.md §4.2 reserves for "delete all of
// list" (the "all" keyword removes every element).
const DeleteAll = -1

// ListItem returns the 1-indexed item at idx, or value.Empty if idx is out
// of [1, len(list)] — spec.md §4.2/§8 "item_of(L, length(L)+1) == ''".
func ListItem(v *Variable, idx int) value.Value {
	if idx < 1 || idx > len(v.List) {
		return value.Empty
	}
	return v.List[idx-1]
}

// ListAdd appends an item to the list.
func ListAdd(v *Variable, item value.Value) {
	v.List = append(v.List, item)
}

// ListDeleteAt removes the 1-indexed item at idx; a no-op if out of range.
// idx == DeleteAll clears the list.
func ListDeleteAt(v *Variable, idx int) {
	if idx == DeleteAll {
		v.List = v.List[:0]
		return
	}
	if idx < 1 || idx > len(v.List) {
		return
	}
	v.List = append(v.List[:idx-1], v.List[idx:]...)
}

// ListInsertAt inserts item before the 1-indexed position idx. Indices
// beyond the current length append; indices below 1 insert at the front
// (matching Scratch's lenient clamping rather than a hard error, per
// spec.md §7's "malformed input is a no-op or clamps" policy family).
func ListInsertAt(v *Variable, idx int, item value.Value) {
	if idx < 1 {
		idx = 1
	}
	if idx > len(v.List)+1 {
		idx = len(v.List) + 1
	}
	v.List = append(v.List, value.Empty)
	copy(v.List[idx:], v.List[idx-1:])
	v.List[idx-1] = item
}

// ListReplaceAt overwrites the 1-indexed item at idx; a no-op if out of range.
func ListReplaceAt(v *Variable, idx int, item value.Value) {
	if idx < 1 || idx > len(v.List) {
		return
	}
	v.List[idx-1] = item
}

// ListItemNumberOf returns the 1-indexed position of the first item equal
// to target under value.Compare, or 0 if absent.
func ListItemNumberOf(v *Variable, target value.Value) int {
	for i, item := range v.List {
		if value.Compare(item, target) == 0 {
			return i + 1
		}
	}
	return 0
}

// ListContains reports whether any item in the list compares equal to target.
func ListContains(v *Variable, target value.Value) bool {
	return ListItemNumberOf(v, target) != 0
}
