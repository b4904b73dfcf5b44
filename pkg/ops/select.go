package ops

import (
	"math"
	"strconv"
	"strings"

	"github.com/scratchkit/scratchvm/pkg/value"
)

// selectIndex implements spec.md §4.2's sound/costume selection rule: if
// the argument is a string, prefer matching a name even when that name
// looks numeric ("6" finds an asset named "6", not index 6); otherwise,
// if it parses as a finite number, treat it as a 1-based index with wrap
// ((n-1) mod count + 1, so negative/zero wraps back around).
func selectIndex(names []string, arg value.Value) int {
	if len(names) == 0 {
		return -1
	}
	if arg.Kind() == value.KindText {
		if i := indexOfName(names, arg.RawText()); i >= 0 {
			return i
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(arg.RawText()), 64); err != nil {
			return -1
		}
	}
	n := arg.ToNumber()
	if math.IsInf(n, 0) {
		return indexOfName(names, arg.ToString())
	}
	count := len(names)
	idx := ((int(n)-1)%count + count) % count
	return idx
}

func indexOfName(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
