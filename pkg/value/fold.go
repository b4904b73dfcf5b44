package value

import (
	"golang.org/x/text/cases"
)

// foldCaser does Unicode case folding for case-insensitive comparisons.
// golang.org/x/text/cases.Fold is the idiomatic replacement for
// strings.ToLower when the input isn't known to be ASCII — Scratch project
// text (sprite names, broadcast names, string literals) is arbitrary
// user-authored Unicode.
var foldCaser = cases.Fold()

func foldForCompare(s string) string {
	return foldCaser.String(s)
}

// EqualFold reports whether a and b are equal under the same Unicode case
// folding Compare uses for its text branch. No other package calls it:
// pkg/ops' "contains" operator uses Fold, and pkg/broadcast keeps its own
// cases.Fold caser.
func EqualFold(a, b string) bool {
	return foldForCompare(a) == foldForCompare(b)
}

// Fold returns the case-folded form of s, usable as a map key for
// case-insensitive lookups and substring tests (pkg/ops' "contains"
// operator folds both operands with it).
func Fold(s string) string {
	return foldForCompare(s)
}
