package patcher

import (
	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders the change to a file as a unified diff with
// a/ and b/ prefixed names.
func UnifiedDiff(name, original, fixed string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(fixed),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}
