package rules

import (
	"regexp"
	"strings"
)

// FixRolePath rewrites "- roles/<role>" list items to "- <role>".
//
// All matching lines are rewritten, but the returned count is 1 at most: the
// rule reports whether the file had the problem, not how many times. An
// empty role name disables the rule.
func FixRolePath(content, roleName string) (string, int) {
	if roleName == "" {
		return content, 0
	}
	pattern := regexp.MustCompile(`(\s+)-\s+roles/` + regexp.QuoteMeta(roleName))
	if !pattern.MatchString(content) {
		return content, 0
	}
	replacement := "${1}- " + strings.ReplaceAll(roleName, "$", "$$")
	return pattern.ReplaceAllString(content, replacement), 1
}
