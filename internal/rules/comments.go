package rules

import (
	"regexp"
	"strings"
)

// unspacedCommentRegex matches a comment whose '#' is directly followed by
// text. Bare '#' and '##' banners do not match.
var unspacedCommentRegex = regexp.MustCompile(`^(\s*)#([^# \n].*)`)

// FixComments inserts a space after '#' on comment lines that lack one.
// It returns the new content and the number of lines changed.
func FixComments(content string) (string, int) {
	fixes := 0
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		match := unspacedCommentRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		lines[i] = match[1] + "# " + match[2]
		fixes++
	}
	return strings.Join(lines, "\n"), fixes
}
