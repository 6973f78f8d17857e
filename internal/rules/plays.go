package rules

import (
	"regexp"
	"strings"
)

var (
	playStartRegex   = regexp.MustCompile(`^-\s+hosts:\s+`)
	playNameRegex    = regexp.MustCompile(`^-?\s+name:\s+`)
	hostPatternRegex = regexp.MustCompile(`hosts:\s+(\S+)`)
	leadingDashRegex = regexp.MustCompile(`^(\s*)-`)
)

// PlayNaming controls the names synthesized for unnamed plays.
type PlayNaming struct {
	// Prefix is followed by a space and the host pattern.
	Prefix string
	// Fallback stands in for the host pattern when none can be read.
	Fallback string
}

// DefaultPlayNaming returns the naming used when nothing is configured.
func DefaultPlayNaming() PlayNaming {
	return PlayNaming{
		Prefix:   "Test playbook for",
		Fallback: "target hosts",
	}
}

// NamePlays inserts a "- name:" line above every top-level "- hosts:" play
// whose previous line is not a name. The play's own dash and the spaces after
// it are replaced so hosts: lines up under name:.
//
// Only the line directly above a play is inspected; a name declared after
// hosts: is not seen and gets a second one.
func NamePlays(content string, naming PlayNaming) (string, int) {
	fixes := 0
	lines := strings.Split(content, "\n")
	fixed := make([]string, 0, len(lines))

	for i, line := range lines {
		if !playStartRegex.MatchString(line) {
			fixed = append(fixed, line)
			continue
		}
		if i > 0 && playNameRegex.MatchString(lines[i-1]) {
			fixed = append(fixed, line)
			continue
		}

		hosts := naming.Fallback
		if m := hostPatternRegex.FindStringSubmatch(line); m != nil {
			hosts = m[1]
		}
		indent := ""
		if m := leadingDashRegex.FindStringSubmatch(line); m != nil {
			indent = m[1]
		}

		fixed = append(fixed, indent+"- name: "+naming.Prefix+" "+hosts)
		fixed = append(fixed, indent+"  "+strings.TrimLeft(line[len(indent)+1:], " \t"))
		fixes++
	}

	return strings.Join(fixed, "\n"), fixes
}
