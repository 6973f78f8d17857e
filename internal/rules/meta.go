package rules

import "strings"

// Placeholder strings written by `ansible-galaxy role init`.
const (
	AuthorPlaceholder  = "author: your name"
	CompanyPlaceholder = "company: your company (optional)"
	LicensePlaceholder = "license: license (GPL-2.0-or-later, MIT, etc)"
)

// Placeholders holds the values that replace the galaxy_info placeholders.
type Placeholders struct {
	Author  string
	Company string
	License string
}

// DefaultPlaceholders returns the canonical replacement values.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Author:  "Ansible User",
		Company: "Community",
		License: "MIT",
	}
}

// ReplacePlaceholders swaps each known placeholder for its canonical value.
// Each placeholder counts once however often it appears.
func ReplacePlaceholders(content string, p Placeholders) (string, int) {
	replacements := []struct{ from, to string }{
		{AuthorPlaceholder, "author: " + p.Author},
		{CompanyPlaceholder, "company: " + p.Company},
		{LicensePlaceholder, "license: " + p.License},
	}

	fixes := 0
	for _, r := range replacements {
		if !strings.Contains(content, r.from) {
			continue
		}
		content = strings.ReplaceAll(content, r.from, r.to)
		fixes++
	}
	return content, fixes
}
