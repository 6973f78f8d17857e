// Package rules holds the text transforms that fix ansible-lint complaints.
//
// Every transform works on lexical line patterns, not on a parsed YAML
// document. Input that does not look like the patterns below is left alone.
package rules

import (
	"path/filepath"
	"strings"

	"github.com/sokinpui/skillstack/model"
)

// Scope decides which files a rule runs on.
type Scope int

const (
	// ScopeAny applies to every YAML file.
	ScopeAny Scope = iota
	// ScopeMeta applies to main.yml files under a meta directory.
	ScopeMeta
	// ScopePlaybook applies to .yml and .yaml files.
	ScopePlaybook
)

// Matches reports whether a file at path falls in the scope.
func (s Scope) Matches(path string) bool {
	switch s {
	case ScopeMeta:
		return filepath.Base(path) == "main.yml" && strings.Contains(filepath.Dir(path), "meta")
	case ScopePlaybook:
		ext := filepath.Ext(path)
		return ext == ".yml" || ext == ".yaml"
	default:
		return true
	}
}

// Options carries the inputs some transforms need besides the text.
type Options struct {
	RoleName     string
	Placeholders Placeholders
	PlayNaming   PlayNaming
}

// DefaultOptions returns the canonical replacement values.
func DefaultOptions(roleName string) Options {
	return Options{
		RoleName:     roleName,
		Placeholders: DefaultPlaceholders(),
		PlayNaming:   DefaultPlayNaming(),
	}
}

// Rule binds a transform to its category and scope.
type Rule struct {
	Category model.Category
	Scope    Scope
	Apply    func(content string, opts *Options) (string, int)
}

// All returns the rules in the order they must run.
func All() []Rule {
	return []Rule{
		{
			Category: model.CategoryComments,
			Scope:    ScopeAny,
			Apply:    func(c string, _ *Options) (string, int) { return FixComments(c) },
		},
		{
			Category: model.CategorySchemaMeta,
			Scope:    ScopeMeta,
			Apply:    func(c string, _ *Options) (string, int) { return QuoteMinAnsibleVersion(c) },
		},
		{
			Category: model.CategoryMetaIncorrect,
			Scope:    ScopeMeta,
			Apply: func(c string, o *Options) (string, int) {
				return ReplacePlaceholders(c, o.Placeholders)
			},
		},
		{
			Category: model.CategoryPlayNames,
			Scope:    ScopePlaybook,
			Apply:    func(c string, o *Options) (string, int) { return NamePlays(c, o.PlayNaming) },
		},
		{
			Category: model.CategoryRoleNamePath,
			Scope:    ScopePlaybook,
			Apply:    func(c string, o *Options) (string, int) { return FixRolePath(c, o.RoleName) },
		},
	}
}

// Without drops the rules whose category is in skip.
func Without(rules []Rule, skip []model.Category) []Rule {
	if len(skip) == 0 {
		return rules
	}
	skipped := make(map[model.Category]bool, len(skip))
	for _, c := range skip {
		skipped[c] = true
	}
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !skipped[r.Category] {
			kept = append(kept, r)
		}
	}
	return kept
}
