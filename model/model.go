package model

import "fmt"

// Category identifies one kind of ansible-lint complaint the fixer handles.
type Category int

const (
	CategoryComments Category = iota
	CategorySchemaMeta
	CategoryMetaIncorrect
	CategoryPlayNames
	CategoryRoleNamePath
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryComments,
	CategorySchemaMeta,
	CategoryMetaIncorrect,
	CategoryPlayNames,
	CategoryRoleNamePath,
}

var categoryInfo = map[Category]struct {
	code   string
	key    string
	phrase string
}{
	CategoryComments:      {"yaml[comments]", "yaml_comments", "Fixed %d comment spacing issue(s)"},
	CategorySchemaMeta:    {"schema[meta]", "schema_meta", "Fixed %d schema version issue(s)"},
	CategoryMetaIncorrect: {"meta-incorrect", "meta_incorrect", "Fixed %d metadata placeholder(s)"},
	CategoryPlayNames:     {"name[play]", "play_names", "Added %d play name(s)"},
	CategoryRoleNamePath:  {"role-name[path]", "role_name_path", "Fixed %d role import path(s)"},
}

// Code returns the ansible-lint rule code, e.g. "yaml[comments]".
func (c Category) Code() string {
	if info, ok := categoryInfo[c]; ok {
		return info.code
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Key returns the stable snake_case name of the category.
func (c Category) Key() string {
	return categoryInfo[c].key
}

// Describe renders the per-file report phrase for n fixes.
func (c Category) Describe(n int) string {
	return fmt.Sprintf(categoryInfo[c].phrase, n)
}

func (c Category) String() string { return c.Code() }

// CategoryByCode looks a category up by its lint code or its key.
func CategoryByCode(code string) (Category, bool) {
	for _, c := range Categories {
		if c.Code() == code || c.Key() == code {
			return c, true
		}
	}
	return 0, false
}

// FixCounts maps a category to the number of fixes applied for it.
type FixCounts map[Category]int

// NewFixCounts returns counts with every category present at zero.
func NewFixCounts() FixCounts {
	counts := make(FixCounts, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	return counts
}

// Total sums all categories.
func (f FixCounts) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// Add accumulates other into f.
func (f FixCounts) Add(other FixCounts) {
	for c, n := range other {
		f[c] += n
	}
}

// FileReport is the outcome of processing a single file.
type FileReport struct {
	Path        string
	DisplayPath string
	Counts      FixCounts
	Changed     bool
	Diff        string
	Err         error
}

// RunResult aggregates a run over a role directory.
type RunResult struct {
	RolePath      string
	RoleName      string
	Files         []FileReport
	Totals        FixCounts
	FilesModified int
	NoFiles       bool
	DryRun        bool
}

// Failed returns the reports that ended in an error.
func (r *RunResult) Failed() []FileReport {
	var failed []FileReport
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Summary holds the results of a revert for display.
type Summary struct {
	Reverted []string
	Failed   []string
	Message  string
}
