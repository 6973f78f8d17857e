package patcher

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sokinpui/skillstack/internal/fs"
	"github.com/sokinpui/skillstack/internal/logging"
	"github.com/sokinpui/skillstack/internal/rules"
	"github.com/sokinpui/skillstack/model"
)

// WriteHook runs right before a fixed file is written.
type WriteHook func(path, original, fixed string) error

// Patcher applies rules to files on disk.
type Patcher struct {
	Rules       []rules.Rule
	RuleOptions rules.Options

	// DryRun computes fixes without writing them.
	DryRun bool
	// Diff attaches a unified diff to every changed report.
	Diff bool
	// Validate refuses to write content that stopped being valid YAML.
	Validate bool
	// BeforeWrite, when set, may veto a write by returning an error.
	BeforeWrite WriteHook
}

// New creates a Patcher running every rule with the given options.
func New(opts rules.Options) *Patcher {
	return &Patcher{
		Rules:       rules.All(),
		RuleOptions: opts,
	}
}

// FixContent runs every rule whose scope matches path over content. An empty
// path means the content has no file and every rule applies.
func FixContent(path, content string, rs []rules.Rule, opts *rules.Options) (string, model.FixCounts) {
	counts := model.NewFixCounts()
	for _, r := range rs {
		if path != "" && !r.Scope.Matches(path) {
			continue
		}
		var n int
		content, n = r.Apply(content, opts)
		counts[r.Category] += n
	}
	return content, counts
}

// ProcessFile fixes one file. The report is Changed only when the fixed
// content differs from what was read; read, validation and write failures
// are returned in Err.
func (p *Patcher) ProcessFile(path, displayPath string) model.FileReport {
	report := model.FileReport{
		Path:        path,
		DisplayPath: displayPath,
		Counts:      model.NewFixCounts(),
	}
	log := logging.L().With(zap.String("file", displayPath))

	data, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("read: %w", err)
		return report
	}
	original := string(data)

	fixed, counts := FixContent(path, original, p.Rules, &p.RuleOptions)
	if fixed == original {
		log.Debug("no changes")
		return report
	}

	if p.Validate {
		if err := CheckStillValid(original, fixed); err != nil {
			report.Err = err
			return report
		}
	}

	if p.Diff {
		diff, err := UnifiedDiff(displayPath, original, fixed)
		if err != nil {
			log.Warn("diff failed", zap.Error(err))
		}
		report.Diff = diff
	}

	if !p.DryRun {
		if p.BeforeWrite != nil {
			if err := p.BeforeWrite(path, original, fixed); err != nil {
				report.Err = err
				return report
			}
		}
		if err := fs.WriteFile(path, fixed); err != nil {
			report.Err = err
			return report
		}
	}

	report.Counts = counts
	report.Changed = true
	log.Debug("fixed", zap.Int("fixes", counts.Total()), zap.Bool("dry_run", p.DryRun))
	return report
}
