package lintfix

import (
	"fmt"

	"github.com/sokinpui/skillstack/cli"
	"github.com/sokinpui/skillstack/internal/patcher"
	"github.com/sokinpui/skillstack/internal/rules"
	"github.com/sokinpui/skillstack/model"
)

// Config for using lintfix as a library.
type Config struct {
	// Report fixes without writing files.
	DryRun bool
	// Attach a unified diff to every changed file report.
	Diff bool
	// Refuse writes whose result no longer parses as YAML.
	Validate bool
	// Globs, relative to the role directory, of files to leave alone.
	Exclude []string
	// Lint codes (e.g. 'name[play]') whose fix is not applied.
	Skip []string
	// Explicit config file; empty looks for .ansible-lint-fix.yaml.
	ConfigFile string
}

// Fix runs every fix over the YAML files of the role at rolePath and returns
// the per-file reports and totals.
func Fix(rolePath string, config Config) (*model.RunResult, error) {
	cliCfg := &cli.Config{
		RolePath:   rolePath,
		DryRun:     config.DryRun,
		Diff:       config.Diff,
		Validate:   config.Validate,
		Exclude:    config.Exclude,
		Skip:       config.Skip,
		ConfigFile: config.ConfigFile,
	}

	app, err := New(cliCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lintfix app: %w", err)
	}
	return app.Run()
}

// FixContent applies every fix to a YAML document held in memory, using the
// built-in placeholder and play name values.
func FixContent(content, roleName string) (string, model.FixCounts) {
	opts := rules.DefaultOptions(roleName)
	return patcher.FixContent("", content, rules.All(), &opts)
}
