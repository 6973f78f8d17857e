package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	RolePath   string
	Verbose    bool
	DryRun     bool
	Diff       bool
	Backup     bool
	Revert     bool
	Snippet    bool
	Validate   bool
	TUI        bool
	NoColor    bool
	ConfigFile string
	Exclude    []string
	Skip       []string
}

// ParseFlags parses os.Args.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs defines and parses command-line flags using pflag. Usage and
// parse errors are written to out.
func ParseArgs(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("ansible-lint-fix", pflag.ContinueOnError)
	flags.SetOutput(out)

	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output.")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Report fixes without writing files.")
	flags.BoolVarP(&cfg.Diff, "diff", "d", false, "Print a unified diff for every changed file.")
	flags.BoolVarP(&cfg.Backup, "backup", "b", false, "Save original files so the run can be reverted.")
	flags.BoolVar(&cfg.Validate, "validate", false, "Refuse to write files whose fixed content is no longer valid YAML.")
	flags.StringSliceVarP(&cfg.Exclude, "exclude", "x", []string{}, "Glob of files to skip, relative to the role directory (e.g. 'molecule/**').")
	flags.StringSliceVar(&cfg.Skip, "skip", []string{}, "Lint rule to leave alone (e.g. 'yaml[comments]', 'name[play]').")
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "Config file (default: .ansible-lint-fix.yaml in the role or current directory).")
	flags.BoolVar(&cfg.TUI, "tui", false, "Show a spinner and a styled summary.")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")

	// Mutually exclusive mode group
	flags.BoolVarP(&cfg.Revert, "revert", "r", false, "Restore the files changed by the last --backup run.")
	flags.BoolVarP(&cfg.Snippet, "snippet", "s", false, "Fix YAML from stdin (pipe) or the clipboard instead of a role directory.")

	flags.Usage = func() {
		fmt.Fprintln(out, "Usage: ansible-lint-fix [flags] <role_path>")
		fmt.Fprintln(out, "\nFix common ansible-lint errors automatically:")
		fmt.Fprintln(out, "  yaml[comments], schema[meta], meta-incorrect, name[play], role-name[path]")
		fmt.Fprintln(out, "\nExample: ansible-lint-fix roles/nginx")
		fmt.Fprintln(out, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Revert && cfg.Snippet {
		return nil, fmt.Errorf("--revert and --snippet are mutually exclusive")
	}
	if cfg.DryRun && cfg.Backup {
		return nil, fmt.Errorf("--dry-run and --backup are mutually exclusive")
	}

	positional := flags.Args()
	if len(positional) > 1 {
		flags.Usage()
		return nil, fmt.Errorf("expected one role path, got %d", len(positional))
	}
	if len(positional) == 1 {
		cfg.RolePath = positional[0]
	}
	if cfg.RolePath == "" && !cfg.Revert && !cfg.Snippet {
		flags.Usage()
		return nil, fmt.Errorf("the role_path argument is required")
	}

	return cfg, nil
}
