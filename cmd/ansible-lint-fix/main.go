package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/skillstack/cli"
	"github.com/sokinpui/skillstack/internal/logging"
	"github.com/sokinpui/skillstack/internal/tui"
	"github.com/sokinpui/skillstack/internal/ui"
	"github.com/sokinpui/skillstack/lintfix"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.NoColor || !ui.IsTerminal(os.Stdout) {
		ui.DisableColor()
	}

	app, err := lintfix.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logging.Sync()

	switch {
	case cfg.Revert:
		summary, err := app.Revert()
		if err != nil {
			return fail(err)
		}
		ui.PrintRevertSummary(summary)
		return 0

	case cfg.Snippet:
		counts, err := app.FixSnippet()
		if err != nil {
			return fail(err)
		}
		ui.PrintSnippetReport(counts)
		return 0

	case cfg.TUI && ui.IsTerminal(os.Stdout):
		// Errors are already on screen.
		res, err := tui.Run(app)
		if err != nil || res == nil {
			return 1
		}
		if cfg.Diff {
			for _, f := range res.Files {
				if f.Diff != "" {
					ui.PrintDiff(f.Diff)
				}
			}
		}
		return 0

	default:
		res, err := app.Run()
		if res != nil {
			ui.PrintRunReport(res, cfg.Verbose)
		}
		if err != nil {
			return fail(err)
		}
		return 0
	}
}

func fail(err error) int {
	ui.Error("Error: %v", err)
	var detailed *lintfix.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
	return 1
}
