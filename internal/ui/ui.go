package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sokinpui/skillstack/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	DiffAddColor = color.New(color.FgGreen)
	DiffDelColor = color.New(color.FgRed)
)

// Out receives reports and summaries; Err receives errors and warnings.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

const ruleWidth = 60

// DisableColor turns off colored output everywhere.
func DisableColor() {
	color.NoColor = true
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Out, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Out, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Err, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Err, format+"\n", a...)
}

// Status prints a progress note to Err so that stdout stays clean for piped
// output.
func Status(format string, a ...interface{}) {
	HeaderColor.Fprintf(Err, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Out, "  "+format+"\n", a...)
}

// --- Run report ---

// PrintRunHeader announces the role being fixed.
func PrintRunHeader(rolePath, roleName string) {
	Header("Fixing ansible-lint issues in: %s", rolePath)
	fmt.Fprintf(Out, "Role name: %s\n", roleName)
	fmt.Fprintln(Out)
}

// PrintFileReport prints one processed file. Errors go to Err; changed files
// are listed when verbose or when they carry at least one fix.
func PrintFileReport(r model.FileReport, verbose bool) {
	if r.Err != nil {
		Error("Error processing %s: %v", r.Path, r.Err)
		return
	}
	if !r.Changed || (!verbose && r.Counts.Total() == 0) {
		return
	}

	Success("✓ %s", r.DisplayPath)
	for _, c := range model.Categories {
		if n := r.Counts[c]; n > 0 {
			fmt.Fprintf(Out, "  - %s\n", c.Describe(n))
		}
	}
	if r.Diff != "" {
		PrintDiff(r.Diff)
	}
	fmt.Fprintln(Out)
}

// PrintDiff prints a unified diff with added and removed lines colored.
func PrintDiff(diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			HeaderColor.Fprint(Out, line)
		case strings.HasPrefix(line, "+"):
			DiffAddColor.Fprint(Out, line)
		case strings.HasPrefix(line, "-"):
			DiffDelColor.Fprint(Out, line)
		default:
			fmt.Fprint(Out, line)
		}
	}
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(Out)
	}
}

// PrintSummary prints the closing block of a run.
func PrintSummary(res *model.RunResult) {
	rule := strings.Repeat("=", ruleWidth)
	total := res.Totals.Total()

	fmt.Fprintln(Out, rule)
	Header("Summary:")
	if res.DryRun {
		fmt.Fprintf(Out, "  Files that would be modified: %d\n", res.FilesModified)
	} else {
		fmt.Fprintf(Out, "  Files modified: %d\n", res.FilesModified)
	}
	fmt.Fprintf(Out, "  Total fixes: %d\n", total)
	if failed := len(res.Failed()); failed > 0 {
		ErrorColor.Fprintf(Out, "  Files failed: %d\n", failed)
	}

	if total > 0 {
		fmt.Fprintln(Out)
		fmt.Fprintln(Out, "Fixes by type:")
		for _, c := range model.Categories {
			if n := res.Totals[c]; n > 0 {
				fmt.Fprintf(Out, "  - %s: %d\n", c.Code(), n)
			}
		}
	}
	fmt.Fprintln(Out, rule)

	if res.FilesModified > 0 && !res.DryRun {
		fmt.Fprintln(Out)
		Info("Run 'ansible-lint %s 2>/dev/null' to verify fixes", res.RolePath)
	}
}

// PrintRunReport prints everything for a finished run.
func PrintRunReport(res *model.RunResult, verbose bool) {
	PrintRunHeader(res.RolePath, res.RoleName)
	if res.NoFiles {
		fmt.Fprintln(Out, "No YAML files found in role directory")
		return
	}
	for _, f := range res.Files {
		PrintFileReport(f, verbose)
	}
	PrintSummary(res)
}

// PrintSnippetReport lists the fixes applied to an in-memory snippet.
func PrintSnippetReport(counts model.FixCounts) {
	if counts.Total() == 0 {
		Warning("No fixes applied.")
		return
	}
	for _, c := range model.Categories {
		if n := counts[c]; n > 0 {
			SuccessColor.Fprintf(Err, "  - %s\n", c.Describe(n))
		}
	}
}

// --- Revert ---

func PrintRevertSummary(summary model.Summary) {
	HeaderColor.Fprintln(Out, "\n--- Revert Summary ---")
	if summary.Message != "" && len(summary.Reverted) == 0 && len(summary.Failed) == 0 {
		Info("%s", summary.Message)
		return
	}
	if len(summary.Reverted) > 0 {
		Success("Successfully reverted %d file(s):", len(summary.Reverted))
		for _, f := range summary.Reverted {
			Path("- %s", f)
		}
	}
	if len(summary.Failed) > 0 {
		Error("Failed to revert %d file(s):", len(summary.Failed))
		for _, f := range summary.Failed {
			fmt.Fprintf(Err, "  - %s\n", f)
		}
	}
}
