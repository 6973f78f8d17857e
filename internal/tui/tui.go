package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/skillstack/lintfix"
	"github.com/sokinpui/skillstack/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// --- Messages ---
type progressMsg struct {
	current, total int
	path           string
}

type resultMsg struct {
	res *model.RunResult
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// --- Model ---
type Model struct {
	run      func() (*model.RunResult, error)
	spinner  spinner.Model
	state    state
	progress progressMsg
	result   *model.RunResult
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func newModel(run func() (*model.RunResult, error)) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		run:     run,
		spinner: s,
		state:   stateProcessing,
	}
}

// Run fixes the role with a spinner and shows a styled summary when done.
// Errors are rendered before they are returned.
func Run(app *lintfix.App) (*model.RunResult, error) {
	p := tea.NewProgram(newModel(app.Run), tea.WithOutput(os.Stdout))
	app.SetProgressCallback(func(current, total int, path string) {
		p.Send(progressMsg{current: current, total: total, path: path})
	})

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return nil, err
	}
	m := final.(Model)
	return m.result, m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Quitting mid-run could cut a file write short.
		if m.state == stateProcessing {
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case progressMsg:
		m.progress = msg
		return m, nil

	case resultMsg:
		m.state = stateSummary
		m.result = msg.res
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.progress.total == 0 {
			return fmt.Sprintf("%s Discovering YAML files...", m.spinner.View())
		}
		if m.progress.path == "" {
			return fmt.Sprintf("%s Done (%d/%d)", m.spinner.View(), m.progress.total, m.progress.total)
		}
		return fmt.Sprintf("%s Fixing %s (%d/%d)", m.spinner.View(),
			m.progress.path, m.progress.current+1, m.progress.total)
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	res := m.result
	var b strings.Builder

	b.WriteString(headerStyle.Render("Fixing ansible-lint issues in: " + res.RolePath))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Role name: " + res.RoleName))
	b.WriteString("\n\n")

	if res.NoFiles {
		b.WriteString(faintStyle.Render("No YAML files found in role directory"))
		b.WriteString("\n")
		return b.String()
	}

	for _, f := range res.Files {
		if f.Err != nil || !f.Changed || f.Counts.Total() == 0 {
			continue
		}
		b.WriteString(successStyle.Render("✓ "))
		b.WriteString(pathStyle.Render(f.DisplayPath))
		b.WriteString("\n")
		for _, c := range model.Categories {
			if n := f.Counts[c]; n > 0 {
				b.WriteString(fmt.Sprintf("  - %s\n", c.Describe(n)))
			}
		}
	}

	var box strings.Builder
	modified := "Files modified"
	if res.DryRun {
		modified = "Files that would be modified"
	}
	box.WriteString(headerStyle.Render("Summary"))
	box.WriteString(fmt.Sprintf("\n%s: %d\nTotal fixes: %d", modified, res.FilesModified, res.Totals.Total()))
	for _, c := range model.Categories {
		if n := res.Totals[c]; n > 0 {
			box.WriteString(fmt.Sprintf("\n  - %s: %d", c.Code(), n))
		}
	}
	for _, f := range res.Failed() {
		box.WriteString("\n")
		box.WriteString(errorStyle.Render(fmt.Sprintf("Failed: %s (%v)", f.DisplayPath, f.Err)))
	}
	b.WriteString(boxStyle.Render(box.String()))
	b.WriteString("\n")

	if res.FilesModified > 0 && !res.DryRun {
		b.WriteString(faintStyle.Render(fmt.Sprintf("Run 'ansible-lint %s 2>/dev/null' to verify fixes", res.RolePath)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) runApp() tea.Msg {
	res, err := m.run()
	if err != nil {
		// Check for detailed error to print stack
		if e, ok := err.(*lintfix.DetailedError); ok {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		return errorMsg{err}
	}
	return resultMsg{res: res}
}
