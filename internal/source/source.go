package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/skillstack/internal/ui"
)

// Origin tells where snippet content came from, and so where the fixed
// content goes back to.
type Origin int

const (
	Stdin Origin = iota
	Clipboard
)

func (o Origin) String() string {
	if o == Clipboard {
		return "clipboard"
	}
	return "stdin"
}

// SourceProvider determines and retrieves the source content.
type SourceProvider struct {
	Stdin  io.Reader
	Stdout io.Writer
	// IsPiped reports whether Stdin carries data.
	IsPiped        func() bool
	ReadClipboard  func() (string, error)
	WriteClipboard func(string) error
}

// New creates a SourceProvider bound to the process stdio and the system
// clipboard.
func New() *SourceProvider {
	return &SourceProvider{
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		IsPiped:        stdinIsPiped,
		ReadClipboard:  clipboard.ReadAll,
		WriteClipboard: clipboard.WriteAll,
	}
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// GetContent retrieves content from stdin (if piped) or the clipboard.
// Whitespace-only content is returned as "".
func (sp *SourceProvider) GetContent() (string, Origin, error) {
	if sp.IsPiped() {
		ui.Status("--- Reading from stdin ---")
		content, err := io.ReadAll(sp.Stdin)
		if err != nil {
			return "", Stdin, fmt.Errorf("failed to read from stdin: %w", err)
		}
		if strings.TrimSpace(string(content)) == "" {
			return "", Stdin, nil
		}
		return string(content), Stdin, nil
	}

	ui.Status("--- Reading from clipboard ---")
	content, err := sp.ReadClipboard()
	if err != nil {
		return "", Clipboard, fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", Clipboard, nil
	}
	return content, Clipboard, nil
}

// PutContent hands fixed content back: to stdout for stdin input, to the
// clipboard otherwise.
func (sp *SourceProvider) PutContent(content string, origin Origin) error {
	if origin == Clipboard {
		if err := sp.WriteClipboard(content); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
		ui.Status("--- Copied fixed content to clipboard ---")
		return nil
	}
	if _, err := io.WriteString(sp.Stdout, content); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}
