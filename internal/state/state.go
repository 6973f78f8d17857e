package state

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/skillstack/internal/fs"
	"github.com/sokinpui/skillstack/model"
)

const (
	stateFileName = "state.yaml"
	BackupDir     = "backups"
	backupSuffix  = ".orig"
)

// Operation records one file overwritten by a run.
type Operation struct {
	Path        string `yaml:"path"`
	ContentHash string `yaml:"content_hash"` // SHA256 of the content written by the fixer
	BackupPath  string `yaml:"backup_path"`
}

// HistoryEntry represents one run of the tool that wrote files.
type HistoryEntry struct {
	Timestamp  int64       `yaml:"timestamp"`
	Operations []Operation `yaml:"operations"`
}

// State represents the entire state file.
type State struct {
	History []HistoryEntry `yaml:"history"`
}

// Manager handles the lifecycle of the state file and backups.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates a state manager rooted at the git top-level, or at the working
// directory outside a repository.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}
	return NewAt(rootDir)
}

// NewAt creates a state manager keeping its files under rootDir.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, fs.StateDirName)
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{}
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid state file %s: %w", m.statePath, err)
	}
	m.state = &s
	return nil
}

func (m *Manager) save() error {
	if err := os.MkdirAll(m.StateDir, 0o755); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}
	data, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(m.statePath, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// History returns the recorded entries, oldest first.
func (m *Manager) History() []HistoryEntry {
	return m.state.History
}

// Session collects the backups taken during one run.
type Session struct {
	manager   *Manager
	timestamp int64
	ops       []Operation
}

// Begin starts recording a run.
func (m *Manager) Begin() *Session {
	return &Session{manager: m, timestamp: time.Now().UTC().UnixNano()}
}

// Backup saves original before path is overwritten with fixed. Its signature
// matches patcher.WriteHook.
func (s *Session) Backup(path, original, fixed string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	dir := filepath.Join(s.manager.StateDir, BackupDir, fmt.Sprintf("%d", s.timestamp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create backup directory: %w", err)
	}
	name := fmt.Sprintf("%03d-%s%s", len(s.ops), filepath.Base(path), backupSuffix)
	backupPath := filepath.Join(dir, name)
	if err := os.WriteFile(backupPath, []byte(original), 0o644); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	s.ops = append(s.ops, Operation{
		Path:        abs,
		ContentHash: fs.ContentSHA256(fixed),
		BackupPath:  backupPath,
	})
	return nil
}

// Operations returns what has been backed up so far.
func (s *Session) Operations() []Operation {
	return s.ops
}

// Commit adds the session to the history. A session without backups leaves
// the state file alone.
func (s *Session) Commit() error {
	if len(s.ops) == 0 {
		return nil
	}
	ops := append([]Operation(nil), s.ops...)
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Path < ops[j].Path
	})
	s.manager.state.History = append(s.manager.state.History, HistoryEntry{
		Timestamp:  s.timestamp,
		Operations: ops,
	})
	return s.manager.save()
}

// RevertLast restores the files of the most recent entry and drops it from
// the history. Files edited since the fix are left alone and reported as
// failed.
func (m *Manager) RevertLast() (model.Summary, error) {
	n := len(m.state.History)
	if n == 0 {
		return model.Summary{Message: "No operation to revert."}, nil
	}
	entry := m.state.History[n-1]

	var summary model.Summary
	for _, op := range entry.Operations {
		if err := revertOperation(op); err != nil {
			summary.Failed = append(summary.Failed, fmt.Sprintf("%s (%v)", op.Path, err))
			continue
		}
		summary.Reverted = append(summary.Reverted, op.Path)
	}

	m.state.History = m.state.History[:n-1]
	if err := m.save(); err != nil {
		return summary, err
	}
	if len(summary.Failed) == 0 {
		os.RemoveAll(filepath.Join(m.StateDir, BackupDir, fmt.Sprintf("%d", entry.Timestamp)))
	}
	summary.Message = "Reverted last operation."
	return summary, nil
}

func revertOperation(op Operation) error {
	hash, err := fs.GetFileSHA256(op.Path)
	if err != nil {
		return err
	}
	if hash != op.ContentHash {
		return fmt.Errorf("file changed since it was fixed")
	}
	original, err := os.ReadFile(op.BackupPath)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	return fs.WriteFile(op.Path, string(original))
}
