package lintfix

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/sokinpui/skillstack/cli"
	"github.com/sokinpui/skillstack/internal/config"
	"github.com/sokinpui/skillstack/internal/fs"
	"github.com/sokinpui/skillstack/internal/logging"
	"github.com/sokinpui/skillstack/internal/patcher"
	"github.com/sokinpui/skillstack/internal/rules"
	"github.com/sokinpui/skillstack/internal/source"
	"github.com/sokinpui/skillstack/internal/state"
	"github.com/sokinpui/skillstack/model"
)

// ProgressUpdate is a callback function to report progress. path is the
// display path of the file about to be processed, empty once all are done.
type ProgressUpdate func(current, total int, path string)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	settings         *config.Config
	stateRoot        string
	stateManager     *state.Manager
	sourceProvider   *source.SourceProvider
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance. The config file is looked up in the role
// directory, then in the working directory, unless cfg names one.
func New(cfg *cli.Config) (*App, error) {
	var searchDirs []string
	if cfg.RolePath != "" {
		searchDirs = append(searchDirs, cfg.RolePath)
	}
	searchDirs = append(searchDirs, ".")

	settings, err := config.Load(cfg.ConfigFile, searchDirs...)
	if err != nil {
		return nil, err
	}

	level := settings.Log.Level
	if cfg.Verbose {
		level = "debug"
	}
	if err := logging.Init(level, settings.Log.Format); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &App{
		cfg:            cfg,
		settings:       settings,
		sourceProvider: source.New(),
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// SetStateRoot keeps backups and history under dir instead of the git
// top-level.
func (a *App) SetStateRoot(dir string) {
	a.stateRoot = dir
	a.stateManager = nil
}

// SetSourceProvider replaces where snippet mode reads and writes content.
func (a *App) SetSourceProvider(sp *source.SourceProvider) {
	a.sourceProvider = sp
}

// Settings returns the merged configuration.
func (a *App) Settings() *config.Config {
	return a.settings
}

func (a *App) state() (*state.Manager, error) {
	if a.stateManager != nil {
		return a.stateManager, nil
	}
	var (
		m   *state.Manager
		err error
	)
	if a.stateRoot != "" {
		m, err = state.NewAt(a.stateRoot)
	} else {
		m, err = state.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	a.stateManager = m
	return m, nil
}

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = &DetailedError{
			Err:   fmt.Errorf("internal panic: %v", r),
			Stack: debug.Stack(),
		}
	}
}

func (a *App) rules() ([]rules.Rule, error) {
	skip := append(append([]string{}, a.settings.Skip...), a.cfg.Skip...)
	merged := *a.settings
	merged.Skip = skip
	categories, err := merged.SkipCategories()
	if err != nil {
		return nil, err
	}
	return rules.Without(rules.All(), categories), nil
}

func (a *App) excludes() []string {
	return append(append([]string{}, a.settings.Exclude...), a.cfg.Exclude...)
}

func (a *App) report(current, total int, path string) {
	if a.progressCallback != nil {
		a.progressCallback(current, total, path)
	}
}

// Run fixes every YAML file of the role directory. An unusable role path is
// returned as a *fs.RoleError; failures on single files are recorded in the
// result and do not stop the run.
func (a *App) Run() (res *model.RunResult, err error) {
	defer recoverPanic(&err)

	role, err := fs.ResolveRole(a.cfg.RolePath)
	if err != nil {
		return nil, err
	}
	log := logging.L().With(zap.String("role", role.Name))

	res = &model.RunResult{
		RolePath: role.Path,
		RoleName: role.Name,
		Totals:   model.NewFixCounts(),
		DryRun:   a.cfg.DryRun,
	}

	files, err := fs.FindYAMLFiles(role.Path, a.excludes())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		res.NoFiles = true
		return res, nil
	}
	log.Debug("discovered files", zap.Int("count", len(files)))

	rs, err := a.rules()
	if err != nil {
		return nil, err
	}
	p := patcher.New(a.settings.RuleOptions(role.Name))
	p.Rules = rs
	p.DryRun = a.cfg.DryRun
	p.Diff = a.cfg.Diff
	p.Validate = a.cfg.Validate || a.settings.Validate

	var session *state.Session
	if (a.cfg.Backup || a.settings.Backup) && !a.cfg.DryRun {
		m, err := a.state()
		if err != nil {
			return nil, err
		}
		session = m.Begin()
		p.BeforeWrite = session.Backup
	}

	total := len(files)
	for i, path := range files {
		display := role.DisplayPath(path)
		a.report(i, total, display)

		r := p.ProcessFile(path, display)
		res.Files = append(res.Files, r)
		if r.Err != nil {
			log.Debug("file skipped", zap.String("file", display), zap.Error(r.Err))
			continue
		}
		if r.Changed {
			res.FilesModified++
			res.Totals.Add(r.Counts)
		}
	}
	a.report(total, total, "")

	if session != nil {
		if err := session.Commit(); err != nil {
			return res, fmt.Errorf("failed to record backup history: %w", err)
		}
	}
	return res, nil
}

// Revert restores the files written by the last backed-up run.
func (a *App) Revert() (summary model.Summary, err error) {
	defer recoverPanic(&err)

	m, err := a.state()
	if err != nil {
		return model.Summary{}, err
	}
	return m.RevertLast()
}

// FixSnippet fixes YAML read from stdin or the clipboard and hands the result
// back to the same place. Every rule applies; the role name, used by the role
// path rule, comes from the optional role path.
func (a *App) FixSnippet() (counts model.FixCounts, err error) {
	defer recoverPanic(&err)

	content, origin, err := a.sourceProvider.GetContent()
	if err != nil {
		return nil, err
	}
	if content == "" {
		return model.NewFixCounts(), nil
	}

	rs, err := a.rules()
	if err != nil {
		return nil, err
	}
	opts := a.settings.RuleOptions(fs.RoleName(a.cfg.RolePath))
	fixed, counts := patcher.FixContent("", content, rs, &opts)
	logging.L().Debug("snippet fixed",
		zap.Stringer("source", origin), zap.Int("fixes", counts.Total()))

	if err := a.sourceProvider.PutContent(fixed, origin); err != nil {
		return counts, err
	}
	return counts, nil
}
