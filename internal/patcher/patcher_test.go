package patcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/skillstack/internal/rules"
	"github.com/sokinpui/skillstack/model"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFixContentScopes(t *testing.T) {
	content := "#c\nmin_ansible_version: 2.9\n"
	opts := rules.DefaultOptions("nginx")

	t.Run("meta main applies schema", func(t *testing.T) {
		got, counts := FixContent("nginx/meta/main.yml", content, rules.All(), &opts)
		assert.Equal(t, "# c\nmin_ansible_version: \"2.9\"\n", got)
		assert.Equal(t, 1, counts[model.CategoryComments])
		assert.Equal(t, 1, counts[model.CategorySchemaMeta])
	})

	t.Run("tasks main skips schema", func(t *testing.T) {
		got, counts := FixContent("nginx/tasks/main.yml", content, rules.All(), &opts)
		assert.Equal(t, "# c\nmin_ansible_version: 2.9\n", got)
		assert.Zero(t, counts[model.CategorySchemaMeta])
	})

	t.Run("empty path applies every rule", func(t *testing.T) {
		_, counts := FixContent("", content, rules.All(), &opts)
		assert.Equal(t, 2, counts.Total())
	})
}

func TestProcessFileMeta(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "nginx/meta/main.yml",
		"galaxy_info:\n  author: your name\n  min_ansible_version: 2.9\n")

	p := New(rules.DefaultOptions("nginx"))
	report := p.ProcessFile(path, "nginx/meta/main.yml")

	require.NoError(t, report.Err)
	assert.True(t, report.Changed)
	assert.Equal(t, 1, report.Counts[model.CategorySchemaMeta])
	assert.Equal(t, 1, report.Counts[model.CategoryMetaIncorrect])
	assert.Equal(t, 2, report.Counts.Total())
	assert.Equal(t, "galaxy_info:\n  author: Ansible User\n  min_ansible_version: \"2.9\"\n", readFile(t, path))
}

func TestProcessFileUnchanged(t *testing.T) {
	root := t.TempDir()
	content := "---\n# fine\n- name: Install\n  ansible.builtin.package:\n    name: nginx\n"
	path := writeFile(t, root, "tasks/main.yml", content)

	report := New(rules.DefaultOptions("nginx")).ProcessFile(path, "tasks/main.yml")
	require.NoError(t, report.Err)
	assert.False(t, report.Changed)
	assert.Zero(t, report.Counts.Total())
	assert.Equal(t, content, readFile(t, path))
}

func TestProcessFileDryRunWithDiff(t *testing.T) {
	root := t.TempDir()
	content := "#comment\n- hosts: all\n"
	path := writeFile(t, root, "tests/test.yml", content)

	p := New(rules.DefaultOptions("nginx"))
	p.DryRun = true
	p.Diff = true
	report := p.ProcessFile(path, "nginx/tests/test.yml")

	require.NoError(t, report.Err)
	assert.True(t, report.Changed)
	assert.Equal(t, 1, report.Counts[model.CategoryComments])
	assert.Equal(t, 1, report.Counts[model.CategoryPlayNames])
	assert.Equal(t, content, readFile(t, path), "dry run must not write")

	assert.Contains(t, report.Diff, "--- a/nginx/tests/test.yml")
	assert.Contains(t, report.Diff, "+++ b/nginx/tests/test.yml")
	assert.Contains(t, report.Diff, "-#comment")
	assert.Contains(t, report.Diff, "+# comment")
	assert.Contains(t, report.Diff, "+- name: Test playbook for all")
}

func TestProcessFileSkippedRules(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "tasks/main.yml", "#comment\n")

	p := New(rules.DefaultOptions("nginx"))
	p.Rules = rules.Without(p.Rules, []model.Category{model.CategoryComments})
	report := p.ProcessFile(path, "tasks/main.yml")

	require.NoError(t, report.Err)
	assert.False(t, report.Changed)
	assert.Equal(t, "#comment\n", readFile(t, path))
}

func TestProcessFileReadError(t *testing.T) {
	report := New(rules.DefaultOptions("nginx")).ProcessFile(filepath.Join(t.TempDir(), "gone.yml"), "gone.yml")
	require.Error(t, report.Err)
	assert.False(t, report.Changed)
	assert.True(t, errors.Is(report.Err, os.ErrNotExist))
}

func TestProcessFileValidateRefusesBrokenOutput(t *testing.T) {
	root := t.TempDir()
	content := "key: value\n"
	path := writeFile(t, root, "tasks/main.yml", content)

	p := New(rules.DefaultOptions("nginx"))
	p.Validate = true
	p.Rules = []rules.Rule{{
		Category: model.CategoryComments,
		Scope:    rules.ScopeAny,
		Apply: func(c string, _ *rules.Options) (string, int) {
			return strings.Replace(c, "value", "[value", 1), 1
		},
	}}
	report := p.ProcessFile(path, "tasks/main.yml")

	require.Error(t, report.Err)
	assert.Contains(t, report.Err.Error(), "not valid YAML")
	assert.False(t, report.Changed)
	assert.Equal(t, content, readFile(t, path))
}

func TestProcessFileBeforeWriteVeto(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "tasks/main.yml", "#x\n")

	var seenOriginal, seenFixed string
	p := New(rules.DefaultOptions("nginx"))
	p.BeforeWrite = func(_, original, fixed string) error {
		seenOriginal, seenFixed = original, fixed
		return errors.New("backup failed")
	}
	report := p.ProcessFile(path, "tasks/main.yml")

	require.EqualError(t, report.Err, "backup failed")
	assert.Equal(t, "#x\n", seenOriginal)
	assert.Equal(t, "# x\n", seenFixed)
	assert.Equal(t, "#x\n", readFile(t, path))
}

func TestCheckStillValid(t *testing.T) {
	assert.NoError(t, CheckStillValid("a: 1\n", "a: 2\n"))
	assert.Error(t, CheckStillValid("a: 1\n", "a: [\n"))
	assert.NoError(t, CheckStillValid("a: [\n", "a: [[\n"), "already broken input is not blamed")
	assert.NoError(t, CheckYAML("---\na: 1\n---\nb: 2\n"))
	assert.NoError(t, CheckYAML(""))
}
