package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestResolveRole(t *testing.T) {
	dir := t.TempDir()
	roleDir := filepath.Join(dir, "nginx")
	require.NoError(t, os.Mkdir(roleDir, 0o755))
	file := filepath.Join(dir, "file.yml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	t.Run("directory", func(t *testing.T) {
		role, err := ResolveRole(roleDir)
		require.NoError(t, err)
		assert.Equal(t, "nginx", role.Name)
		assert.Equal(t, roleDir, role.Path)
	})

	t.Run("missing", func(t *testing.T) {
		missing := filepath.Join(dir, "missing")
		_, err := ResolveRole(missing)
		assert.True(t, errors.Is(err, ErrRoleNotFound))
		assert.EqualError(t, err, "Role path '"+missing+"' does not exist")
	})

	t.Run("file", func(t *testing.T) {
		_, err := ResolveRole(file)
		assert.True(t, errors.Is(err, ErrNotDirectory))
		assert.EqualError(t, err, "'"+file+"' is not a directory")
	})
}

func TestRoleNameOfDot(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(wd), RoleName("."))
}

func TestDisplayPath(t *testing.T) {
	role := &Role{Path: filepath.Join("roles", "nginx"), Name: "nginx"}
	got := role.DisplayPath(filepath.Join("roles", "nginx", "meta", "main.yml"))
	assert.Equal(t, filepath.Join("nginx", "meta", "main.yml"), got)

	role = &Role{Path: filepath.Join("roles", "nginx") + string(filepath.Separator), Name: "nginx"}
	got = role.DisplayPath(filepath.Join("roles", "nginx", "meta", "main.yml"))
	assert.Equal(t, filepath.Join("nginx", "meta", "main.yml"), got)
}

func TestFindYAMLFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"meta/main.yml":                 "",
		"tasks/main.yaml":               "",
		"tests/test.yml":                "",
		"templates/nginx.conf.j2":       "",
		"molecule/default/converge.yml": "",
		"README.md":                     "",
	})
	writeTree(t, root, map[string]string{StateDirName + "/backups/x.yml": ""})
	writeTree(t, root, map[string]string{StateDirName + ".yaml": "skip: []\n"})
	// A directory with a YAML-like name must not be returned.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vars.yml"), 0o755))

	files, err := FindYAMLFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "meta", "main.yml"),
		filepath.Join(root, "molecule", "default", "converge.yml"),
		filepath.Join(root, "tasks", "main.yaml"),
		filepath.Join(root, "tests", "test.yml"),
	}, files)

	files, err = FindYAMLFiles(root, []string{"molecule"})
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.NotContains(t, files, filepath.Join(root, "molecule", "default", "converge.yml"))
}

func TestFindYAMLFilesSegmentOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a-b/x.yml": "",
		"a/x.yml":   "",
		"a/b/y.yml": "",
	})

	files, err := FindYAMLFiles(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "y.yml"),
		filepath.Join(root, "a", "x.yml"),
		filepath.Join(root, "a-b", "x.yml"),
	}, files)
}

func TestFindYAMLFilesEmpty(t *testing.T) {
	files, err := FindYAMLFiles(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		rel      string
		patterns []string
		want     bool
	}{
		{"tests/test.yml", []string{"tests/*.yml"}, true},
		{"tests/test.yml", []string{"tests/"}, true},
		{"tests/test.yml", []string{"**/test.yml"}, true},
		{"tasks/main.yml", []string{"tests/**"}, false},
		{"tasks/main.yml", nil, false},
		{"tasks/main.yml", []string{""}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsExcluded(tt.rel, tt.patterns), "%s %v", tt.rel, tt.patterns)
	}
}

func TestWriteFileKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.yml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFile(path, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSHA256(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	got, err := GetFileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
	assert.Equal(t, got, ContentSHA256("abc"))
}
