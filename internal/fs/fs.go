package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// StateDirName is the directory that holds backups and history. It is never
// scanned for YAML files.
const StateDirName = ".ansible-lint-fix"

// yamlGlob matches every YAML file below a role directory.
const yamlGlob = "**/*.{yml,yaml}"

var (
	// ErrRoleNotFound is returned when the role path does not exist.
	ErrRoleNotFound = errors.New("role path does not exist")
	// ErrNotDirectory is returned when the role path is not a directory.
	ErrNotDirectory = errors.New("role path is not a directory")
)

// RoleError reports an unusable role path. It unwraps to ErrRoleNotFound or
// ErrNotDirectory.
type RoleError struct {
	Path string
	Err  error
}

func (e *RoleError) Error() string {
	if errors.Is(e.Err, ErrNotDirectory) {
		return fmt.Sprintf("'%s' is not a directory", e.Path)
	}
	return fmt.Sprintf("Role path '%s' does not exist", e.Path)
}

func (e *RoleError) Unwrap() error { return e.Err }

// Role describes the directory being fixed.
type Role struct {
	// Path is the path as given on the command line.
	Path string
	// Name is the last segment of the absolute path.
	Name string
}

// ResolveRole checks that path is an existing directory and derives the
// role name from it.
func ResolveRole(path string) (*Role, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RoleError{Path: path, Err: ErrRoleNotFound}
		}
		return nil, fmt.Errorf("stat role path %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, &RoleError{Path: path, Err: ErrNotDirectory}
	}
	return &Role{Path: path, Name: RoleName(path)}, nil
}

// RoleName returns the base name of path after making it absolute, so "."
// names the current directory.
func RoleName(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.Base(abs)
}

// DisplayPath renders path relative to the parent of the role directory,
// e.g. "nginx/meta/main.yml" for role "roles/nginx".
func (r *Role) DisplayPath(path string) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.Clean(r.Path)), path)
	if err != nil {
		return path
	}
	return rel
}

// FindYAMLFiles returns every .yml and .yaml file under root, sorted by path
// segment, skipping files matched by one of the exclude globs (relative to
// root), the state directory and a config file at the top of root.
func FindYAMLFiles(root string, excludes []string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), yamlGlob,
		doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", root, err)
	}

	kept := make([]string, 0, len(matches))
	for _, rel := range matches {
		if isStatePath(rel) || IsExcluded(rel, excludes) {
			continue
		}
		kept = append(kept, rel)
	}
	// Order by path segment: "a/x.yml" sorts before "a-b/x.yml".
	slices.SortFunc(kept, func(a, b string) int {
		return slices.Compare(strings.Split(a, "/"), strings.Split(b, "/"))
	})

	files := make([]string, len(kept))
	for i, rel := range kept {
		files[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	return files, nil
}

// IsExcluded reports whether the slash-separated relative path matches one of
// the patterns, either directly or as a file below a matching directory.
func IsExcluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if pattern == "" {
			continue
		}
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern+"/**", rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isStatePath(rel string) bool {
	switch rel {
	case StateDirName + ".yaml", StateDirName + ".yml":
		return true
	}
	return strings.HasPrefix(rel, StateDirName+"/")
}

// WriteFile replaces the content of an existing file, keeping its mode.
func WriteFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// GetFileSHA256 returns the hex SHA-256 of a file's content.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ContentSHA256 returns the hex SHA-256 of content.
func ContentSHA256(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
