package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Run("role path and verbose", func(t *testing.T) {
		cfg, err := ParseArgs([]string{"-v", "roles/nginx"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "roles/nginx", cfg.RolePath)
		assert.True(t, cfg.Verbose)
		assert.False(t, cfg.DryRun)
	})

	t.Run("long flags and slices", func(t *testing.T) {
		cfg, err := ParseArgs([]string{
			"--dry-run", "--diff", "--exclude", "molecule/**", "-x", "tests/*.yml",
			"--skip", "name[play]", "roles/nginx",
		}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, cfg.DryRun)
		assert.True(t, cfg.Diff)
		assert.Equal(t, []string{"molecule/**", "tests/*.yml"}, cfg.Exclude)
		assert.Equal(t, []string{"name[play]"}, cfg.Skip)
	})

	t.Run("missing role path", func(t *testing.T) {
		var out bytes.Buffer
		_, err := ParseArgs([]string{"-v"}, &out)
		assert.EqualError(t, err, "the role_path argument is required")
		assert.Contains(t, out.String(), "Usage: ansible-lint-fix")
	})

	t.Run("snippet needs no role path", func(t *testing.T) {
		cfg, err := ParseArgs([]string{"--snippet"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, cfg.Snippet)
		assert.Empty(t, cfg.RolePath)
	})

	t.Run("revert needs no role path", func(t *testing.T) {
		cfg, err := ParseArgs([]string{"-r"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, cfg.Revert)
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := ParseArgs([]string{"a", "b"}, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("mutually exclusive", func(t *testing.T) {
		_, err := ParseArgs([]string{"--revert", "--snippet"}, &bytes.Buffer{})
		assert.EqualError(t, err, "--revert and --snippet are mutually exclusive")
		_, err = ParseArgs([]string{"--dry-run", "--backup", "roles/x"}, &bytes.Buffer{})
		assert.EqualError(t, err, "--dry-run and --backup are mutually exclusive")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := ParseArgs([]string{"--nope", "roles/x"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}
