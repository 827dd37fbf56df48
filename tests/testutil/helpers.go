// Package testutil locates the si-components repository and its component
// config fixtures from any test package.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the directory holding go.mod, searching upward from the
// test's working directory.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found above test directory")
		dir = parent
	}
}

// FixturesDir returns fixtures/configs, the sample component configs shared
// by the validate, create and extract tests.
func FixturesDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "fixtures", "configs")
}
