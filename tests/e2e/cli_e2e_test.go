package e2e

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"si-components/tests/testutil"
)

func TestNormalizeCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/si-components", "normalize",
		"--dir", "fixtures/configs",
		"--output", outDir,
		"--log-level", "error",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	data, err := os.ReadFile(filepath.Join(outDir, "main-vpc.json"))
	require.NoError(t, err)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(data, &cfg))
	attrs := cfg["attributes"].(map[string]any)
	require.Equal(t, "10.0.0.0/16", attrs["/domain/CidrBlock"])
	require.NotContains(t, cfg, "domain")
}

func TestValidateCommandE2EExitCode(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/si-components", "validate",
		"--dir", "fixtures/configs",
		"--log-level", "error",
	)
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.Error(t, err, string(out))
	require.Contains(t, string(out), "records: 6 valid: 5 problems: 2")
}
