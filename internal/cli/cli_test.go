package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"si-components/tests/testutil"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	root := newRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{
		"validate", "create", "normalize", "export", "init-template",
		"changesets", "components", "schemas", "extract", "template",
		"generate", "env", "ping",
	}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootConnectionFlags(t *testing.T) {
	root := newRootCommand()
	flags := []string{
		"config", "log-level", "host", "workspace-id", "api-token",
		"timeout", "retries", "retry-delay-ms", "rate-limit",
		"rate-burst", "verify-ssl",
	}
	for _, name := range flags {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "missing flag: %s", name)
	}
}

func TestCreateCommandFlags(t *testing.T) {
	cmd := newCreateCommand()
	flags := []string{"dir", "changeset", "name", "match", "workers", "report", "secret-key"}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestGenerateCommandFlags(t *testing.T) {
	cmd := newGenerateCommand()
	flags := []string{"schema", "name", "changeset", "extracted", "output"}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestListSubcommands(t *testing.T) {
	for _, cmd := range []*cobra.Command{newComponentsCommand(), newSchemasCommand()} {
		list, _, err := cmd.Find([]string{"list"})
		require.NoError(t, err)
		assert.NotNil(t, list.Flags().Lookup("changeset"))
		assert.NotNil(t, list.Flags().Lookup("match"))
		assert.NotNil(t, list.Flags().Lookup("json"))
	}
}

// ---------- Command execution tests ----------

func TestValidateCommandReportsProblems(t *testing.T) {
	dir := testutil.FixturesDir(t)

	out, err := executeCommand(t, "validate", "--dir", dir, "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, 4, exitCodeForError(err))
	assert.Contains(t, out, "records: 6 valid: 5 problems: 2")
	assert.Contains(t, out, "ok main-vpc (AWS::EC2::VPC)")
	assert.Contains(t, out, "problem parse:")
}

func TestValidateCommandMissingDir(t *testing.T) {
	_, err := executeCommand(t, "validate", "--dir", filepath.Join(t.TempDir(), "nope"), "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, 3, exitCodeForError(err))
}

func TestEnvCommandMasksToken(t *testing.T) {
	t.Setenv("SI_WORKSPACE_ID", "ws-42")
	t.Setenv("SI_API_TOKEN", "super-secret-token")

	out, err := executeCommand(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "SI_HOST=https://api.systeminit.com")
	assert.Contains(t, out, "SI_WORKSPACE_ID=ws-42")
	assert.Contains(t, out, "SI_API_TOKEN=***oken")
	assert.NotContains(t, out, "super-secret-token")
	assert.Contains(t, out, "verify_ssl=true")
}

func TestEnvCommandFlagOverridesEnv(t *testing.T) {
	t.Setenv("SI_HOST", "https://env.example")

	out, err := executeCommand(t, "env", "--host", "https://flag.example", "--verify-ssl=false")
	require.NoError(t, err)
	assert.Contains(t, out, "SI_HOST=https://flag.example")
	assert.Contains(t, out, "SI_API_TOKEN=(not set)")
	assert.Contains(t, out, "verify_ssl=false")
}

func TestPingCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/w/ws-1/change-sets", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"changeSets":[]}`))
	}))
	t.Cleanup(server.Close)

	out, err := executeCommand(t, "ping", "--host", server.URL, "--workspace-id", "ws-1", "--api-token", "tok", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "ok "+server.URL)
}

func TestPingCommandRequiresWorkspace(t *testing.T) {
	_, err := executeCommand(t, "ping", "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestChangeSetsCreateSendsBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cs-base", body["baseChangeSetId"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"changeSet":{"id":"cs-new","name":"import","status":"Open"}}`))
	}))
	t.Cleanup(server.Close)

	out, err := executeCommand(t, "changesets", "create", "import", "--base", "cs-base",
		"--host", server.URL, "--workspace-id", "ws-1", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "cs-new\n", out)
}

func TestChangeSetsCreateRequiresName(t *testing.T) {
	_, err := executeCommand(t, "changesets", "create")
	require.Error(t, err)
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		values   []string
		expected []string
	}{
		{
			name:     "nil cmd with values returns values",
			cmd:      nil,
			values:   []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "nil cmd empty returns nil",
			cmd:      nil,
			values:   nil,
			expected: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveStrings(tt.cmd, tt.values, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestResolveInt(t *testing.T) {
	got := resolveInt(nil, 42, "test_key", "test-flag")
	assert.Equal(t, 42, got)
}

func TestResolveFloat(t *testing.T) {
	got := resolveFloat(nil, 2.5, "test_key", "test-flag")
	assert.InDelta(t, 2.5, got, 0.0001)
}

func TestResolveStringPrefersChangedFlag(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("test_key", "from-config")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("test-flag", "", "test flag")
	assert.Equal(t, "from-config", resolveString(cmd, "", "test_key", "test-flag"))

	require.NoError(t, cmd.Flags().Set("test-flag", "from-flag"))
	assert.Equal(t, "from-flag", resolveString(cmd, "from-flag", "test_key", "test-flag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "already exists",
			err: errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("dup"),
			expected: 2,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("schema not found: AWS::EC2::VPC"),
			expected: 3,
		},
		{
			name: "batch had failures",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("4 created, 1 failed, 0 config problem(s)"),
			expected: 4,
		},
		{
			name: "transport failure",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("nope"),
			expected: 1,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
