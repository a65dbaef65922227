package subcommands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/uesave-converter/internal/config"
	"github.com/leefowlercu/uesave-converter/internal/testutil"
)

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	showFormat, showRaw = "yaml", false
	initPath, initForce = "", false
	resetConfirm = false

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestShow_Formats(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteConfig("convert:\n  overwrite: true\n")

	out, err := run(t, ShowCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "overwrite: true")
	assert.Contains(t, out, "config.yaml")

	out, err = run(t, ShowCmd, "", "--format", "json")
	require.NoError(t, err)
	var fromJSON config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &fromJSON))
	assert.True(t, fromJSON.Convert.Overwrite)

	out, err = run(t, ShowCmd, "", "--format", "toml")
	require.NoError(t, err)
	var fromTOML config.Config
	body := out[strings.Index(out, "\n")+1:]
	require.NoError(t, toml.Unmarshal([]byte(body), &fromTOML))
	assert.Equal(t, *config.Get(), fromTOML)
}

func TestShow_RejectsUnknownFormat(t *testing.T) {
	testutil.NewTestEnv(t)

	_, err := run(t, ShowCmd, "", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestShow_Raw(t *testing.T) {
	env := testutil.NewTestEnv(t)

	out, err := run(t, ShowCmd, "", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "No configuration file found")

	env.WriteConfig("log_level: debug\n")
	out, err = run(t, ShowCmd, "", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "log_level: debug")
}

func TestValidate(t *testing.T) {
	env := testutil.NewTestEnv(t)

	out, err := run(t, ValidateCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Using default configuration values")

	path := env.WriteConfig("headers:\n  legacy_probe: true\n")
	out, err = run(t, ValidateCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: "+path)

	bad := filepath.Join(env.WorkDir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_level: shout\n"), 0644))
	out, err = run(t, ValidateCmd, "", bad)
	assert.ErrorIs(t, err, errInvalidConfig)
	assert.Contains(t, out, "log_level")
}

func TestInit_WritesDefaults(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := filepath.Join(env.WorkDir, "uesave.yaml")

	out, err := run(t, InitCmd, "", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig().Convert, loaded.Convert)

	_, err = run(t, InitCmd, "", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, InitCmd, "", "--path", path, "--force")
	assert.NoError(t, err)
}

func TestInit_DefaultLocation(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := run(t, InitCmd, "")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(env.ConfigDir, "config.yaml"))
}

func TestReset(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.WriteConfig("convert:\n  summary: false\n")

	out, err := run(t, ResetCmd, "n\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset cancelled")
	assert.FileExists(t, path)

	out, err = run(t, ResetCmd, "y\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup created")
	assert.NoFileExists(t, path)

	matches, err := filepath.Glob(path + ".backup.*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestReset_NoFile(t *testing.T) {
	testutil.NewTestEnv(t)

	out, err := run(t, ResetCmd, "", "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "No configuration file found")
}

func TestFindEditor_PrefersEnvironment(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "my-visual")
	assert.Equal(t, "my-visual", findEditor())

	t.Setenv("EDITOR", "my-editor")
	assert.Equal(t, "my-editor", findEditor())
}
