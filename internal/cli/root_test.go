package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args, returning stdout, stderr, and
// the process exit code Execute would hand to os.Exit.
func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	code = Execute(cmd)
	return out.String(), errOut.String(), code
}

// writeConfig drops a config file whose image catalog lives in a temp dir.
func writeConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "images.db")
	configPath = filepath.Join(dir, "unit.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("image_db: "+dbPath+"\n"), 0644))
	return configPath, dbPath
}

func TestExecute_AllPass(t *testing.T) {
	configPath, _ := writeConfig(t)

	out, _, code := execute(t, "--config", configPath)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "forthkit unit tests")
	assert.Contains(t, out, "passed ")
	assert.NotContains(t, out, "FAILED")
}

func TestExecute_SilentProducesNoOutputSameExitCode(t *testing.T) {
	configPath, _ := writeConfig(t)

	out, _, code := execute(t, "-s", "--config", configPath)
	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, out)
}

func TestExecute_CatalogRemovedUnlessKeep(t *testing.T) {
	configPath, dbPath := writeConfig(t)

	_, _, code := execute(t, "-s", "--config", configPath)
	require.Equal(t, ExitSuccess, code)
	assert.NoFileExists(t, dbPath)

	_, _, code = execute(t, "-s", "-k", "--config", configPath)
	require.Equal(t, ExitSuccess, code)
	assert.FileExists(t, dbPath)
}

func TestExecute_HelpExitsUnsuccessfully(t *testing.T) {
	out, _, code := execute(t, "-h")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out, "Usage:")
}

func TestExecute_UnknownFlagIsUsageError(t *testing.T) {
	_, stderr, code := execute(t, "--bogus")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "Usage:")
}

func TestExecute_BadConfigPathIsUsageError(t *testing.T) {
	_, stderr, code := execute(t, "--config", "/nonexistent/unit.yaml")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "configuration error")
}

func TestExecute_TrailingArgsAreIgnored(t *testing.T) {
	configPath, _ := writeConfig(t)

	_, _, code := execute(t, "-s", "--config", configPath, "--", "-x", "leftover")
	assert.Equal(t, ExitSuccess, code)
}

func TestBareDash_StopsFlagParsing(t *testing.T) {
	configPath, _ := writeConfig(t)

	_, _, code := execute(t, "-s", "--config", configPath, "-", "-x")
	assert.Equal(t, ExitSuccess, code)
}
