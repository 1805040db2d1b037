package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.setmatch/pkg/inspect"
)

const passingBank = `version: "1.0"
name: passing
cases:
  - id: size
    subject: [1, 2]
    phrase: to have size
    args: [2]
  - id: missing
    subject: [1, 2, 3]
    phrase: to satisfy
    args: [[1, 4]]
    expect_failure: true
    expect_diff: |
      Set([
        1,
        2,
        3
        // missing 4
      ])
`

const failingBank = `version: "1.0"
name: failing
cases:
  - id: numbers
    subject: [1, "foo"]
    phrase: to have items satisfying
    args: ["to be a number"]
`

func writeBank(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { _ = inspect.SetDefault(inspect.DefaultConfig()) })

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRun_Passing(t *testing.T) {
	dir := t.TempDir()
	path := writeBank(t, dir, "passing.yaml", passingBank)

	out, err := execute(t, "run", path, "--log-file", filepath.Join(dir, "setcheck.log"))
	require.NoError(t, err)

	assert.Contains(t, out, "PASS  size")
	assert.Contains(t, out, "PASS  missing")
	assert.Contains(t, out, "2/2 cases passed")

	logData, err := os.ReadFile(filepath.Join(dir, "setcheck.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "bank loaded")
	assert.Contains(t, string(logData), "run metrics")
}

func TestRun_Failing(t *testing.T) {
	dir := t.TempDir()
	path := writeBank(t, dir, "failing.yaml", failingBank)

	out, err := execute(t, "run", path, "--log-file", filepath.Join(dir, "setcheck.log"))
	require.Error(t, err)
	assert.Equal(t, "1 of 1 cases did not pass", err.Error())

	assert.Contains(t, out, "FAIL  numbers")
	assert.Contains(t, out, `"foo" // should be a number`)
	assert.Contains(t, out, "0/1 cases passed")
}

func TestRun_Directory_ReportAndHistory(t *testing.T) {
	dir := t.TempDir()
	banks := filepath.Join(dir, "banks")
	require.NoError(t, os.Mkdir(banks, 0755))
	writeBank(t, banks, "passing.yaml", passingBank)

	reports := filepath.Join(dir, "reports")
	history := filepath.Join(dir, "history.jsonl")

	_, err := execute(t, "run", banks,
		"--report-dir", reports,
		"--history", history,
		"--parallel", "2",
		"--log-file", filepath.Join(dir, "setcheck.log"),
	)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(reports, "latest_summary.json"))
	assert.FileExists(t, filepath.Join(reports, "latest_summary.md"))
	assert.FileExists(t, filepath.Join(reports, "latest_summary.html"))

	data, err := os.ReadFile(history)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestRun_PluginPhrases(t *testing.T) {
	dir := t.TempDir()
	path := writeBank(t, dir, "subsets.yaml", `version: "1.0"
name: subsets
cases:
  - id: subset
    subject: [1, 2]
    phrase: to be a subset of
    args: [[1, 2, 3]]
  - id: superset
    subject: [1]
    phrase: to be a superset of
    args: [[1, 2]]
    expect_failure: true
`)

	out, err := execute(t, "run", path, "--log-file", filepath.Join(dir, "setcheck.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 cases passed")

	out, err = execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok      "+path)
}

func TestRun_MissingBank(t *testing.T) {
	_, err := execute(t, "run", "/nonexistent/bank.yaml",
		"--log-file", filepath.Join(t.TempDir(), "setcheck.log"))
	assert.Error(t, err)
}

func TestRun_RequiresArgs(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)
}

func TestRun_EnvironmentConfig(t *testing.T) {
	t.Setenv("SETCHECK_DEPTH", "2")
	t.Setenv("SETCHECK_WIDTH", "100")

	dir := t.TempDir()
	path := writeBank(t, dir, "passing.yaml", passingBank)
	t.Setenv("SETCHECK_LOG_FILE", filepath.Join(dir, "env.log"))

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", path})
	t.Cleanup(func() { _ = inspect.SetDefault(inspect.DefaultConfig()) })

	require.NoError(t, root.Execute())
	captured := inspect.Default()

	assert.Equal(t, 2, captured.Depth)
	assert.Equal(t, 100, captured.PreferredWidth)
	assert.True(t, captured.Indent)
	assert.FileExists(t, filepath.Join(dir, "env.log"))
}

func TestRun_EnvFile(t *testing.T) {
	// Cleared so the dotenv value applies; restored after the test.
	t.Setenv("SETCHECK_DEPTH", "")
	require.NoError(t, os.Unsetenv("SETCHECK_DEPTH"))

	dir := t.TempDir()
	envFile := writeBank(t, dir, "setcheck.env", "# local settings\nSETCHECK_DEPTH=3\n")
	path := writeBank(t, dir, "passing.yaml", passingBank)

	_, err := execute(t, "run", path,
		"--env-file", envFile,
		"--log-file", filepath.Join(dir, "setcheck.log"))
	require.NoError(t, err)
	assert.Equal(t, 3, inspect.Default().Depth)
}

func TestRun_MissingEnvFile(t *testing.T) {
	path := writeBank(t, t.TempDir(), "passing.yaml", passingBank)

	_, err := execute(t, "run", path, "--env-file", "/nonexistent/.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open env file")
}

func TestRun_InvalidRenderingSettings(t *testing.T) {
	t.Setenv("SETCHECK_WIDTH", "10")

	path := writeBank(t, t.TempDir(), "passing.yaml", passingBank)
	_, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rendering settings")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := writeBank(t, dir, "setcheck.yaml", "depth: 4\nwidth: 100\n")
	path := writeBank(t, dir, "passing.yaml", passingBank)

	_, err := execute(t, "run", path,
		"--config", config,
		"--log-file", filepath.Join(dir, "setcheck.log"))
	require.NoError(t, err)

	cfg := inspect.Default()
	assert.Equal(t, 4, cfg.Depth)
	assert.Equal(t, 100, cfg.PreferredWidth)
}

func TestRun_UnknownLogFormat(t *testing.T) {
	path := writeBank(t, t.TempDir(), "passing.yaml", passingBank)

	_, err := execute(t, "run", path, "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestRun_ConsoleLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeBank(t, dir, "passing.yaml", passingBank)

	out, err := execute(t, "run", path, "--log-format", "console", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 cases passed")
	assert.NotContains(t, out, "bank loaded")

	out, err = execute(t, "run", path, "--log-format", "console")
	require.NoError(t, err)
	assert.Contains(t, out, "bank loaded")
}

func TestRun_ConsoleLogFormatRejectsFileOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeBank(t, dir, "passing.yaml", passingBank)

	for _, flag := range []string{"--log-file", "--evaluation-log"} {
		_, err := execute(t, "run", path,
			"--log-format", "console", flag, filepath.Join(dir, "out.log"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), flag+" requires --log-format json")
	}
}

func TestRun_UnknownLogLevel(t *testing.T) {
	path := writeBank(t, t.TempDir(), "passing.yaml", passingBank)

	_, err := execute(t, "run", path, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeBank(t, dir, "good.yaml", passingBank)
	bad := writeBank(t, dir, "bad.yaml", "cases:\n  - id: a\n    phrase: to frobnicate\n")

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok      "+good)

	out, err = execute(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "invalid "+bad)
	assert.Contains(t, out, "ok      "+good)
	assert.Contains(t, err.Error(), "version is required")
	assert.Contains(t, err.Error(), "unknown assertion: to frobnicate")
}
