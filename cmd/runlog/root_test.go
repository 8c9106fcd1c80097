package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/runlog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree with args against a private registry
func runCLI(t *testing.T, args ...string) (*runlog.Registry, string, error) {
	t.Helper()
	reg := runlog.NewRegistry()
	t.Cleanup(func() { _ = reg.Close() })

	var out bytes.Buffer
	rootCmd := newRootCmd(reg)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return reg, out.String(), err
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func TestExecSuccess(t *testing.T) {
	dir := t.TempDir()

	_, out, err := runCLI(t, "exec", "--dir", dir, "--seq", "7", "--lanes", "4", "--label", "A", "--", "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	lines := readLines(t, filepath.Join(dir, "log_7.log"))
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[INFO] Logging started")
	assert.Contains(t, lines[1], "[INFO] Running echo hello")
	assert.Contains(t, lines[2], "[INFO] Solution A:\tElapsed time: ")
	assert.Contains(t, lines[2], "\tAvg Time [x4 lanes]: ")
}

func TestExecDefaultLabelWithoutLanes(t *testing.T) {
	dir := t.TempDir()

	reg, _, err := runCLI(t, "exec", "--dir", dir, "--name", "solver", "--", "true")
	require.NoError(t, err)

	h := reg.Get("solver")
	assert.Equal(t, filepath.Join(dir, "solver.log"), h.State().Path)

	lines := readLines(t, filepath.Join(dir, "solver.log"))
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "Solution true:\tElapsed time: ")
	assert.NotContains(t, lines[2], "Avg Time")
}

func TestExecExitStatus(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCLI(t, "exec", "--dir", dir, "--label", "B", "--", "sh", "-c", "exit 3")
	require.Error(t, err)

	var exitErr *exitStatusError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.code)

	lines := readLines(t, filepath.Join(dir, runlog.DefaultName+".log"))
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Solution B:")
	assert.Contains(t, lines[3], "[WARN] Command exited with status 3")
}

func TestExecErrors(t *testing.T) {
	t.Run("missing command", func(t *testing.T) {
		_, _, err := runCLI(t, "exec", "--dir", t.TempDir())
		assert.Error(t, err)
	})

	t.Run("unknown binary", func(t *testing.T) {
		_, _, err := runCLI(t, "exec", "--dir", t.TempDir(), "--", "runlog-test-no-such-binary")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to run runlog-test-no-such-binary")
	})

	t.Run("negative lanes", func(t *testing.T) {
		_, _, err := runCLI(t, "exec", "--dir", t.TempDir(), "--lanes", "-2", "--", "true")
		assert.ErrorIs(t, err, runlog.ErrNegativeLanes)
	})

	t.Run("sequence id with separator", func(t *testing.T) {
		_, _, err := runCLI(t, "exec", "--dir", t.TempDir(), "--seq", "a/b", "--", "true")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path separators")
	})
}

func TestBuildConfig(t *testing.T) {
	newCmd := func(t *testing.T, args ...string) (*cobra.Command, *execOptions) {
		t.Helper()
		opts := &execOptions{}
		cmd := &cobra.Command{Use: "exec"}
		bindExecFlags(cmd, opts)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd, opts
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := buildConfig(newCmd(t))
		require.NoError(t, err)
		assert.Equal(t, runlog.DefaultConfig(), cfg)
	})

	t.Run("auto sequence id", func(t *testing.T) {
		cfg, err := buildConfig(newCmd(t, "--seq", "auto", "--append", "--console"))
		require.NoError(t, err)
		assert.Len(t, cfg.SequenceID, 36)
		assert.False(t, cfg.Overwrite)
		assert.True(t, cfg.Console)
		assert.Equal(t, "./logs", cfg.Directory)
	})

	t.Run("config file with flag override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "runlog.toml")
		content := "[runlog]\ndirectory = \"/srv/from-file\"\nconsole = true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := buildConfig(newCmd(t, "--config", path, "--seq", "9"))
		require.NoError(t, err)
		assert.Equal(t, "/srv/from-file", cfg.Directory)
		assert.Equal(t, "9", cfg.SequenceID)
		assert.True(t, cfg.Console)

		cfg, err = buildConfig(newCmd(t, "--config", path, "--dir", "/srv/from-flag"))
		require.NoError(t, err)
		assert.Equal(t, "/srv/from-flag", cfg.Directory)
	})

	t.Run("missing config file", func(t *testing.T) {
		cfg, err := buildConfig(newCmd(t, "--config", filepath.Join(t.TempDir(), "absent.toml")))
		require.NoError(t, err)
		assert.Equal(t, runlog.DefaultConfig().Directory, cfg.Directory)
	})
}
