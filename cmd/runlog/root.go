package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lixenwraith/runlog"
	"github.com/spf13/cobra"
)

// seqAuto asks for a generated sequence id
const seqAuto = "auto"

// exitStatusError carries the exit status of the timed command
type exitStatusError struct {
	code int
}

func (e *exitStatusError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.code)
}

// execOptions holds the flag values of the exec command
type execOptions struct {
	configPath string
	dir        string
	name       string
	seq        string
	appendMode bool
	console    bool
	lanes      int
	label      string
}

// newRootCmd builds the command tree; handles are taken from reg
func newRootCmd(reg *runlog.Registry) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "runlog",
		Short: "Time commands into per-run log files",
		Long: `runlog switches a named log handle to a run log file, runs a command
and records its elapsed time in the H:MM:SS.hh format.

Examples:
  runlog exec --dir ./logs --seq 7 -- ./solve input.csv
  runlog exec --seq auto --lanes 12 --label B -- make simulate`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.AddCommand(execCmd(reg))
	return rootCmd
}

// execCmd creates the exec command
func execCmd(reg *runlog.Registry) *cobra.Command {
	opts := &execOptions{}

	cmd := &cobra.Command{
		Use:   "exec [flags] -- command [args...]",
		Short: "Run a command and log its elapsed time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, reg, opts, args)
		},
	}

	bindExecFlags(cmd, opts)

	return cmd
}

// bindExecFlags registers the exec flags on cmd, storing values in opts
func bindExecFlags(cmd *cobra.Command, opts *execOptions) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "TOML file with a [runlog] table")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "./logs", "Log directory, created if absent")
	cmd.Flags().StringVarP(&opts.name, "name", "n", runlog.DefaultName, "Handle name, also the file name without a sequence id")
	cmd.Flags().StringVarP(&opts.seq, "seq", "s", "", "Sequence id naming the file log_<seq>.log, 'auto' generates one")
	cmd.Flags().BoolVarP(&opts.appendMode, "append", "a", false, "Append to the log file instead of truncating it")
	cmd.Flags().BoolVar(&opts.console, "console", false, "Mirror INFO and above to stderr")
	cmd.Flags().IntVarP(&opts.lanes, "lanes", "l", 0, "Lane count for the per-lane average")
	cmd.Flags().StringVar(&opts.label, "label", "", "Solution label of the timing line (default: command name)")
}

// buildConfig merges the config file with the flags given on the command line
func buildConfig(cmd *cobra.Command, opts *execOptions) (*runlog.Config, error) {
	cfg := runlog.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := runlog.NewConfigFromFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dir") || opts.configPath == "" {
		cfg.Directory = opts.dir
	}
	if flags.Changed("seq") {
		seq := opts.seq
		if seq == seqAuto {
			seq = uuid.NewString()
		}
		cfg.SequenceID = seq
	}
	if flags.Changed("append") {
		cfg.Overwrite = !opts.appendMode
	}
	if flags.Changed("console") {
		cfg.Console = opts.console
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runExec switches the handle, runs the command under the timer and
// propagates its exit status
func runExec(cmd *cobra.Command, reg *runlog.Registry, opts *execOptions, args []string) error {
	if opts.lanes < 0 {
		return runlog.ErrNegativeLanes
	}

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	h := reg.Get(opts.name)
	if err := h.ApplyConfig(cfg); err != nil {
		return err
	}

	label := opts.label
	if label == "" {
		label = filepath.Base(args[0])
	}

	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = cmd.OutOrStdout()
	child.Stderr = cmd.ErrOrStderr()

	h.Info("Running", strings.Join(args, " "))
	h.StartTimer()
	runErr := child.Run()
	if _, err := h.StopTimer(label, opts.lanes, cmd.Flags().Changed("lanes")); err != nil {
		return err
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = 1 // Terminated by a signal
			}
			h.Warn("Command exited with status", code)
			return &exitStatusError{code: code}
		}
		h.Error("Command failed:", runErr)
		return fmt.Errorf("failed to run %s: %w", args[0], runErr)
	}

	return h.Sync()
}
