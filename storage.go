// FILE: storage.go
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lixenwraith/runlog/formatter"
	"github.com/lixenwraith/runlog/sanitizer"
)

// Console writers, replaceable in tests
var (
	stdoutWriter io.Writer = os.Stdout
	stderrWriter io.Writer = os.Stderr
)

// sink is a single output destination with its own floor and formatter
type sink struct {
	level     int64
	w         io.Writer
	file      *os.File // nil for console sinks
	path      string
	formatter *formatter.Formatter
}

// String describes the sink for diagnostics
func (s *sink) String() string {
	if s.file != nil {
		return fmt.Sprintf("file sink '%s'", s.path)
	}
	return "console sink"
}

// write formats and writes one record
func (s *sink) write(record logRecord) error {
	data := s.formatter.Format(record.TimeStamp, record.Level, record.Args)
	_, err := s.w.Write(data)
	return err
}

// sync flushes file sinks to disk, console sinks are left alone
func (s *sink) sync() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", s.path, err)
	}
	return nil
}

// close releases the underlying file descriptor
func (s *sink) close() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.Close(); err != nil {
		return fmtErrorf("failed to close log file '%s': %w", s.path, err)
	}
	return nil
}

// newFormatter creates the line formatter shared by both sink kinds
func newFormatter(cfg *Config) *formatter.Formatter {
	san := sanitizer.New().Policy(sanitizer.PolicyPreset(cfg.LinePolicy))
	return formatter.New(san).TimestampFormat(cfg.TimestampFormat)
}

// newFileSink wraps an opened log file
func newFileSink(file *os.File, path string, cfg *Config) *sink {
	return &sink{
		level:     fileSinkLevel,
		w:         file,
		file:      file,
		path:      path,
		formatter: newFormatter(cfg),
	}
}

// newConsoleSink creates the console mirror for the configured target
func newConsoleSink(cfg *Config) *sink {
	w := stderrWriter
	if cfg.ConsoleTarget == ConsoleStdout {
		w = stdoutWriter
	}
	return &sink{
		level:     consoleSinkLevel,
		w:         w,
		formatter: newFormatter(cfg),
	}
}

// SwitchOutput points the handle at a new log file in dir.
// By default the file is <name>.log, truncated, with no console mirror.
func (h *Handle) SwitchOutput(dir string, opts ...OutputOption) error {
	cfg := DefaultConfig()
	cfg.Directory = dir
	for _, opt := range opts {
		opt(cfg)
	}
	return h.ApplyConfig(cfg)
}

// ApplyConfig detaches the current sinks, opens the configured log file and
// resets the timer. The first line written is "Logging started".
func (h *Handle) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return err
	}
	cfg = cfg.Clone()

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(cfg.Directory, dirPermissions); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
	}

	// Close failures do not block the switch
	if err := h.detachSinksLocked(); err != nil {
		h.internalLog("warning - %v\n", err)
	}

	path := h.logFilePath(cfg)
	file, err := openLogFile(path, cfg.Overwrite)
	if err != nil {
		return err
	}

	h.sinks = append(h.sinks, newFileSink(file, path, cfg))
	if cfg.Console {
		h.sinks = append(h.sinks, newConsoleSink(cfg))
	}
	h.cfg = cfg

	h.timerStart = nil

	h.writeLocked(logRecord{
		TimeStamp: h.now(),
		Level:     LevelInfo,
		Args:      []any{msgLoggingStarted},
	})

	return nil
}

// detachSinksLocked removes and closes every sink, assumes mu is held
func (h *Handle) detachSinksLocked() error {
	var finalErr error
	for _, s := range h.sinks {
		if err := s.close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	h.sinks = nil
	return finalErr
}

// logFilePath returns log_<seq>.log when a sequence id is set, otherwise <name>.log
func (h *Handle) logFilePath(cfg *Config) string {
	var filename string
	if cfg.SequenceID != "" {
		filename = sequencePrefix + cfg.SequenceID + "." + logExtension
	} else {
		filename = h.name + "." + logExtension
	}
	return filepath.Join(cfg.Directory, filename)
}

// openLogFile opens path for writing, truncating or appending
func openLogFile(path string, overwrite bool) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	file, err := os.OpenFile(path, flags, filePermissions)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	return file, nil
}

// OutputOption adjusts the configuration built by SwitchOutput
type OutputOption func(*Config)

// WithSequenceID names the file log_<id>.log; a nil id keeps the handle name
func WithSequenceID(id any) OutputOption {
	return func(c *Config) {
		if id == nil {
			c.SequenceID = ""
			return
		}
		c.SequenceID = fmt.Sprint(id)
	}
}

// WithOverwrite selects truncate (true) or append (false) mode
func WithOverwrite(overwrite bool) OutputOption {
	return func(c *Config) {
		c.Overwrite = overwrite
	}
}

// WithConsole mirrors INFO and above to the console
func WithConsole(enabled bool) OutputOption {
	return func(c *Config) {
		c.Console = enabled
	}
}

// WithConsoleTarget selects "stdout" or "stderr" for the console mirror
func WithConsoleTarget(target string) OutputOption {
	return func(c *Config) {
		c.ConsoleTarget = target
	}
}

// WithTimestampFormat sets the time layout of both sinks
func WithTimestampFormat(layout string) OutputOption {
	return func(c *Config) {
		c.TimestampFormat = layout
	}
}

// WithLinePolicy selects how non-printable characters in messages are written
func WithLinePolicy(policy string) OutputOption {
	return func(c *Config) {
		c.LinePolicy = policy
	}
}

// WithInternalErrors writes sink failures to stderr
func WithInternalErrors(enabled bool) OutputOption {
	return func(c *Config) {
		c.InternalErrorsToStderr = enabled
	}
}
