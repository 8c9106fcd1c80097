// FILE: logger.go
package runlog

import (
	"fmt"
	"sync"
	"time"
)

// Handle is a named logger owning its output sinks and a one-shot timer.
// Handles are obtained from a Registry and never forward records to a parent.
type Handle struct {
	name  string
	level int64
	now   func() time.Time

	mu         sync.Mutex
	sinks      []*sink
	cfg        *Config    // last applied configuration, nil before the first switch
	timerStart *time.Time // nil when no timer is running
}

// newHandle creates a handle with no sinks and the most verbose floor
func newHandle(name string, now func() time.Time) *Handle {
	if now == nil {
		now = time.Now
	}
	return &Handle{
		name:  name,
		level: LevelDebug,
		now:   now,
	}
}

// Name returns the handle name
func (h *Handle) Name() string {
	return h.name
}

// Level returns the handle severity floor
func (h *Handle) Level() int64 {
	return h.level
}

// GetConfig returns a copy of the last applied configuration, or nil if output
// was never switched
func (h *Handle) GetConfig() *Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg == nil {
		return nil
	}
	return h.cfg.Clone()
}

// Debug logs a message at debug level
func (h *Handle) Debug(args ...any) {
	h.log(LevelDebug, args...)
}

// Info logs a message at info level
func (h *Handle) Info(args ...any) {
	h.log(LevelInfo, args...)
}

// Warn logs a message at warning level
func (h *Handle) Warn(args ...any) {
	h.log(LevelWarn, args...)
}

// Error logs a message at error level
func (h *Handle) Error(args ...any) {
	h.log(LevelError, args...)
}

// Debugf logs a formatted message at debug level
func (h *Handle) Debugf(format string, args ...any) {
	h.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at info level
func (h *Handle) Infof(format string, args ...any) {
	h.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warning level
func (h *Handle) Warnf(format string, args ...any) {
	h.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level
func (h *Handle) Errorf(format string, args ...any) {
	h.log(LevelError, fmt.Sprintf(format, args...))
}

// Sync commits the current file sink contents to stable storage
func (h *Handle) Sync() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var finalErr error
	for _, s := range h.sinks {
		if err := s.sync(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	return finalErr
}

// Close detaches and closes every sink. The handle stays registered and can be
// switched to a new file afterwards.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.detachSinksLocked()
}
