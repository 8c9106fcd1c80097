// FILE: lixenwraith/runlog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/runlog"
	"github.com/valyala/fasthttp"
)

const fasthttpTag = "[fasthttp]"

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps a runlog.Handle to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	handle        *runlog.Handle
	defaultLevel  int64
	levelDetector func(string) int64 // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(h *runlog.Handle, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		handle:        h,
		defaultLevel:  runlog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the default log level for Printf calls
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content.
// A detector returning LevelInfo defers to the default level.
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != runlog.LevelInfo {
			level = detected
		}
	}

	switch level {
	case runlog.LevelDebug:
		a.handle.Debug(fasthttpTag, msg)
	case runlog.LevelWarn:
		a.handle.Warn(fasthttpTag, msg)
	case runlog.LevelError:
		a.handle.Error(fasthttpTag, msg)
	default:
		a.handle.Info(fasthttpTag, msg)
	}
}

// DetectLogLevel attempts to detect log level from message content
func DetectLogLevel(msg string) int64 {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return runlog.LevelError
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return runlog.LevelWarn
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return runlog.LevelDebug
	}

	return runlog.LevelInfo
}

// TimedHandler wraps next and logs one timing line per request, labelled
// "<METHOD> <path>", using the handle's elapsed-time format.
func TimedHandler(h *runlog.Handle, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		label := fmt.Sprintf("%s %s", ctx.Method(), ctx.Path())
		h.LogElapsed(label, time.Since(start), 0, false)
	}
}
