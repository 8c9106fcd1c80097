package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/runlog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

const gnetTag = "[gnet]"

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps a runlog.Handle to implement the gnet logging.Logger interface
type GnetAdapter struct {
	handle       *runlog.Handle
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(h *runlog.Handle, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		handle: h,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.handle.Debug(gnetTag, fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.handle.Info(gnetTag, fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.handle.Warn(gnetTag, fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.handle.Error(gnetTag, fmt.Sprintf(format, args...))
}

// Fatalf logs at error level, syncs the log file and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.handle.Error(gnetTag, "fatal:", msg)

	// The file must be on disk before the process goes away
	_ = a.handle.Sync()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
