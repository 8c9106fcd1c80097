// FILE: record.go
package runlog

import (
	"fmt"
	"strings"
	"time"
)

// logRecord represents a single log entry
type logRecord struct {
	TimeStamp time.Time
	Level     int64
	Args      []any
}

// log builds a record and writes it to all sinks
func (h *Handle) log(level int64, args ...any) {
	if level < h.level {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.writeLocked(logRecord{
		TimeStamp: h.now(),
		Level:     level,
		Args:      args,
	})
}

// writeLocked dispatches a record to every sink whose floor admits it, assumes mu is held
func (h *Handle) writeLocked(record logRecord) {
	for _, s := range h.sinks {
		if record.Level < s.level {
			continue
		}
		if err := s.write(record); err != nil {
			h.internalLog("failed to write to %s: %v\n", s, err)
		}
	}
}

// internalLog handles writing internal diagnostics to stderr, if enabled, assumes mu is held
func (h *Handle) internalLog(format string, args ...any) {
	if h.cfg == nil || !h.cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "runlog: ") {
		format = "runlog: " + format
	}

	fmt.Fprintf(stderrWriter, format, args...)
}
