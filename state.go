// FILE: state.go
package runlog

import (
	"time"
)

// State is a point-in-time snapshot of a handle
type State struct {
	Name         string
	Path         string // Current log file, empty when no file sink is attached
	FileSinks    int
	ConsoleSinks int
	TimerRunning bool
	TimerStart   time.Time // Zero when no timer is running
}

// State returns a snapshot of the handle's sinks and timer
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := State{Name: h.name}
	for _, s := range h.sinks {
		if s.file != nil {
			st.FileSinks++
			st.Path = s.path
		} else {
			st.ConsoleSinks++
		}
	}
	if h.timerStart != nil {
		st.TimerRunning = true
		st.TimerStart = *h.timerStart
	}
	return st
}
