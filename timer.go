// FILE: timer.go
package runlog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTimerNotStarted is returned by StopTimer without a preceding StartTimer
	ErrTimerNotStarted = errors.New("runlog: timer was not started, call StartTimer first")
	// ErrNegativeLanes is returned by StopTimer for a lane count below zero
	ErrNegativeLanes = errors.New("runlog: lane count cannot be negative")
)

// StartTimer records the current time, replacing any unstopped start
func (h *Handle) StartTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := h.now()
	h.timerStart = &start
}

// StopTimer stops the timer and logs one INFO line for the solution:
//
//	Solution <solution>:\tElapsed time: H:MM:SS.hh[\tAvg Time [x<lanes> lanes]: H:MM:SS.hh]
//
// With perLane set and lanes == 0 the average is replaced by "All files already processed.".
// The returned value is the raw elapsed time in seconds, before any rounding.
// On error nothing is logged and the timer is left as it was.
func (h *Handle) StopTimer(solution any, lanes int, perLane bool) (float64, error) {
	if lanes < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeLanes, lanes)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timerStart == nil {
		return 0, fmt.Errorf("%w (handle '%s')", ErrTimerNotStarted, h.name)
	}

	stop := h.now()
	elapsed := stop.Sub(*h.timerStart)
	h.timerStart = nil

	h.writeLocked(logRecord{
		TimeStamp: stop,
		Level:     LevelInfo,
		Args:      []any{ElapsedMessage(solution, elapsed, lanes, perLane)},
	})

	return elapsed.Seconds(), nil
}

// LogElapsed logs a solution timing line for a duration measured elsewhere.
// It does not touch the handle's timer.
func (h *Handle) LogElapsed(solution any, elapsed time.Duration, lanes int, perLane bool) {
	if lanes < 0 {
		lanes = 0
	}
	h.log(LevelInfo, ElapsedMessage(solution, elapsed, lanes, perLane))
}

// ElapsedMessage composes the timing line logged by StopTimer
func ElapsedMessage(solution any, elapsed time.Duration, lanes int, perLane bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Solution %v:\tElapsed time: %s", solution, FormatElapsed(RoundElapsed(elapsed)))

	if perLane {
		if lanes > 0 {
			fmt.Fprintf(&sb, "\tAvg Time [x%d lanes]: %s", lanes, FormatElapsed(PerLane(elapsed, lanes)))
		} else {
			sb.WriteByte('\t')
			sb.WriteString(msgAllProcessed)
		}
	}

	return sb.String()
}

// floorElapsed raises anything shorter than one hundredth to one hundredth
func floorElapsed(d time.Duration) time.Duration {
	if d < timerResolution {
		return timerResolution
	}
	return d
}

// RoundElapsed floors d at 0.01s and rounds it up to the next 0.01s boundary.
// Exact multiples of 0.01s are returned unchanged.
func RoundElapsed(d time.Duration) time.Duration {
	return ceilResolution(floorElapsed(d))
}

// PerLane divides the floored elapsed time by lanes and rounds the share up to 0.01s.
// It returns 0 for lanes <= 0.
func PerLane(d time.Duration, lanes int) time.Duration {
	if lanes <= 0 {
		return 0
	}
	// Divide first, lanes * resolution overflows for large lane counts
	n := time.Duration(lanes)
	d = floorElapsed(d)
	share := d / n
	if d%n != 0 {
		share++
	}
	return ceilResolution(share)
}

// ceilResolution rounds a positive d up to the next multiple of timerResolution
func ceilResolution(d time.Duration) time.Duration {
	hundredths := d / timerResolution
	if d%timerResolution != 0 {
		hundredths++
	}
	return hundredths * timerResolution
}

// FormatElapsed renders d as H:MM:SS.hh with unpadded hours.
// Sub-hundredth remainders are truncated.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hundredths := int64(d / timerResolution)
	hours := hundredths / 360000
	minutes := (hundredths / 6000) % 60
	seconds := (hundredths / 100) % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, hundredths%100)
}
