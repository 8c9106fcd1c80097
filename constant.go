// FILE: constant.go
package runlog

import (
	"time"

	"github.com/lixenwraith/runlog/formatter"
)

// Log level constants
const (
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
)

// DefaultName is the handle name used when none is given
const DefaultName = "debug_logger"

// Sink floors
const (
	fileSinkLevel    = LevelDebug
	consoleSinkLevel = LevelInfo
)

// Files
const (
	logExtension     = "log"
	sequencePrefix   = "log_"
	dirPermissions   = 0755
	filePermissions  = 0644
	timestampDefault = formatter.DefaultTimestampFormat
)

// Console targets
const (
	ConsoleStdout = "stdout"
	ConsoleStderr = "stderr"
)

// Timer
const (
	// Elapsed times are floored to and reported in hundredths of a second
	timerResolution = 10 * time.Millisecond
)

// Messages
const (
	msgLoggingStarted = "Logging started"
	msgAllProcessed   = "All files already processed."
)
