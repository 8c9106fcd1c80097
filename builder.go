// FILE: builder.go
package runlog

import "fmt"

// Builder provides a fluent API for obtaining a handle with its output switched.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg      *Config
	name     string
	registry *Registry
	err      error // Accumulate errors for deferred handling
}

// NewBuilder creates a new builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg:  DefaultConfig(),
		name: DefaultName,
	}
}

// Build gets the named handle from the registry and applies the configuration.
// Without Registry the process-wide registry is used.
func (b *Builder) Build() (*Handle, error) {
	if b.err != nil {
		return nil, b.err
	}

	reg := b.registry
	if reg == nil {
		reg = defaultRegistry
	}

	h := reg.Get(b.name)

	// ApplyConfig handles validation, directory creation and the file switch.
	if err := h.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return h, nil
}

// Config returns a validated copy of the built configuration.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Name sets the handle name.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Registry sets the registry the handle is taken from.
func (b *Builder) Registry(r *Registry) *Builder {
	if r == nil && b.err == nil {
		b.err = fmtErrorf("registry cannot be nil")
		return b
	}
	b.registry = r
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// SequenceID names the log file log_<id>.log.
func (b *Builder) SequenceID(id any) *Builder {
	if id == nil {
		b.cfg.SequenceID = ""
		return b
	}
	b.cfg.SequenceID = fmt.Sprint(id)
	return b
}

// Overwrite selects truncate (true) or append (false) mode.
func (b *Builder) Overwrite(overwrite bool) *Builder {
	b.cfg.Overwrite = overwrite
	return b
}

// Append is shorthand for Overwrite(false).
func (b *Builder) Append() *Builder {
	return b.Overwrite(false)
}

// Console enables mirroring INFO and above to the console.
func (b *Builder) Console(enable bool) *Builder {
	b.cfg.Console = enable
	return b
}

// ConsoleTarget sets the console stream, "stdout" or "stderr".
func (b *Builder) ConsoleTarget(target string) *Builder {
	if b.err != nil {
		return b
	}
	if target != ConsoleStdout && target != ConsoleStderr {
		b.err = fmtErrorf("invalid console target: '%s' (use stdout or stderr)", target)
		return b
	}
	b.cfg.ConsoleTarget = target
	return b
}

// TimestampFormat sets the time layout of the log lines.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// LinePolicy selects the sanitizing policy of message text
func (b *Builder) LinePolicy(policy string) *Builder {
	b.cfg.LinePolicy = policy
	return b
}

// InternalErrorsToStderr reports sink failures on stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// h, err := runlog.NewBuilder().
//
//	Name("projection").
//	Directory("/var/log/lanes").
//	SequenceID(7).
//	Console(true).
//	Build()
//
// if err == nil {
//
//	 defer h.Close()
//	 h.StartTimer()
//
// }
