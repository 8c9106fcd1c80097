// FILE: override.go
package runlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides on top of the handle's last
// configuration (or the defaults) and switches output with the result.
// Each override should be in the format "key=value".
//
// Example:
//
//	h := registry.Get("lanes")
//	err := h.ApplyOverride(
//	    "directory=/var/log/lanes",
//	    "sequence_id=7",
//	    "console=true",
//	)
func (h *Handle) ApplyOverride(overrides ...string) error {
	cfg := h.GetConfig()
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	return h.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("runlog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "runlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Target file
	case "directory":
		cfg.Directory = value
	case "sequence_id":
		cfg.SequenceID = value
	case "overwrite":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for overwrite '%s': %w", value, err)
		}
		cfg.Overwrite = boolVal

	// Console
	case "console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for console '%s': %w", value, err)
		}
		cfg.Console = boolVal
	case "console_target":
		cfg.ConsoleTarget = value

	// Formatting
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "line_policy":
		cfg.LinePolicy = value

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
