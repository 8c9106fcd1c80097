package runlog

// Global registry for package-level functions
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// GetLogger returns the handle for name from the process-wide registry.
// An empty name resolves to DefaultName.
func GetLogger(name string) *Handle {
	return defaultRegistry.Get(name)
}
