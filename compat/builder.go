package compat

import (
	"fmt"

	"github.com/lixenwraith/runlog"
	"github.com/valyala/fasthttp"
)

// Builder creates gnet and fasthttp adapters over one runlog handle.
// It can use an existing handle or switch a registry handle to a *runlog.Config.
type Builder struct {
	handle   *runlog.Handle
	cfg      *runlog.Config
	name     string
	registry *runlog.Registry
	err      error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{name: runlog.DefaultName}
}

// WithHandle specifies an existing handle to use for the adapters.
// If this is set WithConfig, WithName and WithRegistry are ignored.
func (b *Builder) WithHandle(h *runlog.Handle) *Builder {
	if h == nil {
		b.err = fmt.Errorf("runlog/compat: provided handle cannot be nil")
		return b
	}
	b.handle = h
	return b
}

// WithConfig provides the configuration applied to the registry handle.
// Without it the handle is switched using runlog.DefaultConfig.
func (b *Builder) WithConfig(cfg *runlog.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithName selects the registry handle name
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithRegistry selects the registry the handle is taken from, the process-wide one by default
func (b *Builder) WithRegistry(r *runlog.Registry) *Builder {
	b.registry = r
	return b
}

// getHandle resolves the handle to be used, switching its output if necessary
func (b *Builder) getHandle() (*runlog.Handle, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.handle != nil {
		return b.handle, nil
	}

	reg := b.registry
	if reg == nil {
		reg = runlog.Default()
	}
	h := reg.Get(b.name)

	cfg := b.cfg
	if cfg == nil {
		cfg = runlog.DefaultConfig()
	}
	if err := h.ApplyConfig(cfg); err != nil {
		return nil, err
	}

	// Later builds reuse the switched handle
	b.handle = h
	return h, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	h, err := b.getHandle()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(h, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	h, err := b.getHandle()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(h, opts...), nil
}

// BuildTimedHandler wraps next with per-request timing lines
func (b *Builder) BuildTimedHandler(next fasthttp.RequestHandler) (fasthttp.RequestHandler, error) {
	if next == nil {
		return nil, fmt.Errorf("runlog/compat: request handler cannot be nil")
	}
	h, err := b.getHandle()
	if err != nil {
		return nil, err
	}
	return TimedHandler(h, next), nil
}

// GetHandle returns the underlying handle, switching it on first use
func (b *Builder) GetHandle() (*runlog.Handle, error) {
	return b.getHandle()
}

// --- Example Usage ---
//
//	builder := compat.NewBuilder().
//		WithName("edge").
//		WithConfig(&runlog.Config{Directory: "/var/log/edge", ...})
//
//	gnetLogger, err := builder.BuildGnet()
//	if err != nil { /* handle error */ }
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, err := builder.BuildFastHTTP()
//	if err != nil { /* handle error */ }
//	handler, err := builder.BuildTimedHandler(requestHandler)
//	if err != nil { /* handle error */ }
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
