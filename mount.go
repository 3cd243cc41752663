package vfsbridge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vfsbridge/vfsbridge/internal/mountctl"
	"github.com/vfsbridge/vfsbridge/internal/registry"
	"github.com/vfsbridge/vfsbridge/pkg/config"
)

var defaultRegistry = registry.New()

// Mount binds a handler to a mount point. The constructor only records
// configuration; it does not touch the kernel until Mount is called.
type Mount struct {
	controller *mountctl.Controller
}

// Option customizes a Mount beyond the narrow constructor signature:
// cache timeouts, kernel-visible mount options, and an optional
// Prometheus registry to fold this mount's collectors into.
type Option func(*mountOptions)

type mountOptions struct {
	cfg             *config.Config
	metricsRegistry *prometheus.Registry
}

// WithFSName sets the filesystem name the kernel reports for this
// mount (visible in mount(8) output).
func WithFSName(name string) Option {
	return func(o *mountOptions) { o.cfg.Mount.FSName = name }
}

// WithSubtype sets the FUSE subtype string.
func WithSubtype(subtype string) Option {
	return func(o *mountOptions) { o.cfg.Mount.Subtype = subtype }
}

// WithAllowOther permits users other than the mount owner to access
// the filesystem (requires user_allow_other in /etc/fuse.conf).
func WithAllowOther(allow bool) Option {
	return func(o *mountOptions) { o.cfg.Mount.AllowOther = allow }
}

// WithDebug turns on go-fuse's own request/response tracing.
func WithDebug(debug bool) Option {
	return func(o *mountOptions) { o.cfg.Mount.Debug = debug }
}

// WithCacheTimeouts sets how long the kernel may cache directory
// entries and attributes before re-asking the handler.
func WithCacheTimeouts(entry, attr time.Duration) Option {
	return func(o *mountOptions) {
		o.cfg.Mount.EntryTimeout = entry
		o.cfg.Mount.AttrTimeout = attr
	}
}

// WithMetrics enables Prometheus metrics for this mount. If reg is
// non-nil, the mount's collectors register into it instead of a
// private registry, so an embedding program can serve them alongside
// its own on a single /metrics endpoint.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(o *mountOptions) {
		o.cfg.Metrics.Enabled = true
		o.metricsRegistry = reg
	}
}

// WithMetricsNamespace sets the Prometheus namespace/subsystem prefix
// for this mount's metrics. Has no effect unless WithMetrics is also
// supplied.
func WithMetricsNamespace(namespace, subsystem string) Option {
	return func(o *mountOptions) {
		o.cfg.Metrics.Namespace = namespace
		o.cfg.Metrics.Subsystem = subsystem
	}
}

// WithCachedReads is a reserved extension point: direct_io is forced on
// every read regardless of this option today, since the bridge cannot
// assume a handler's content is stable across getattr and read. It is
// accepted now so a future bridge release can honor it without breaking
// callers who already pass it.
func WithCachedReads(bool) Option {
	return func(*mountOptions) {}
}

// NewMount constructs a Mount for handler at mountPoint. It only
// records configuration; no kernel interaction happens until Mount is
// called.
func NewMount(mountPoint string, handler any, opts ...Option) *Mount {
	cfg := config.Default()
	cfg.MountPoint = mountPoint

	o := &mountOptions{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}

	return &Mount{controller: mountctl.New(cfg, handler, defaultRegistry, o.metricsRegistry)}
}

// Mount starts the FUSE session on a dedicated OS thread and returns
// immediately. onReady is called exactly once with the outcome, once
// the kernel has acknowledged the mount or the attempt has failed.
func (m *Mount) Mount(onReady func(error)) {
	m.controller.Mount(onReady)
}

// Unmount first tears down the handler environment, failing any request
// still waiting on the handler with EIO, then asks the kernel to unmount
// and waits for the FUSE loop to return. Calling Unmount on a
// mount that was never mounted, or was already unmounted, returns an
// error without side effects.
func (m *Mount) Unmount() error {
	return m.controller.Unmount()
}

// IsMounted reports whether this mount is currently live and serving.
func (m *Mount) IsMounted() bool {
	return m.controller.IsMounted()
}

// Crashed reports whether the mount is in the failed state: either the
// Mount attempt itself failed, or the FUSE session ended on its own (the
// kernel closing /dev/fuse, or the mount point being forcibly unmounted
// underneath the process) rather than through a call to Unmount.
func (m *Mount) Crashed() (bool, error) {
	return m.controller.Crashed()
}

// MountPoint returns the path this Mount is bound to.
func (m *Mount) MountPoint() string {
	return m.controller.MountPoint()
}
