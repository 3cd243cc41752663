package mountctl

import (
	"errors"
	"os"
	"runtime"
	"sync"

	gofs "github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/vfsbridge/vfsbridge/internal/bridge"
	"github.com/vfsbridge/vfsbridge/internal/dispatcher"
	"github.com/vfsbridge/vfsbridge/internal/metrics"
	"github.com/vfsbridge/vfsbridge/internal/registry"
	"github.com/vfsbridge/vfsbridge/pkg/config"
	"github.com/vfsbridge/vfsbridge/pkg/vfserr"
)

// State is a position in the mount lifecycle.
type State int

const (
	StateCreated State = iota
	StateMounting
	StateMounted
	StateUnmounting
	StateDestroyed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateMounting:
		return "mounting"
	case StateMounted:
		return "mounted"
	case StateUnmounting:
		return "unmounting"
	case StateDestroyed:
		return "destroyed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const component = "mountctl"

// Controller owns the lifecycle of one mount: validating the mount
// point, starting go-fuse's server loop on its own OS thread, and
// tearing everything down in order on unmount.
type Controller struct {
	cfg      *config.Config
	fsys     *bridge.FS
	registry *registry.Registry

	mu       sync.Mutex
	state    State
	server   *gofuse.Server
	crashErr error
}

// New builds a controller for handler, bound to cfg.MountPoint. It does
// not touch the filesystem or the kernel until Mount is called.
//
// metricsRegistry is optional; if non-nil, the controller's metrics
// collectors register into it instead of a private registry.
func New(cfg *config.Config, handler any, reg *registry.Registry, metricsRegistry *prometheus.Registry) *Controller {
	fsys := &bridge.FS{
		Dispatcher: dispatcher.New(),
		Handler:    handler,
		Metrics: metrics.New(metrics.Config{
			Enabled:   cfg.Metrics.Enabled,
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, metricsRegistry),
		EntryTimeout: cfg.Mount.EntryTimeout,
		AttrTimeout:  cfg.Mount.AttrTimeout,
	}
	return &Controller{cfg: cfg, fsys: fsys, registry: reg, state: StateCreated}
}

// MountPoint returns the path this controller mounts (or will mount).
func (c *Controller) MountPoint() string {
	return c.cfg.MountPoint
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsMounted reports whether the mount is currently live and serving.
func (c *Controller) IsMounted() bool {
	return c.State() == StateMounted
}

// Crashed reports whether the mount ended up in the failed state (the
// kernel session died, or go-fuse's own Mount call errored), along with
// the error that caused it.
func (c *Controller) Crashed() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateFailed, c.crashErr
}

// Mount validates the mount point (creating it if it does not exist),
// registers the controller, and starts go-fuse's server loop on a
// dedicated OS thread. It returns immediately; onReady is called
// exactly once, with the outcome, once the kernel has acknowledged the
// mount or the attempt has failed outright.
func (c *Controller) Mount(onReady func(error)) {
	c.mu.Lock()
	if c.state != StateCreated {
		state := c.state
		c.mu.Unlock()
		onReady(vfserr.New(vfserr.CodeAlreadyMounted, vfserr.CategoryState, component, "Mount",
			errors.New("controller is "+state.String())))
		return
	}
	c.state = StateMounting
	c.mu.Unlock()

	if err := ensureMountPoint(c.cfg.MountPoint); err != nil {
		onReady(c.fail(vfserr.New(vfserr.CodeInvalidMountPoint, vfserr.CategoryMountPoint, component, "Mount", err)))
		return
	}

	if err := c.registry.Register(c.cfg.MountPoint, c); err != nil {
		onReady(c.fail(vfserr.New(vfserr.CodeMountPointBusy, vfserr.CategoryMountPoint, component, "Mount", err)))
		return
	}

	opts := c.buildOptions()
	ready := make(chan error, 1)
	go c.serve(opts, ready)

	go func() {
		if err := <-ready; err != nil {
			c.registry.Unregister(c.cfg.MountPoint)
			onReady(c.fail(vfserr.New(vfserr.CodeSessionFailed, vfserr.CategorySession, component, "Mount", err)))
			return
		}

		c.mu.Lock()
		c.state = StateMounted
		c.mu.Unlock()
		onReady(nil)
	}()
}

func (c *Controller) fail(err *vfserr.Error) error {
	c.mu.Lock()
	c.state = StateFailed
	c.crashErr = err
	c.mu.Unlock()
	return err
}

func (c *Controller) buildOptions() *gofs.Options {
	opts := &gofs.Options{
		MountOptions: gofuse.MountOptions{
			Name:           c.cfg.Mount.FSName,
			FsName:         c.cfg.Mount.FSName,
			DirectMount:    true,
			Debug:          c.cfg.Mount.Debug,
			AllowOther:     c.cfg.Mount.AllowOther,
			MaxWrite:       c.cfg.Mount.MaxWrite,
			SingleThreaded: true,
		},
		AttrTimeout:  &c.cfg.Mount.AttrTimeout,
		EntryTimeout: &c.cfg.Mount.EntryTimeout,
	}
	if c.cfg.Mount.Subtype != "" {
		opts.Options = append(opts.Options, "subtype="+c.cfg.Mount.Subtype)
	}
	return opts
}

// serve runs go-fuse's server loop. It locks the calling goroutine to
// its OS thread for the lifetime of the session, the literal reading
// of "a dedicated OS thread owns the FUSE session".
func (c *Controller) serve(opts *gofs.Options, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	server, err := gofs.Mount(c.cfg.MountPoint, c.fsys.Root(), opts)
	if err != nil {
		ready <- err
		return
	}

	c.mu.Lock()
	c.server = server
	c.mu.Unlock()
	ready <- nil

	server.Wait()

	c.mu.Lock()
	unmounting := c.state == StateUnmounting || c.state == StateDestroyed
	if !unmounting {
		c.state = StateFailed
		c.crashErr = errors.New("mountctl: fuse session ended without an Unmount call")
	}
	c.mu.Unlock()
}

// Unmount tears the mount down in order: close the dispatcher first, so
// any adapter still blocked waiting on a handler that never calls its
// continuation gets forced to -EIO and returns control to its FUSE
// worker thread, then ask the kernel to unmount and wait for the server
// loop to return, then drop the registry entry. Closing the dispatcher
// first matters: the kernel cannot finish an unmount while a worker
// thread is still sitting on an unanswered request, so a handler that
// hangs forever would otherwise wedge Unmount itself.
func (c *Controller) Unmount() error {
	c.mu.Lock()
	if c.state != StateMounted {
		state := c.state
		c.mu.Unlock()
		return vfserr.New(vfserr.CodeNotMounted, vfserr.CategoryState, component, "Unmount",
			errors.New("controller is "+state.String()))
	}
	c.state = StateUnmounting
	server := c.server
	c.mu.Unlock()

	c.fsys.Dispatcher.Close()

	var errs error
	if server != nil {
		if err := server.Unmount(); err != nil {
			errs = multierr.Append(errs, vfserr.New(vfserr.CodeUnmountFailed, vfserr.CategorySession, component, "Unmount", err))
		} else {
			server.Wait()
		}
	}

	c.registry.Unregister(c.cfg.MountPoint)

	c.mu.Lock()
	c.state = StateDestroyed
	c.mu.Unlock()

	return errs
}

// ensureMountPoint makes sure path exists and is a directory, creating
// it (and any missing parents) if it is simply absent.
func ensureMountPoint(path string) error {
	if path == "" {
		return errors.New("mount point cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("mount point is not a directory: " + path)
	}
	return nil
}
