package registry

import (
	"strings"
	"sync"

	"github.com/vfsbridge/vfsbridge/pkg/errno"
)

// Entry is one registered mount. Instance is opaque to the registry
// (concretely a *mountctl.Controller), kept as any so this package does
// not import the mount controller and create an import cycle.
type Entry struct {
	MountPoint string
	Instance   any
}

// Registry is the mutex-guarded map from mount-point path to mount
// instance. All operations are serialized by a single mutex; none block
// on I/O.
//
// In practice only one mount instance is expected to be active per
// process, and callers (the mount controller, the public surface) are
// free to rely on that in diagnostics. LookupForPath still performs a
// real longest-prefix match across every registered entry rather than
// blindly returning "the" active entry, so registering more than one
// mount point remains safe if a future caller needs it.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds instance under mountPoint. It fails with EBUSY if the
// mount point is already registered.
func (r *Registry) Register(mountPoint string, instance any) error {
	mountPoint = clean(mountPoint)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[mountPoint]; exists {
		return errno.Error(errno.EBUSY)
	}
	r.entries[mountPoint] = &Entry{MountPoint: mountPoint, Instance: instance}
	return nil
}

// Unregister removes mountPoint. It is idempotent: removing an absent
// mount point is not an error.
func (r *Registry) Unregister(mountPoint string) {
	mountPoint = clean(mountPoint)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, mountPoint)
}

// LookupForPath returns the mount instance whose mount point is the
// longest prefix of path among all registered entries, breaking ties by
// prefix length. It returns false if no registered mount point prefixes
// path.
func (r *Registry) LookupForPath(path string) (any, bool) {
	path = clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Entry
	for _, e := range r.entries {
		if !isPrefix(e.MountPoint, path) {
			continue
		}
		if best == nil || len(e.MountPoint) > len(best.MountPoint) {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return best.Instance, true
}

// Active returns the mount points currently registered, for diagnostics
// and tests. The order is unspecified.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.entries))
	for mp := range r.entries {
		out = append(out, mp)
	}
	return out
}

func isPrefix(mountPoint, path string) bool {
	if mountPoint == "/" {
		return true
	}
	if path == mountPoint {
		return true
	}
	return strings.HasPrefix(path, mountPoint+"/")
}

func clean(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return strings.TrimRight(p, "/")
	}
	return p
}
