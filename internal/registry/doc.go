// Package registry implements the process-wide table of mounted
// instances, keyed by mount point. The mount controller registers
// itself here while mounting, which is how a second mount on the same
// mount point is rejected. The operation adapters do not consult the
// registry: each bridge Node carries a pointer to its own mount's FS.
// LookupForPath is provided for path-to-mount resolution but nothing
// outside this package's tests calls it.
package registry
