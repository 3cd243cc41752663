// Package vfsbridge mounts a user-supplied handler object as a FUSE3
// filesystem. A handler implements whichever of the pkg/handler
// interfaces its virtual filesystem supports; everything else answers
// ENOSYS automatically.
//
// The surface is intentionally narrow: NewMount to configure, Mount to
// start serving, Unmount to tear down, IsMounted/Crashed to query
// state. IsConfigured and UnmountPath are process-wide helpers for
// environments that need to probe for FUSE tooling or clean up a mount
// left behind by a crashed process.
package vfsbridge
