// Package mountctl is the mount controller: it owns the lifecycle of
// one mounted filesystem, from validating the mount point through
// running go-fuse's server loop on its own dedicated OS thread to
// tearing everything down in the right order on unmount.
//
// The state machine is: created -> mounting -> mounted -> unmounting ->
// destroyed, with mounting or mounted able to fall into failed (the
// kernel session died, or go-fuse's Mount call itself errored). Failed
// is terminal: the controller does not move from failed to destroyed,
// and both Mount and Unmount reject a failed controller. Crashed
// reports whether the controller ended up in failed rather than a clean
// unmount.
package mountctl
