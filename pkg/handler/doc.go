// Package handler defines the contract a consumer's filesystem handler
// object satisfies. The handler is opaque to the bridge: it is data we
// invoke, never a type the bridge constructs. Each operation is exposed
// as its own single-method interface so a handler can implement only
// the operations it supports. An operation the handler does not
// implement is equivalent to ENOSYS, exactly the way go-fuse's own
// fs.Node*/File* interfaces are each optional.
//
// Every operation takes its positional arguments followed by a
// continuation. The continuation must be called exactly once. If it is
// never called, the request stays blocked until the mount is torn down,
// at which point it fails with EIO. Calls after the first are ignored;
// they do not panic or abort.
package handler
