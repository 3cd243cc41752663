// Package bridge implements the operation adapters: the go-fuse node and
// file-handle types that translate each FUSE request into a call through
// the dispatcher to the user-supplied handler object, and translate the
// handler's reply back into whatever go-fuse's fs package expects.
//
// Every adapter method follows the same shape: type-assert the handler
// for the single-method interface that covers this operation (its
// absence means ENOSYS, never a panic), submit a closure through
// dispatcher.Invoke that calls the handler method with a continuation,
// block on the resulting ticket, and translate the reported errno at
// the boundary. Apart from Setattr, which also negates each failed
// sub-operation's errno for its aggregated error log, nowhere else in
// this package does an errno get negated by hand.
//
// Node and Handle hold no handler-shaped state of their own; they exist
// only to carry a path (or a handler-assigned file-handle id) and a
// reference back to the FS that owns the dispatcher and the handler.
package bridge
