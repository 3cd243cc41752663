// Package dispatcher implements the cross-thread dispatcher: the
// primitive that lets the FUSE worker goroutine synchronously invoke a
// closure on the handler environment's single goroutine and block until
// that closure runs to completion, without blocking the handler
// environment itself and without the FUSE worker pumping anything.
//
// Two pieces compose to make this work:
//
//   - HandlerEnv is the handler environment: one dedicated goroutine
//     draining a work queue, standing in for whatever cooperatively
//     scheduled single-threaded runtime actually hosts the consumer's
//     handler object (a scripting VM, an actor mailbox, or, in this
//     module's own tests, nothing more exotic than itself).
//   - Ticket[T] is the single-assignment completion cell an adapter
//     waits on. Submitting a closure to HandlerEnv only waits for the
//     closure itself to return; the handler's actual operation is
//     asynchronous and completes later, on the same goroutine, by
//     calling a continuation that sets the ticket. The FUSE worker
//     blocks on the ticket, not on the submission.
package dispatcher
