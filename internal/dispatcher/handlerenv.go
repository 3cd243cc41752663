package dispatcher

import (
	"errors"

	"github.com/sourcegraph/conc/panics"

	"github.com/vfsbridge/vfsbridge/pkg/errno"
)

// ErrClosed is returned by Call once the handler environment has been
// closed; submissions after that point fail immediately rather than
// deadlock.
var ErrClosed = errors.New("dispatcher: handler environment closed")

type task struct {
	fn   func()
	done chan error // buffered, cap 1: nil on normal completion, set if fn panicked
}

// HandlerEnv is the handler environment: one goroutine that runs every
// submitted closure to completion before picking up the next one.
// Cooperatively scheduled and single-threaded, it admits no re-entry
// from the goroutine that owns it.
type HandlerEnv struct {
	queue  chan task
	quit   chan struct{}
	closed chan struct{}
	goid   uint64
}

// NewHandlerEnv starts the environment's goroutine and returns once it
// has recorded its own goroutine id, so Call's reentrancy guard is live
// immediately.
func NewHandlerEnv() *HandlerEnv {
	e := &HandlerEnv{
		queue:  make(chan task),
		quit:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	ready := make(chan struct{})
	go e.run(ready)
	<-ready
	return e
}

func (e *HandlerEnv) run(ready chan struct{}) {
	e.goid = currentGoroutineID()
	close(ready)
	defer close(e.closed)

	for {
		select {
		case t := <-e.queue:
			e.runOne(t)
		case <-e.quit:
			return
		}
	}
}

// runOne executes a single submitted closure, recovering any panic so a
// bug in handler code surfaces as a protocol error to the adapter that
// submitted it rather than taking down the handler environment. The
// catcher recovers every panic raised while fn runs, not only the
// handler's: that includes the reentrancy panic from a Call made inside
// fn, which therefore reaches the submitter as an error instead of
// aborting the process.
func (e *HandlerEnv) runOne(t task) {
	var catcher panics.Catcher
	catcher.Try(t.fn)

	var err error
	if recovered := catcher.Recovered(); recovered != nil {
		err = recovered.AsError()
	}
	t.done <- err
}

// Call schedules fn to run on the handler environment's goroutine and
// blocks the calling goroutine until fn returns. It is safe to call
// from any goroutine except the handler environment's own; calling it
// from that goroutine is undefined and panics rather than deadlocking
// silently.
//
// Call returns a non-nil error either because the environment was
// closed before fn could run, or because fn itself panicked. Either way
// fn's side effects (if any continuation was meant to be invoked from
// inside fn) cannot be assumed to have happened. Callers that handed
// out a completion cell of their own are responsible for cancelling it.
func (e *HandlerEnv) Call(fn func()) error {
	if currentGoroutineID() == e.goid {
		panic("dispatcher: call_in_handler_env invoked reentrantly from the handler environment's own goroutine")
	}

	t := task{fn: fn, done: make(chan error, 1)}
	select {
	case e.queue <- t:
	case <-e.quit:
		return ErrClosed
	}

	select {
	case err := <-t.done:
		return err
	case <-e.quit:
		return ErrClosed
	}
}

// Close stops the environment's goroutine. Call returns ErrClosed for
// any submission racing with Close. A closure already running is not
// interrupted: Close returns only after it has returned and the
// environment's goroutine has exited.
func (e *HandlerEnv) Close() {
	select {
	case <-e.quit:
		return // already closed
	default:
		close(e.quit)
	}
	<-e.closed
}

// errClosedErrno is the errno a submission against a torn-down
// dispatcher resolves to: always -EIO, since the caller has no
// meaningful handler result to report.
func errClosedErrno() int {
	return errno.Negate(errno.EIO)
}
