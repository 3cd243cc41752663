package dispatcher

import "sync"

// cancelable is the non-generic face of *Ticket[T] the dispatcher needs
// to track outstanding tickets without itself being generic.
type cancelable interface {
	cancel()
}

// Dispatcher pairs a HandlerEnv with bookkeeping for every ticket
// currently awaiting a handler's continuation, so that tearing the
// dispatcher down can force every one of them to -EIO instead of
// leaving a FUSE worker goroutine blocked forever on a mount that no
// longer exists.
type Dispatcher struct {
	env *HandlerEnv

	mu          sync.Mutex
	outstanding map[uint64]cancelable
	nextID      uint64
	closed      bool
}

// New starts a fresh handler environment and returns a dispatcher bound
// to it.
func New() *Dispatcher {
	return &Dispatcher{
		env:         NewHandlerEnv(),
		outstanding: make(map[uint64]cancelable),
	}
}

func (d *Dispatcher) register(c cancelable) (uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, false
	}
	d.nextID++
	id := d.nextID
	d.outstanding[id] = c
	return id, true
}

func (d *Dispatcher) unregister(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.outstanding, id)
}

// Close cancels every outstanding ticket to -EIO and then stops the
// handler environment. It is idempotent and safe to call even if no
// operation is in flight.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pending := d.outstanding
	d.outstanding = nil
	d.mu.Unlock()

	for _, c := range pending {
		c.cancel()
	}
	d.env.Close()
}

// Invoke is the generic helper every operation adapter calls: it
// allocates a ticket, submits op to the handler environment with a
// continuation that sets the ticket, and blocks until either the
// handler calls that continuation or the dispatcher is torn down out
// from under it.
//
// op must eventually call done exactly once. If op panics before doing
// so, or the dispatcher is closed concurrently, Invoke still returns
// rather than leaving the FUSE worker blocked, reporting -EIO and T's
// zero value.
func Invoke[T any](d *Dispatcher, op func(done func(errno int, value T))) (int, T) {
	var zero T

	t := newTicket[T]()
	id, ok := d.register(t)
	if !ok {
		return errClosedErrno(), zero
	}
	defer d.unregister(id)

	if err := d.env.Call(func() {
		// trySet, not Set: if teardown already forced this ticket to
		// -EIO while op was still running, the handler's own
		// (legitimate) completion arriving afterward must lose
		// quietly rather than panic the handler environment.
		op(func(errno int, value T) { t.trySet(errno, value) })
	}); err != nil {
		// Submission failed (dispatcher closed) or op panicked before
		// calling done. Either way nothing will ever set t, so force
		// it rather than wait forever.
		t.cancel()
	}

	return t.Wait()
}
