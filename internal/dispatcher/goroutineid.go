package dispatcher

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentGoroutineID parses the numeric id out of the current
// goroutine's own stack trace header ("goroutine 123 [running]: ..."),
// the standard low-level trick for goroutine-confinement checks in the
// absence of any exported runtime.Goid. It is used only for the
// dispatcher's own-goroutine reentrancy guard: calling Call from the
// handler environment's own goroutine would deadlock, so it is rejected
// with a panic instead. Never use it for correctness-critical
// scheduling decisions.
func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if end := bytes.IndexByte(buf, ' '); end >= 0 {
		buf = buf[:end]
	}

	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		// Should be unreachable given runtime.Stack's documented
		// format; returning 0 only weakens the reentrancy guard, it
		// never causes a false abort.
		return 0
	}
	return id
}
