package bridge

import (
	"syscall"
	"time"

	"github.com/vfsbridge/vfsbridge/pkg/errno"
)

// errnoName returns a short description of a normalized (negative or
// zero) errno, for metrics labels. Empty for success.
func errnoName(normalized int) string {
	if normalized == 0 {
		return ""
	}
	return syscall.Errno(-normalized).Error()
}

// finish normalizes a handler's reported errno, records it against op
// in fsys's metrics, and returns the syscall.Errno the calling adapter
// method should return to go-fuse. Every adapter method funnels its
// result through here exactly once.
func finish(fsys *FS, op string, start time.Time, reported int) syscall.Errno {
	n := errno.NormalizeOrDefault(reported)
	fsys.Metrics.Observe(op, time.Since(start), errnoName(n))
	if n == 0 {
		return 0
	}
	return syscall.Errno(-n)
}
