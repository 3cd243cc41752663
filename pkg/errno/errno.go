package errno

import "syscall"

// The closed set of errno values the bridge translates. Handlers may
// report any of these, either as the positive POSIX number or already
// negated; every other value is treated as unrecognized and collapses to
// EIO at the boundary.
const (
	EPERM    = int(syscall.EPERM)
	ENOENT   = int(syscall.ENOENT)
	EIO      = int(syscall.EIO)
	EACCES   = int(syscall.EACCES)
	EEXIST   = int(syscall.EEXIST)
	ENOTDIR  = int(syscall.ENOTDIR)
	EISDIR   = int(syscall.EISDIR)
	EINVAL   = int(syscall.EINVAL)
	ENOSPC   = int(syscall.ENOSPC)
	EROFS    = int(syscall.EROFS)
	EBUSY    = int(syscall.EBUSY)
	ENOTEMPTY = int(syscall.ENOTEMPTY)
	ENOSYS   = int(syscall.ENOSYS)
)

// closure lists every errno this package recognizes, ENOSYS included
// since it is the bridge's own answer for an absent handler operation,
// not something a handler itself is expected to report.
var closure = map[int]struct{}{
	EPERM: {}, ENOENT: {}, EIO: {}, EACCES: {}, EEXIST: {}, ENOTDIR: {},
	EISDIR: {}, EINVAL: {}, ENOSPC: {}, EROFS: {}, EBUSY: {}, ENOTEMPTY: {},
	ENOSYS: {},
}

// Closure returns the full set of errno values the bridge recognizes,
// for use by property tests that assert every adapter return value (P3)
// lands in this set.
func Closure() []int {
	out := make([]int, 0, len(closure))
	for e := range closure {
		out = append(out, e)
	}
	return out
}

// Known reports whether e is one of the errno values in the closure.
func Known(e int) bool {
	_, ok := closure[e]
	return ok
}

// Negate returns the negated form FUSE expects. It does not inspect the
// sign of e; callers must only call it on a positive errno.
func Negate(e int) int {
	return -e
}

// Normalize implements the boundary rule from the handler-reply contract:
// a reported value that is already ≤ 0 passes through unchanged (the
// handler already negated it, or reported success with 0); a positive
// value is negated. It does not validate that the result is in the
// closure; use NormalizeOrDefault for that.
func Normalize(reported int) int {
	if reported <= 0 {
		return reported
	}
	return Negate(reported)
}

// NormalizeOrDefault applies Normalize and then collapses any nonzero
// value outside the closure to -EIO. Zero passes through as success; it
// is not treated as a missing report.
func NormalizeOrDefault(reported int) int {
	n := Normalize(reported)
	if n == 0 {
		return 0
	}
	if !Known(-n) {
		return Negate(EIO)
	}
	return n
}

// Error wraps a positive errno as a syscall.Errno so code outside the
// bridge can use errors.Is against the standard syscall constants.
func Error(e int) error {
	return syscall.Errno(e)
}
