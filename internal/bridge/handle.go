package bridge

import (
	"context"
	"syscall"
	"time"

	gofs "github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/vfsbridge/vfsbridge/internal/dispatcher"
	"github.com/vfsbridge/vfsbridge/pkg/errno"
	"github.com/vfsbridge/vfsbridge/pkg/handler"
)

// Handle is the go-fuse file handle for one open(2): the handler's own
// integer file-handle id, plus enough back-reference to reach the
// dispatcher and handler object again for Read, Write, and friends.
type Handle struct {
	fsys     *FS
	path     string
	handleID int
}

var (
	_ gofs.FileReader   = (*Handle)(nil)
	_ gofs.FileWriter   = (*Handle)(nil)
	_ gofs.FileFlusher  = (*Handle)(nil)
	_ gofs.FileReleaser = (*Handle)(nil)
	_ gofs.FileFsyncer  = (*Handle)(nil)
)

// Read fills dest from the handler's reply, copying at most
// min(bytes reported, len(dest)) bytes. The handler contract allows a
// reply to carry more data than was asked for; this adapter never
// hands back more than dest can hold.
func (h *Handle) Read(ctx context.Context, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	start := time.Now()
	hdl, ok := h.fsys.Handler.(handler.ReadHandler)
	if !ok {
		return nil, finish(h.fsys, "read", start, errno.ENOSYS)
	}

	type readResult struct {
		n    int
		data []byte
	}
	reported, res := dispatcher.Invoke(h.fsys.Dispatcher, func(done func(errno int, value readResult)) {
		hdl.Read(h.path, h.handleID, len(dest), off, func(n int, data []byte) {
			if n < 0 {
				done(n, readResult{})
				return
			}
			done(0, readResult{n: n, data: data})
		})
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return nil, finish(h.fsys, "read", start, reported)
	}

	n := res.n
	if n > len(dest) {
		n = len(dest)
	}
	if n > len(res.data) {
		n = len(res.data)
	}
	copy(dest[:n], res.data[:n])
	return gofuse.ReadResultData(dest[:n]), finish(h.fsys, "read", start, reported)
}

// Write sends data to the handler and reports back the byte count it
// claims to have written.
func (h *Handle) Write(ctx context.Context, data []byte, off int64) (uint32, syscall.Errno) {
	start := time.Now()
	hdl, ok := h.fsys.Handler.(handler.WriteHandler)
	if !ok {
		return 0, finish(h.fsys, "write", start, errno.ENOSYS)
	}

	reported, written := dispatcher.Invoke(h.fsys.Dispatcher, func(done func(errno int, value int)) {
		hdl.Write(h.path, h.handleID, data, len(data), off, func(result int) {
			if result < 0 {
				done(result, 0)
				return
			}
			done(0, result)
		})
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return 0, finish(h.fsys, "write", start, reported)
	}
	return uint32(written), finish(h.fsys, "write", start, reported)
}

// Flush is called once per close(2) of this file descriptor, possibly
// more than once per Release.
func (h *Handle) Flush(ctx context.Context) syscall.Errno {
	start := time.Now()
	hdl, ok := h.fsys.Handler.(handler.FlushHandler)
	if !ok {
		return finish(h.fsys, "flush", start, errno.ENOSYS)
	}

	reported, _ := dispatcher.Invoke(h.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		hdl.Flush(h.path, h.handleID, func(errno int) { done(errno, struct{}{}) })
	})
	return finish(h.fsys, "flush", start, reported)
}

// Release closes the handler-assigned file handle. Unlike every other
// adapter, an absent ReleaseHandler is not reported as ENOSYS to the
// kernel: release(2) has no useful error path, and there is no
// handler-assigned resource left to leak if the handler never opted
// into tracking its own handles.
func (h *Handle) Release(ctx context.Context) syscall.Errno {
	start := time.Now()
	hdl, ok := h.fsys.Handler.(handler.ReleaseHandler)
	if !ok {
		return finish(h.fsys, "release", start, 0)
	}

	reported, _ := dispatcher.Invoke(h.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		hdl.Release(h.path, h.handleID, func(errno int) { done(errno, struct{}{}) })
	})
	return finish(h.fsys, "release", start, reported)
}

// Fsync flushes this handle's data to its backing store.
func (h *Handle) Fsync(ctx context.Context, flags uint32) syscall.Errno {
	start := time.Now()
	hdl, ok := h.fsys.Handler.(handler.FsyncHandler)
	if !ok {
		return finish(h.fsys, "fsync", start, errno.ENOSYS)
	}

	reported, _ := dispatcher.Invoke(h.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		hdl.Fsync(h.path, h.handleID, func(errno int) { done(errno, struct{}{}) })
	})
	return finish(h.fsys, "fsync", start, reported)
}
