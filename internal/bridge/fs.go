package bridge

import (
	"log/slog"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/vfsbridge/vfsbridge/internal/dispatcher"
	"github.com/vfsbridge/vfsbridge/internal/metrics"
)

// FS is the shared state behind every Node and Handle in one mount: the
// dispatcher that gets requests onto the handler environment's
// goroutine, the handler object itself (opaque, type-asserted per
// operation against the single-method interfaces in pkg/handler), and
// the cache timeouts reported back to the kernel.
type FS struct {
	Dispatcher *dispatcher.Dispatcher
	Handler    any
	Metrics    *metrics.Recorder
	Logger     *slog.Logger

	EntryTimeout time.Duration
	AttrTimeout  time.Duration
}

// Root returns the inode embedder for the mount's root directory.
func (f *FS) Root() *Node {
	return &Node{fsys: f, path: "/"}
}

func (f *FS) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default().With("component", "bridge")
}

func (f *FS) setTimeouts(out *gofuse.EntryOut) {
	out.SetEntryTimeout(f.EntryTimeout)
	out.SetAttrTimeout(f.AttrTimeout)
}

func (f *FS) setAttrTimeouts(out *gofuse.AttrOut) {
	out.SetTimeout(f.AttrTimeout)
}
