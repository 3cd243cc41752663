package bridge

import (
	"context"
	"syscall"
	"time"

	gofs "github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"go.uber.org/multierr"

	"github.com/vfsbridge/vfsbridge/internal/dispatcher"
	"github.com/vfsbridge/vfsbridge/pkg/errno"
	"github.com/vfsbridge/vfsbridge/pkg/handler"
)

// Node is the go-fuse inode embedder for every path in the mount,
// directory or file alike; nothing here depends on which kind it is.
// It carries just enough state to ask the handler: which path it is,
// and which FS (dispatcher, handler object, metrics) it belongs to.
type Node struct {
	gofs.Inode

	fsys *FS
	path string
}

var (
	_ gofs.NodeLookuper      = (*Node)(nil)
	_ gofs.NodeGetattrer     = (*Node)(nil)
	_ gofs.NodeSetattrer     = (*Node)(nil)
	_ gofs.NodeReaddirer     = (*Node)(nil)
	_ gofs.NodeOpener        = (*Node)(nil)
	_ gofs.NodeCreater       = (*Node)(nil)
	_ gofs.NodeUnlinker      = (*Node)(nil)
	_ gofs.NodeMkdirer       = (*Node)(nil)
	_ gofs.NodeRmdirer       = (*Node)(nil)
	_ gofs.NodeRenamer       = (*Node)(nil)
	_ gofs.NodeAccesser      = (*Node)(nil)
	_ gofs.NodeStatfser      = (*Node)(nil)
	_ gofs.NodeGetxattrer    = (*Node)(nil)
	_ gofs.NodeSetxattrer    = (*Node)(nil)
	_ gofs.NodeListxattrer   = (*Node)(nil)
	_ gofs.NodeRemovexattrer = (*Node)(nil)
)

// Lookup answers go-fuse's request to resolve name under this
// directory. The handler contract has no separate lookup operation:
// like the bridge's own FUSE library, a stat of the child path is
// lookup. Absence of GetattrHandler therefore makes the whole tree
// unresolvable past the root, which is a legitimate (if unusual)
// handler to offer.
func (n *Node) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.GetattrHandler)
	if !ok {
		return nil, finish(n.fsys, "lookup", start, errno.ENOSYS)
	}

	childPath := joinPath(n.path, name)
	reported, attr := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value handler.Attr)) {
		h.Getattr(childPath, func(errno int, attr handler.Attr) { done(errno, attr) })
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return nil, finish(n.fsys, "lookup", start, reported)
	}

	fillAttrOut(&out.Attr, attr)
	n.fsys.setTimeouts(out)

	child := &Node{fsys: n.fsys, path: childPath}
	inode := n.NewInode(ctx, child, gofs.StableAttr{Mode: inodeMode(attr)})
	return inode, finish(n.fsys, "lookup", start, reported)
}

// Getattr re-stats this node. Functionally identical to the successful
// half of Lookup, but called on a node go-fuse already resolved.
func (n *Node) Getattr(ctx context.Context, f gofs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.GetattrHandler)
	if !ok {
		return finish(n.fsys, "getattr", start, errno.ENOSYS)
	}

	reported, attr := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value handler.Attr)) {
		h.Getattr(n.path, func(errno int, attr handler.Attr) { done(errno, attr) })
	})
	if errno.NormalizeOrDefault(reported) == 0 {
		fillAttrOut(&out.Attr, attr)
		n.fsys.setAttrTimeouts(out)
	}
	return finish(n.fsys, "getattr", start, reported)
}

// Setattr demultiplexes a single kernel SETATTR request into up to four
// handler calls (chmod, chown, truncate, utimens), since the handler
// contract models each as its own narrow operation rather than one
// combined setattr. Every field the kernel actually asked to change is
// attempted; failures are aggregated rather than short-circuited, so a
// failed chmod doesn't hide a successful chown from the caller's later
// Getattr.
func (n *Node) Setattr(ctx context.Context, f gofs.FileHandle, in *gofuse.SetAttrIn, out *gofuse.AttrOut) syscall.Errno {
	start := time.Now()

	var firstErrno int
	var aggregate error
	record := func(reported int) {
		if errno.NormalizeOrDefault(reported) == 0 {
			return
		}
		aggregate = multierr.Append(aggregate, errno.Error(-errno.NormalizeOrDefault(reported)))
		if firstErrno == 0 {
			firstErrno = reported
		}
	}

	if mode, ok := in.GetMode(); ok {
		if h, ok := n.fsys.Handler.(handler.ChmodHandler); ok {
			reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
				h.Chmod(n.path, mode, func(errno int) { done(errno, struct{}{}) })
			})
			record(reported)
		} else {
			record(errno.ENOSYS)
		}
	}

	uid, hasUID := in.GetUID()
	gid, hasGID := in.GetGID()
	if hasUID || hasGID {
		if h, ok := n.fsys.Handler.(handler.ChownHandler); ok {
			reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
				h.Chown(n.path, uid, gid, func(errno int) { done(errno, struct{}{}) })
			})
			record(reported)
		} else {
			record(errno.ENOSYS)
		}
	}

	if size, ok := in.GetSize(); ok {
		if h, ok := n.fsys.Handler.(handler.TruncateHandler); ok {
			reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
				h.Truncate(n.path, int64(size), func(errno int) { done(errno, struct{}{}) })
			})
			record(reported)
		} else {
			record(errno.ENOSYS)
		}
	}

	atime, hasAtime := in.GetATime()
	mtime, hasMtime := in.GetMTime()
	if hasAtime || hasMtime {
		if h, ok := n.fsys.Handler.(handler.UtimensHandler); ok {
			reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
				h.Utimens(n.path, atime.Unix(), mtime.Unix(), func(errno int) { done(errno, struct{}{}) })
			})
			record(reported)
		} else {
			record(errno.ENOSYS)
		}
	}

	if h, ok := n.fsys.Handler.(handler.GetattrHandler); ok {
		reported, attr := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value handler.Attr)) {
			h.Getattr(n.path, func(errno int, attr handler.Attr) { done(errno, attr) })
		})
		if errno.NormalizeOrDefault(reported) == 0 {
			fillAttrOut(&out.Attr, attr)
			n.fsys.setAttrTimeouts(out)
		}
	}

	if len(multierr.Errors(aggregate)) > 1 {
		n.fsys.logger().Warn("setattr: multiple sub-operations failed", "path", n.path, "errors", aggregate)
	}

	return finish(n.fsys, "setattr", start, firstErrno)
}

// Readdir lists this directory's children. Entry modes are left unset,
// since the handler's Readdir reply carries names only, not types.
// That's a valid DT_UNKNOWN and simply costs the kernel a follow-up
// Lookup per entry.
func (n *Node) Readdir(ctx context.Context) (gofs.DirStream, syscall.Errno) {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.ReaddirHandler)
	if !ok {
		return nil, finish(n.fsys, "readdir", start, errno.ENOSYS)
	}

	reported, names := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value []string)) {
		h.Readdir(n.path, func(errno int, names []string) { done(errno, names) })
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return nil, finish(n.fsys, "readdir", start, reported)
	}

	entries := make([]gofuse.DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, gofuse.DirEntry{Name: name})
	}
	return gofs.NewListDirStream(entries), finish(n.fsys, "readdir", start, reported)
}

// Open opens an existing file and returns a Handle wrapping the
// handler-assigned file descriptor. Direct I/O is forced on every open:
// the handler is the only source of truth for file contents, so page-
// cache-backed reads could serve stale data the handler never agreed
// to cache.
func (n *Node) Open(ctx context.Context, flags uint32) (gofs.FileHandle, uint32, syscall.Errno) {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.OpenHandler)
	if !ok {
		return nil, 0, finish(n.fsys, "open", start, errno.ENOSYS)
	}

	reported, handleID := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value int)) {
		h.Open(n.path, int(flags), func(errno int, handle int) { done(errno, handle) })
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return nil, 0, finish(n.fsys, "open", start, reported)
	}

	fh := &Handle{fsys: n.fsys, path: n.path, handleID: handleID}
	return fh, gofuse.FOPEN_DIRECT_IO, finish(n.fsys, "open", start, reported)
}

// Create makes a new regular file and opens it in one kernel round
// trip. The handler sees this as two calls, Create then Open, since
// the handler contract has no combined primitive; a handler that only
// implements Create but not Open will see file creation report ENOSYS
// on every subsequent open, which is a handler bug, not a bridge one.
func (n *Node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *gofuse.EntryOut) (*gofs.Inode, gofs.FileHandle, uint32, syscall.Errno) {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.CreateHandler)
	if !ok {
		return nil, nil, 0, finish(n.fsys, "create", start, errno.ENOSYS)
	}

	childPath := joinPath(n.path, name)
	reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		h.Create(childPath, mode, func(errno int) { done(errno, struct{}{}) })
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return nil, nil, 0, finish(n.fsys, "create", start, reported)
	}

	child := &Node{fsys: n.fsys, path: childPath}
	inode := n.NewInode(ctx, child, gofs.StableAttr{Mode: syscall.S_IFREG})

	fh, fuseFlags, openErrno := child.Open(ctx, flags)
	out.SetEntryTimeout(n.fsys.EntryTimeout)
	out.SetAttrTimeout(n.fsys.AttrTimeout)
	return inode, fh, fuseFlags, openErrno
}

// Unlink removes a file.
func (n *Node) Unlink(ctx context.Context, name string) syscall.Errno {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.UnlinkHandler)
	if !ok {
		return finish(n.fsys, "unlink", start, errno.ENOSYS)
	}

	childPath := joinPath(n.path, name)
	reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		h.Unlink(childPath, func(errno int) { done(errno, struct{}{}) })
	})
	return finish(n.fsys, "unlink", start, reported)
}

// Mkdir creates a directory.
func (n *Node) Mkdir(ctx context.Context, name string, mode uint32, out *gofuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.MkdirHandler)
	if !ok {
		return nil, finish(n.fsys, "mkdir", start, errno.ENOSYS)
	}

	childPath := joinPath(n.path, name)
	reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		h.Mkdir(childPath, mode, func(errno int) { done(errno, struct{}{}) })
	})
	if errno.NormalizeOrDefault(reported) != 0 {
		return nil, finish(n.fsys, "mkdir", start, reported)
	}

	child := &Node{fsys: n.fsys, path: childPath}
	inode := n.NewInode(ctx, child, gofs.StableAttr{Mode: syscall.S_IFDIR})
	n.fsys.setTimeouts(out)
	return inode, finish(n.fsys, "mkdir", start, reported)
}

// Rmdir removes an (expected empty) directory.
func (n *Node) Rmdir(ctx context.Context, name string) syscall.Errno {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.RmdirHandler)
	if !ok {
		return finish(n.fsys, "rmdir", start, errno.ENOSYS)
	}

	childPath := joinPath(n.path, name)
	reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		h.Rmdir(childPath, func(errno int) { done(errno, struct{}{}) })
	})
	return finish(n.fsys, "rmdir", start, reported)
}

// Rename moves name (a child of n) to newName (a child of newParent).
// newParent is only used to compute the destination path; the handler
// contract has no notion of a directory handle, only paths.
func (n *Node) Rename(ctx context.Context, name string, newParent gofs.InodeEmbedder, newName string, flags uint32) syscall.Errno {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.RenameHandler)
	if !ok {
		return finish(n.fsys, "rename", start, errno.ENOSYS)
	}

	fromPath := joinPath(n.path, name)
	toDir := "/"
	if dst, ok := newParent.(*Node); ok {
		toDir = dst.path
	}
	toPath := joinPath(toDir, newName)

	reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		h.Rename(fromPath, toPath, func(errno int) { done(errno, struct{}{}) })
	})
	return finish(n.fsys, "rename", start, reported)
}

// Access checks path against mask (R_OK/W_OK/X_OK/F_OK).
func (n *Node) Access(ctx context.Context, mask uint32) syscall.Errno {
	start := time.Now()
	h, ok := n.fsys.Handler.(handler.AccessHandler)
	if !ok {
		return finish(n.fsys, "access", start, errno.ENOSYS)
	}

	reported, _ := dispatcher.Invoke(n.fsys.Dispatcher, func(done func(errno int, value struct{})) {
		h.Access(n.path, int(mask), func(errno int) { done(errno, struct{}{}) })
	})
	return finish(n.fsys, "access", start, reported)
}

// Statfs answers with fixed, synthetic filesystem-wide statistics. The
// handler contract has no statfs operation: a handler backed by
// something with real capacity figures can still report accurate sizes
// through Getattr's per-file Size, which is what most callers actually
// care about; statfs here exists only so df(1) and callers of
// fstatfs(2) get an answer instead of ENOSYS.
func (n *Node) Statfs(ctx context.Context, out *gofuse.StatfsOut) syscall.Errno {
	const blockSize = 4096
	out.Bsize = blockSize
	out.Frsize = blockSize
	out.Blocks = 1_000_000
	out.Bfree = 500_000
	out.Bavail = 500_000
	out.Files = 1_000_000
	out.Ffree = 500_000
	out.NameLen = 255
	return 0
}

// Getxattr, Setxattr, Listxattr, and Removexattr are unconditionally
// ENOSYS: the handler contract carries no extended-attribute
// operations, and the kernel already treats ENOSYS from getxattr as
// "this filesystem doesn't support xattrs" rather than an error worth
// surfacing to userspace callers.
func (n *Node) Getxattr(ctx context.Context, attr string, dest []byte) (uint32, syscall.Errno) {
	return 0, syscall.ENOSYS
}

func (n *Node) Setxattr(ctx context.Context, attr string, data []byte, flags uint32) syscall.Errno {
	return syscall.ENOSYS
}

func (n *Node) Listxattr(ctx context.Context, dest []byte) (uint32, syscall.Errno) {
	return 0, syscall.ENOSYS
}

func (n *Node) Removexattr(ctx context.Context, attr string) syscall.Errno {
	return syscall.ENOSYS
}
