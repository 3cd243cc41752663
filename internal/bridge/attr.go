package bridge

import (
	"syscall"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/vfsbridge/vfsbridge/pkg/handler"
)

// fillAttrOut copies a handler reply into the kernel-facing attribute
// struct. Fields the handler left at zero stay zero. The one field it
// fills in itself is Nlink: 2 for a directory, 1 for anything else.
func fillAttrOut(out *gofuse.Attr, attr handler.Attr) {
	out.Mode = attr.Mode
	out.Size = attr.Size
	out.Uid = attr.UID
	out.Gid = attr.GID
	out.Atime = uint64(attr.Atime)
	out.Mtime = uint64(attr.Mtime)
	out.Ctime = uint64(attr.Ctime)
	if attr.Mode&syscall.S_IFDIR != 0 {
		out.Nlink = 2
	} else {
		out.Nlink = 1
	}
}

// inodeMode returns the S_IFMT-masked type bits NewInode needs, falling
// back to a regular file when the handler didn't report any. A handler
// is free to leave Mode's permission bits unset, but a missing type bit
// would otherwise make every lookup look like a FIFO (mode 0 masks to
// nothing, which go-fuse treats as invalid).
func inodeMode(attr handler.Attr) uint32 {
	if t := attr.Mode & syscall.S_IFMT; t != 0 {
		return t
	}
	return syscall.S_IFREG
}
