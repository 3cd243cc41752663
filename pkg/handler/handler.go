package handler

// Attr is the success payload for Getattr. Fields absent from a
// handler's reply default to zero, matching the "missing fields default
// to 0" rule for populating the kernel stat buffer.
type Attr struct {
	Mode  uint32
	Size  uint64
	UID   uint32
	GID   uint32
	Atime int64 // epoch seconds
	Mtime int64
	Ctime int64
}

// AttrFunc is the continuation for Getattr.
type AttrFunc func(errno int, attr Attr)

// NamesFunc is the continuation for Readdir. Names exclude "." and "..".
// The bridge's Readdir adapter adds no dot entries of its own; it hands
// the names to go-fuse as they are.
type NamesFunc func(errno int, names []string)

// HandleFunc is the continuation for Open, carrying a nonnegative
// handler-assigned file handle on success.
type HandleFunc func(errno int, handle int)

// ReadFunc is the continuation for Read. A negative n is -errno; a
// nonnegative n is the number of bytes read, with data holding at least
// that many bytes. Zero is a legal end-of-file report.
type ReadFunc func(n int, data []byte)

// WriteFunc is the continuation for Write. A nonnegative result is the
// number of bytes written; a negative result is an errno (already
// negated or not, it is normalized the same as every other reply).
type WriteFunc func(result int)

// DoneFunc is the continuation for every operation whose only outcome is
// success or an errno.
type DoneFunc func(errno int)

// GetattrHandler answers stat requests for path.
type GetattrHandler interface {
	Getattr(path string, cb AttrFunc)
}

// ReaddirHandler lists the children of the directory at path.
type ReaddirHandler interface {
	Readdir(path string, cb NamesFunc)
}

// OpenHandler opens path with the given POSIX open flags and returns a
// handler-chosen file handle.
type OpenHandler interface {
	Open(path string, flags int, cb HandleFunc)
}

// ReadHandler reads up to length bytes from handle at offset.
type ReadHandler interface {
	Read(path string, handleID int, length int, offset int64, cb ReadFunc)
}

// WriteHandler writes data (length bytes) to handle at offset.
type WriteHandler interface {
	Write(path string, handleID int, data []byte, length int, offset int64, cb WriteFunc)
}

// CreateHandler creates a new regular file at path with the given mode.
type CreateHandler interface {
	Create(path string, mode uint32, cb DoneFunc)
}

// UnlinkHandler removes the file at path.
type UnlinkHandler interface {
	Unlink(path string, cb DoneFunc)
}

// MkdirHandler creates a new directory at path with the given mode.
type MkdirHandler interface {
	Mkdir(path string, mode uint32, cb DoneFunc)
}

// RmdirHandler removes the (expected empty) directory at path.
type RmdirHandler interface {
	Rmdir(path string, cb DoneFunc)
}

// RenameHandler moves fromPath to toPath.
type RenameHandler interface {
	Rename(fromPath, toPath string, cb DoneFunc)
}

// ChmodHandler changes the permission bits of path.
type ChmodHandler interface {
	Chmod(path string, mode uint32, cb DoneFunc)
}

// ChownHandler changes the owning uid/gid of path.
type ChownHandler interface {
	Chown(path string, uid, gid uint32, cb DoneFunc)
}

// TruncateHandler changes the size of path.
type TruncateHandler interface {
	Truncate(path string, size int64, cb DoneFunc)
}

// UtimensHandler changes the access and modification times of path, in
// epoch seconds.
type UtimensHandler interface {
	Utimens(path string, atimeSec, mtimeSec int64, cb DoneFunc)
}

// ReleaseHandler closes a previously opened handle.
type ReleaseHandler interface {
	Release(path string, handleID int, cb DoneFunc)
}

// FsyncHandler flushes handle's data to its backing store.
type FsyncHandler interface {
	Fsync(path string, handleID int, cb DoneFunc)
}

// FlushHandler flushes handle without necessarily syncing to storage;
// called once per close(2), possibly more than once per Release.
type FlushHandler interface {
	Flush(path string, handleID int, cb DoneFunc)
}

// AccessHandler checks path against the given access mask (the POSIX
// R_OK/W_OK/X_OK/F_OK bits).
type AccessHandler interface {
	Access(path string, mask int, cb DoneFunc)
}
