package bridge

import (
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
)

func newAttrOut() *gofuse.AttrOut {
	return &gofuse.AttrOut{}
}

func newEntryOut() *gofuse.EntryOut {
	return &gofuse.EntryOut{}
}

func newStatfsOut() *gofuse.StatfsOut {
	return &gofuse.StatfsOut{}
}

// newSetAttrIn builds a SetAttrIn with the mode, uid/gid, and size
// fields marked valid, using the stable FATTR_* bit assignments from
// the FUSE kernel protocol (mode=1, uid=2, gid=4, size=8).
func newSetAttrIn(mode, uid, gid uint32, size uint64) *gofuse.SetAttrIn {
	in := &gofuse.SetAttrIn{}
	in.Valid = gofuse.FATTR_MODE | gofuse.FATTR_UID | gofuse.FATTR_GID | gofuse.FATTR_SIZE
	in.Mode = mode
	in.Uid = uid
	in.Gid = gid
	in.Size = size
	return in
}
