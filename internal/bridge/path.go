package bridge

import "strings"

// joinPath builds the absolute path of a child named name under dir,
// where dir is itself an absolute path ("/" for the root). The handler
// always sees "/"-rooted paths with no trailing slash except for the
// root itself.
func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}
