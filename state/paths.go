package state

import (
	"strings"

	"github.com/amonks/immaculater/tdl"
)

// escapedSeparator replaces the separator inside a name when the name is
// shown as part of a path.
const escapedSeparator = "__FORWARD_SLASH__"

// EscapeName makes name safe to show as one segment of a path.
func (s *State) EscapeName(name string) string {
	return strings.ReplaceAll(name, s.sep, escapedSeparator)
}

// AbsolutePath returns the path from the root folder to c, e.g. "/a/b".
// The inbox is "/inbox" and the root folder is "/".
func (s *State) AbsolutePath(c tdl.Container) string {
	if c == tdl.Container(s.list.Root()) || c == tdl.Container(s.list.Inbox()) {
		return s.sep + s.EscapeName(c.Name())
	}
	for candidate, path := range s.list.ContainersPreorder() {
		if candidate != c {
			continue
		}
		var b strings.Builder
		for _, f := range path {
			b.WriteString(s.EscapeName(f.Name()))
			b.WriteString(s.sep)
		}
		b.WriteString(s.EscapeName(c.Name()))
		return b.String()
	}
	return c.UID().String()
}

// CanonicalPath drops everything before the last doubled separator, so
// "a//b" means "/b".
func (s *State) CanonicalPath(path string) string {
	for {
		x := strings.LastIndex(path, s.sep+s.sep)
		if x < 0 {
			return path
		}
		path = path[x+len(s.sep):]
	}
}

// BaseName returns the last segment of path, like path.Base, except that a
// path ending in the separator has an empty base.
func (s *State) BaseName(path string) string {
	path = s.CanonicalPath(path)
	if strings.HasSuffix(path, s.sep) {
		return ""
	}
	if i := strings.LastIndex(path, s.sep); i >= 0 {
		return path[i+len(s.sep):]
	}
	return path
}

// DirName returns every segment of path but the last, like path.Dir,
// except that a relative path with one segment has an empty dir.
func (s *State) DirName(path string) string {
	path = s.CanonicalPath(path)
	if path == s.sep || path == "" {
		return path
	}
	segments := strings.Split(path, s.sep)
	if dir := strings.Join(segments[:len(segments)-1], s.sep); dir != "" {
		return dir
	}
	if strings.HasPrefix(path, s.sep) {
		return s.sep
	}
	return ""
}
