package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
)

var (
	// ErrNoSuchChild indicates a path segment that names nothing in its
	// container.
	ErrNoSuchChild = fmt.Errorf("%w: no such child", tdl.ErrAddressing)

	// ErrAtRoot indicates ".." applied to the root folder.
	ErrAtRoot = fmt.Errorf("%w: already at the root folder; cannot ascend", tdl.ErrAddressing)

	// ErrNotAContainer indicates a path that names an action or context
	// where a folder or project was needed.
	ErrNotAContainer = fmt.Errorf("%w: not a folder or project", tdl.ErrAddressing)

	// ErrWrongKind indicates a path that names the wrong kind of item, e.g. a
	// folder where an action was needed.
	ErrWrongKind = fmt.Errorf("%w: wrong kind of item", tdl.ErrAddressing)
)

// ChildNotFoundError reports a failed name lookup along with the names
// that would have worked.
type ChildNotFoundError struct {
	Container string
	Name      string
	Choices   []string
}

func (e *ChildNotFoundError) Error() string {
	return fmt.Sprintf("%s has no child %q. Choices: %s", e.Container, e.Name, strings.Join(e.Choices, " "))
}

func (e *ChildNotFoundError) Unwrap() error {
	return ErrNoSuchChild
}

// parseUID wraps uid.Parse so syntax errors are addressing errors.
func parseUID(s string) (uid.UID, bool, error) {
	id, ok, err := uid.Parse(s)
	if err != nil {
		return uid.None, true, fmt.Errorf("%w: %w", tdl.ErrAddressing, err)
	}
	return id, ok, nil
}

// Resolve returns the item at path. A path relative to the cursor may use
// "." and "..", a leading separator starts at the root folder, and uid=N
// names any item directly, deleted or not. A plain name prefers an
// undeleted child.
func (s *State) Resolve(path string) (tdl.Item, error) {
	id, ok, err := parseUID(path)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.list.ItemByUID(id)
	}

	path = s.CanonicalPath(path)
	var cur tdl.Item = s.cwc
	if path == "" {
		return cur, nil
	}
	for _, name := range strings.Split(s.TrimTrailingSeparators(path), s.sep) {
		if name == "" {
			cur = s.list.Root()
			continue
		}
		if cur, err = s.child(cur, name); err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// TrimTrailingSeparators removes every whole separator from the end of
// path.
func (s *State) TrimTrailingSeparators(path string) string {
	for strings.HasSuffix(path, s.sep) {
		path = strings.TrimSuffix(path, s.sep)
	}
	return path
}

func (s *State) child(cur tdl.Item, name string) (tdl.Item, error) {
	id, _, err := parseUID(name)
	if err != nil {
		return nil, err
	}

	switch name {
	case ".":
		return cur, nil
	case "..":
		return s.parent(cur)
	}

	c, ok := cur.(tdl.Container)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no children", ErrNotAContainer, tdl.Describe(cur))
	}
	if c == tdl.Container(s.list.Root()) {
		inbox := s.list.Inbox()
		if id == c.UID() {
			return c, nil
		}
		if name == inbox.Name() || id == inbox.UID() {
			return inbox, nil
		}
	}

	children := c.Items()
	for _, item := range children {
		if (id != uid.None && item.UID() == id) || (!item.IsDeleted() && item.Name() == name) {
			return item, nil
		}
	}
	for _, item := range children {
		if item.IsDeleted() && item.Name() == name {
			return item, nil
		}
	}

	choices := []string{".", ".."}
	for _, item := range children {
		if _, ok := item.(tdl.Container); ok {
			choices = append(choices, item.Name())
		}
	}
	return nil, &ChildNotFoundError{Container: s.AbsolutePath(c), Name: name, Choices: choices}
}

func (s *State) parent(cur tdl.Item) (tdl.Item, error) {
	if cur == tdl.Item(s.list.Root()) {
		return nil, ErrAtRoot
	}
	parent, err := s.list.ParentOf(cur)
	if err != nil {
		return nil, err
	}
	return parent, nil
}

// ResolveContainer resolves path and requires a folder or project.
func (s *State) ResolveContainer(path string) (tdl.Container, error) {
	item, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	c, ok := item.(tdl.Container)
	if !ok {
		return nil, fmt.Errorf("%w: the path %q names %s", ErrNotAContainer, path, tdl.Describe(item))
	}
	return c, nil
}

// ResolveAction resolves path and requires an action.
func (s *State) ResolveAction(path string) (*tdl.Action, error) {
	return resolveAs[*tdl.Action](s, path, "action")
}

// ResolveProject resolves path and requires a project.
func (s *State) ResolveProject(path string) (*tdl.Project, error) {
	return resolveAs[*tdl.Project](s, path, "project")
}

// ResolveFolder resolves path and requires a folder.
func (s *State) ResolveFolder(path string) (*tdl.Folder, error) {
	return resolveAs[*tdl.Folder](s, path, "folder")
}

func resolveAs[T tdl.Item](s *State, path, kind string) (T, error) {
	var zero T
	item, err := s.Resolve(path)
	if err != nil {
		return zero, err
	}
	t, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%w: the path %q names %s, not a %s", ErrWrongKind, path, tdl.Describe(item), kind)
	}
	return t, nil
}

// ResolveContext returns the context named by nameOrUID. A name matches
// undeleted contexts first.
func (s *State) ResolveContext(nameOrUID string) (*tdl.Context, error) {
	id, ok, err := parseUID(nameOrUID)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.list.ContextByUID(id)
	}
	return s.list.ContextByName(nameOrUID)
}

// IsNotFound reports whether err means a path or name matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSuchChild) || errors.Is(err, tdl.ErrNoSuchItem) || errors.Is(err, tdl.ErrNoSuchContext)
}
