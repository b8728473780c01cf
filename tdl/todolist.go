package tdl

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/amonks/immaculater/uid"
)

// DefaultInboxName is the name of the inbox project unless Options says
// otherwise.
const DefaultInboxName = "inbox"

// ContextListName is the name of the context list.
const ContextListName = "Contexts"

// Options configures a ToDoList.
type Options struct {
	// UIDs issues identifiers. A fresh factory is used when nil.
	UIDs *uid.Factory

	// Clock stamps ctime, mtime, and dtime. time.Now is used when nil.
	Clock func() time.Time

	// InboxName names the inbox of a new list.
	InboxName string

	// SkipWellFormednessCheck turns CheckIsWellFormed into a no-op. This is
	// dangerous: a list saved without checks may not load later.
	SkipWellFormednessCheck bool
}

func (o Options) withDefaults() Options {
	if o.UIDs == nil {
		o.UIDs = uid.NewFactory()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.InboxName == "" {
		o.InboxName = DefaultInboxName
	}
	return o
}

// ToDoList is the totality of one user's data: an inbox project, a root
// folder, the contexts, and the free-standing notes.
//
// A ToDoList is not safe for concurrent use. Callers serialize access.
type ToDoList struct {
	opts Options

	inbox   *Project
	root    *Folder
	ctxList *ContextList
	notes   *NoteList

	hasNeverPurgedDeleted bool
}

// New returns an empty list. The inbox, root folder, and context list take
// the first three identifiers the factory issues.
func New(opts Options) *ToDoList {
	opts = opts.withDefaults()
	l := &ToDoList{opts: opts, notes: newNoteList(), hasNeverPurgedDeleted: true}
	now := l.now()
	l.inbox = newProject(opts.UIDs.Next(), now, opts.InboxName)
	l.root = &Folder{Audit: newAudit(opts.UIDs.Next(), now)}
	l.ctxList = &ContextList{Audit: newAudit(opts.UIDs.Next(), now), name: ContextListName}
	return l
}

func newProject(id uid.UID, now Timestamp, name string) *Project {
	return &Project{
		Audit:                  newAudit(id, now),
		named:                  named{name: name},
		isActive:               true,
		maxSecondsBeforeReview: DefaultMaxSecondsBeforeReview,
	}
}

func (l *ToDoList) now() Timestamp {
	return TimestampOf(l.opts.Clock())
}

// Now returns the list's clock reading.
func (l *ToDoList) Now() time.Time { return l.opts.Clock() }

// UIDs returns the factory that issues identifiers for this list.
func (l *ToDoList) UIDs() *uid.Factory { return l.opts.UIDs }

// Inbox returns the distinguished inbox project. It lives outside the
// folder tree.
func (l *ToDoList) Inbox() *Project { return l.inbox }

// Root returns the root folder.
func (l *ToDoList) Root() *Folder { return l.root }

// Contexts returns the context list.
func (l *ToDoList) Contexts() *ContextList { return l.ctxList }

// Notes returns the free-standing notes.
func (l *ToDoList) Notes() *NoteList { return l.notes }

// HasNeverPurgedDeleted reports whether PurgeDeleted has never run on this
// list (or on any list it was saved from).
func (l *ToDoList) HasNeverPurgedDeleted() bool { return l.hasNeverPurgedDeleted }

// ContainersPreorder yields every container with the folders above it,
// root first. The inbox comes first with an empty path, then the root
// folder and its descendants depth-first. The sequence is lazy and may be
// ranged over any number of times. Callers must not modify the paths.
func (l *ToDoList) ContainersPreorder() iter.Seq2[Container, []*Folder] {
	return func(yield func(Container, []*Folder) bool) {
		if !yield(l.inbox, nil) {
			return
		}
		walkFolder(l.root, nil, yield)
	}
}

func walkFolder(f *Folder, path []*Folder, yield func(Container, []*Folder) bool) bool {
	if !yield(f, path) {
		return false
	}
	below := append(slices.Clip(path), f)
	for _, child := range f.items {
		switch child := child.(type) {
		case *Folder:
			if !walkFolder(child, below, yield) {
				return false
			}
		case *Project:
			if !yield(child, below) {
				return false
			}
		default:
			panic(fmt.Sprintf("tdl: unexpected folder child %T", child))
		}
	}
	return true
}

// Projects yields every project, the inbox first.
func (l *ToDoList) Projects() iter.Seq2[*Project, []*Folder] {
	return func(yield func(*Project, []*Folder) bool) {
		for c, path := range l.ContainersPreorder() {
			if p, ok := c.(*Project); ok && !yield(p, path) {
				return
			}
		}
	}
}

// Folders yields every folder, the root first.
func (l *ToDoList) Folders() iter.Seq2[*Folder, []*Folder] {
	return func(yield func(*Folder, []*Folder) bool) {
		for c, path := range l.ContainersPreorder() {
			if f, ok := c.(*Folder); ok && !yield(f, path) {
				return
			}
		}
	}
}

// Actions yields every action with the project that holds it.
func (l *ToDoList) Actions() iter.Seq2[*Action, *Project] {
	return func(yield func(*Action, *Project) bool) {
		for p := range l.Projects() {
			for _, a := range p.items {
				if !yield(a, p) {
					return
				}
			}
		}
	}
}

// Items yields every item: contexts, then containers, then actions.
func (l *ToDoList) Items() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, c := range l.ctxList.items {
			if !yield(c) {
				return
			}
		}
		for c := range l.ContainersPreorder() {
			if !yield(c) {
				return
			}
		}
		for a := range l.Actions() {
			if !yield(a) {
				return
			}
		}
	}
}

// ContextByUID returns the context with the given identifier, deleted or not.
func (l *ToDoList) ContextByUID(id uid.UID) (*Context, error) {
	for _, c := range l.ctxList.items {
		if c.uid == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchContext, id)
}

// ContextByName returns the context with the given name. An undeleted
// context wins over deleted ones.
func (l *ToDoList) ContextByName(name string) (*Context, error) {
	var deleted *Context
	for _, c := range l.ctxList.items {
		if c.name != name {
			continue
		}
		if !c.isDeleted {
			return c, nil
		}
		if deleted == nil {
			deleted = c
		}
	}
	if deleted != nil {
		return deleted, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoSuchContext, name)
}

// ActionByUID returns the action with the given identifier and its project.
func (l *ToDoList) ActionByUID(id uid.UID) (*Action, *Project, error) {
	for a, p := range l.Actions() {
		if a.uid == id {
			return a, p, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: no action with %s", ErrNoSuchItem, id)
}

// ProjectByUID returns the project with the given identifier.
func (l *ToDoList) ProjectByUID(id uid.UID) (*Project, error) {
	for p := range l.Projects() {
		if p.uid == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no project with %s", ErrNoSuchItem, id)
}

// FolderByUID returns the folder with the given identifier.
func (l *ToDoList) FolderByUID(id uid.UID) (*Folder, error) {
	for f := range l.Folders() {
		if f.uid == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: no folder with %s", ErrNoSuchItem, id)
}

// ItemByUID looks id up across the whole list: contexts first, then
// containers, then actions.
func (l *ToDoList) ItemByUID(id uid.UID) (Item, error) {
	for item := range l.Items() {
		if item.UID() == id {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchItem, id)
}

// ParentOf returns the container holding item. The inbox's parent is the
// root folder. Parents are not stored, so this searches the tree.
func (l *ToDoList) ParentOf(item Item) (Container, error) {
	switch item := item.(type) {
	case *Context:
		return nil, fmt.Errorf("%w: %s is a context", ErrNoParent, Describe(item))
	case *Folder:
		if item == l.root {
			return nil, fmt.Errorf("%w: the root folder has no parent folder", ErrNoParent)
		}
	case *Project:
		if item == l.inbox {
			return l.root, nil
		}
	case *Action:
	default:
		panic(fmt.Sprintf("tdl: unexpected item %T", item))
	}

	for c := range l.ContainersPreorder() {
		for _, child := range c.Items() {
			if child == item {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s is not in this list", ErrNoParent, Describe(item))
}

// ProjectOf returns the project holding a, or nil.
func (l *ToDoList) ProjectOf(a *Action) *Project {
	for candidate, p := range l.Actions() {
		if candidate == a {
			return p
		}
	}
	return nil
}

// ContextOf returns a's context, or nil when it has none.
func (l *ToDoList) ContextOf(a *Action) *Context {
	if a.ctx == uid.None {
		return nil
	}
	c, err := l.ContextByUID(a.ctx)
	if err != nil {
		return nil
	}
	return c
}

// ActionsInContext returns the actions whose context is ctx. Pass uid.None
// for the actions that have no context.
func (l *ToDoList) ActionsInContext(ctx uid.UID) []*Action {
	var actions []*Action
	for a := range l.Actions() {
		if a.ctx == ctx {
			actions = append(actions, a)
		}
	}
	return actions
}

// ProjectsToReview returns the undeleted, incomplete, active projects
// whose last review is overdue at now.
func (l *ToDoList) ProjectsToReview(now time.Time) []*Project {
	var projects []*Project
	for p := range l.Projects() {
		if p.isDeleted || p.isComplete || !p.isActive {
			continue
		}
		if p.NeedsReview(now) {
			projects = append(projects, p)
		}
	}
	return projects
}

// isAncestor reports whether f is c or contains c somewhere below it.
func isAncestor(f *Folder, c Container) bool {
	if Container(f) == c {
		return true
	}
	for _, child := range f.items {
		if child == c {
			return true
		}
		if sub, ok := child.(*Folder); ok && isAncestor(sub, c) {
			return true
		}
	}
	return false
}

// undeletedDescendant returns the first undeleted item below c, or nil.
func undeletedDescendant(c Container) Item {
	switch c := c.(type) {
	case *Project:
		for _, a := range c.items {
			if !a.isDeleted {
				return a
			}
		}
	case *Folder:
		for _, child := range c.items {
			if !child.IsDeleted() {
				return child
			}
			if d := undeletedDescendant(child); d != nil {
				return d
			}
		}
	default:
		panic(fmt.Sprintf("tdl: unexpected container %T", c))
	}
	return nil
}
