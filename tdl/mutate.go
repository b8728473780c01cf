package tdl

import (
	"fmt"
	"slices"
	"time"

	"github.com/amonks/immaculater/uid"
)

// AddContext appends a new, active context.
func (l *ToDoList) AddContext(name string) (*Context, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := l.checkContextNameFree(name, nil); err != nil {
		return nil, err
	}
	now := l.now()
	c := &Context{Audit: newAudit(l.opts.UIDs.Next(), now), named: named{name: name}, isActive: true}
	l.ctxList.items = append(l.ctxList.items, c)
	l.ctxList.touch(now)
	return c, nil
}

func (l *ToDoList) checkContextNameFree(name string, except *Context) error {
	for _, c := range l.ctxList.items {
		if c != except && !c.isDeleted && c.name == name {
			return fmt.Errorf("%w: %q", ErrDuplicateContext, name)
		}
	}
	return nil
}

// AddFolder appends a new folder to parent.
func (l *ToDoList) AddFolder(parent *Folder, name string) (*Folder, error) {
	if err := l.checkAddable(parent, name); err != nil {
		return nil, err
	}
	now := l.now()
	f := &Folder{Audit: newAudit(l.opts.UIDs.Next(), now), named: named{name: name}}
	parent.items = append(parent.items, f)
	parent.touch(now)
	return f, nil
}

// AddProject appends a new, active project to parent.
func (l *ToDoList) AddProject(parent *Folder, name string) (*Project, error) {
	if err := l.checkAddable(parent, name); err != nil {
		return nil, err
	}
	now := l.now()
	p := newProject(l.opts.UIDs.Next(), now, name)
	parent.items = append(parent.items, p)
	parent.touch(now)
	return p, nil
}

// AddAction appends a new action to project. ctx may be uid.None. Adding an
// incomplete action to a complete project makes the project incomplete.
func (l *ToDoList) AddAction(project *Project, name string, ctx uid.UID) (*Action, error) {
	if err := l.checkAddable(project, name); err != nil {
		return nil, err
	}
	if err := l.checkContextAssignable(ctx); err != nil {
		return nil, err
	}
	now := l.now()
	a := &Action{Audit: newAudit(l.opts.UIDs.Next(), now), named: named{name: name}, ctx: ctx}
	project.items = append(project.items, a)
	project.isComplete = false
	project.touch(now)
	return a, nil
}

func (l *ToDoList) checkAddable(parent Container, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if parent.IsDeleted() {
		return fmt.Errorf("%w: %s", ErrDeletedContainer, Describe(parent))
	}
	return nil
}

func (l *ToDoList) checkContextAssignable(ctx uid.UID) error {
	if ctx == uid.None {
		return nil
	}
	c, err := l.ContextByUID(ctx)
	if err != nil {
		return err
	}
	if c.isDeleted {
		return fmt.Errorf("%w: %s", ErrItemDeleted, Describe(c))
	}
	return nil
}

// Rename changes item's display name. Deleted items may be renamed.
func (l *ToDoList) Rename(item Item, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if c, ok := item.(*Context); ok && !c.isDeleted {
		if err := l.checkContextNameFree(name, c); err != nil {
			return err
		}
	}
	item.setName(name)
	item.audit().touch(l.now())
	return nil
}

// SetNote replaces item's note.
func (l *ToDoList) SetNote(item Item, note string) error {
	item.setNote(note)
	item.audit().touch(l.now())
	return nil
}

// Delete soft-deletes item. Containers must have no undeleted descendants.
// Deleting a context removes every reference to it. Deleting something
// already deleted does nothing.
func (l *ToDoList) Delete(item Item) error {
	if item == Item(l.inbox) {
		return ErrDeleteInbox
	}
	if item == Item(l.root) {
		return ErrDeleteRoot
	}
	if item.IsDeleted() {
		return nil
	}

	now := l.now()
	switch item := item.(type) {
	case *Folder, *Project:
		c := item.(Container)
		if d := undeletedDescendant(c); d != nil {
			return &NotEmptyError{Container: c, Descendant: d}
		}
	case *Context:
		l.removeReferencesToContext(item.uid, now)
	case *Action:
	default:
		panic(fmt.Sprintf("tdl: unexpected item %T", item))
	}
	item.audit().setDeleted(now, true)
	return nil
}

func (l *ToDoList) removeReferencesToContext(ctx uid.UID, now Timestamp) {
	for a := range l.Actions() {
		if a.ctx == ctx {
			a.ctx = uid.None
			a.touch(now)
		}
	}
	for p := range l.Projects() {
		if p.defaultCtx == ctx {
			p.defaultCtx = uid.None
			p.touch(now)
		}
	}
}

// Undelete reverses Delete. The item's container must not be deleted, and
// an undeleted context must not already have the same name.
func (l *ToDoList) Undelete(item Item) error {
	if !item.IsDeleted() {
		return nil
	}
	switch item := item.(type) {
	case *Context:
		if err := l.checkContextNameFree(item.name, item); err != nil {
			return err
		}
	case *Action, *Project, *Folder:
		parent, err := l.ParentOf(item)
		if err != nil {
			return err
		}
		if parent.IsDeleted() {
			return fmt.Errorf("%w: %s", ErrDeletedContainer, Describe(parent))
		}
	default:
		panic(fmt.Sprintf("tdl: unexpected item %T", item))
	}
	item.audit().setDeleted(l.now(), false)
	return nil
}

// SetComplete marks an action or project complete or incomplete.
func (l *ToDoList) SetComplete(item Item, complete bool) error {
	if complete && item == Item(l.inbox) {
		return ErrCompleteInbox
	}
	if item.IsDeleted() {
		return fmt.Errorf("%w: %s", ErrItemDeleted, Describe(item))
	}
	switch item := item.(type) {
	case *Action:
		item.isComplete = complete
	case *Project:
		item.isComplete = complete
	case *Folder, *Context:
		return fmt.Errorf("%w: %s", ErrNotCompletable, Describe(item))
	default:
		panic(fmt.Sprintf("tdl: unexpected item %T", item))
	}
	item.audit().touch(l.now())
	return nil
}

// SetActive marks a project or context active or inactive.
func (l *ToDoList) SetActive(item Item, active bool) error {
	if !active && item == Item(l.inbox) {
		return ErrDeactivateInbox
	}
	if item.IsDeleted() {
		return fmt.Errorf("%w: %s", ErrItemDeleted, Describe(item))
	}
	switch item := item.(type) {
	case *Project:
		item.isActive = active
	case *Context:
		item.isActive = active
	case *Folder, *Action:
		return fmt.Errorf("%w: %s", ErrNotActivatable, Describe(item))
	default:
		panic(fmt.Sprintf("tdl: unexpected item %T", item))
	}
	item.audit().touch(l.now())
	return nil
}

// SetContext assigns a's context. Pass uid.None to clear it.
func (l *ToDoList) SetContext(a *Action, ctx uid.UID) error {
	if a.isDeleted {
		return fmt.Errorf("%w: %s", ErrItemDeleted, Describe(a))
	}
	if err := l.checkContextAssignable(ctx); err != nil {
		return err
	}
	a.ctx = ctx
	a.touch(l.now())
	return nil
}

// SetDefaultContext assigns the context new actions in p start in.
func (l *ToDoList) SetDefaultContext(p *Project, ctx uid.UID) error {
	if p.isDeleted {
		return fmt.Errorf("%w: %s", ErrItemDeleted, Describe(p))
	}
	if err := l.checkContextAssignable(ctx); err != nil {
		return err
	}
	p.defaultCtx = ctx
	p.touch(l.now())
	return nil
}

// MarkReviewed records a review of p at when.
func (l *ToDoList) MarkReviewed(p *Project, when time.Time) error {
	p.lastReview = float64(when.UnixMicro()) / 1e6
	p.touch(l.now())
	return nil
}

// MarkNeedsReview forgets p's last review.
func (l *ToDoList) MarkNeedsReview(p *Project) error {
	p.lastReview = 0
	p.touch(l.now())
	return nil
}

// SetMaxSecondsBeforeReview sets how long p may go unreviewed.
func (l *ToDoList) SetMaxSecondsBeforeReview(p *Project, seconds float64) error {
	if !(seconds > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidReviewInterval, seconds)
	}
	p.maxSecondsBeforeReview = seconds
	p.touch(l.now())
	return nil
}

// Move reparents item under dest. Actions go into projects; folders and
// projects go into folders. Moving into the current parent does nothing.
func (l *ToDoList) Move(item Item, dest Container) error {
	if item == Item(l.root) {
		return ErrMoveRoot
	}
	if item == Item(l.inbox) {
		if dest == Container(l.root) {
			return nil
		}
		return ErrMoveInbox
	}

	switch item := item.(type) {
	case *Action:
		if _, ok := dest.(*Project); !ok {
			return fmt.Errorf("%w: an action must move into a project, not %s", ErrWrongDestination, Describe(dest))
		}
	case *Project:
		if _, ok := dest.(*Folder); !ok {
			return fmt.Errorf("%w: a project must move into a folder, not %s", ErrWrongDestination, Describe(dest))
		}
	case *Folder:
		destFolder, ok := dest.(*Folder)
		if !ok {
			return fmt.Errorf("%w: a folder must move into a folder, not %s", ErrWrongDestination, Describe(dest))
		}
		if isAncestor(item, destFolder) {
			return ErrMoveIntoSelf
		}
	case *Context:
		return fmt.Errorf("%w: contexts live in the context list", ErrWrongDestination)
	default:
		panic(fmt.Sprintf("tdl: unexpected item %T", item))
	}
	if dest.IsDeleted() {
		return fmt.Errorf("%w: %s", ErrMoveIntoDeleted, Describe(dest))
	}

	parent, err := l.ParentOf(item)
	if err != nil {
		return err
	}
	if parent == dest {
		return nil
	}

	now := l.now()
	switch item := item.(type) {
	case *Action:
		from, to := parent.(*Project), dest.(*Project)
		from.items = slices.DeleteFunc(from.items, func(a *Action) bool { return a == item })
		to.items = append(to.items, item)
		if !item.isComplete && !item.isDeleted {
			to.isComplete = false
		}
	case *Project, *Folder:
		from, to := parent.(*Folder), dest.(*Folder)
		c := item.(Container)
		from.items = slices.DeleteFunc(from.items, func(x Container) bool { return x == c })
		to.items = append(to.items, c)
	}
	parent.audit().touch(now)
	dest.audit().touch(now)
	item.audit().touch(now)
	return nil
}

// NoteListSet creates or replaces a free-standing note.
func (l *ToDoList) NoteListSet(name, note string) {
	l.notes.notes[name] = note
}

// NoteListDelete removes a free-standing note.
func (l *ToDoList) NoteListDelete(name string) error {
	if _, ok := l.notes.notes[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchNote, name)
	}
	delete(l.notes.notes, name)
	return nil
}

// DeleteCompleted soft-deletes every completed action, then every completed
// project left without undeleted actions. The inbox is never deleted. It
// returns the number of items deleted.
func (l *ToDoList) DeleteCompleted() int {
	now := l.now()
	n := 0
	for p := range l.Projects() {
		for _, a := range p.items {
			if a.isComplete && !a.isDeleted {
				a.setDeleted(now, true)
				n++
			}
		}
		if p == l.inbox || !p.isComplete || p.isDeleted {
			continue
		}
		if undeletedDescendant(p) == nil {
			p.setDeleted(now, true)
			n++
		}
	}
	return n
}
