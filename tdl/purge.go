package tdl

import (
	"fmt"
	"slices"

	"github.com/amonks/immaculater/uid"
)

// PurgeDeleted physically removes every deleted item. It refuses, changing
// nothing, while an undeleted action or project still refers to a deleted
// context. Afterwards identifiers need no longer be dense.
func (l *ToDoList) PurgeDeleted() error {
	for a := range l.Actions() {
		if a.isDeleted {
			continue
		}
		if c := l.ContextOf(a); c != nil && c.isDeleted {
			return fmt.Errorf("%w: %s is in deleted %s", ErrStillReferenced, Describe(a), Describe(c))
		}
	}
	for p := range l.Projects() {
		if p.isDeleted || p.defaultCtx == uid.None {
			continue
		}
		if c, err := l.ContextByUID(p.defaultCtx); err == nil && c.isDeleted {
			return fmt.Errorf("%w: %s defaults to deleted %s", ErrStillReferenced, Describe(p), Describe(c))
		}
	}

	purgeProject(l.inbox)
	purgeFolder(l.root)
	l.ctxList.items = slices.DeleteFunc(l.ctxList.items, func(c *Context) bool { return c.isDeleted })
	l.hasNeverPurgedDeleted = false
	return nil
}

func purgeProject(p *Project) {
	p.items = slices.DeleteFunc(p.items, func(a *Action) bool { return a.isDeleted })
}

func purgeFolder(f *Folder) {
	f.items = slices.DeleteFunc(f.items, func(c Container) bool { return c.IsDeleted() })
	for _, child := range f.items {
		switch child := child.(type) {
		case *Folder:
			purgeFolder(child)
		case *Project:
			purgeProject(child)
		default:
			panic(fmt.Sprintf("tdl: unexpected folder child %T", child))
		}
	}
}
