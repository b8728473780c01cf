package tdl

import (
	"fmt"

	"github.com/amonks/immaculater/uid"
)

// CheckIsWellFormed verifies the list's invariants and returns an error
// wrapping ErrStructural if any is broken. A failure means a programmer
// error, not bad input. It does nothing when the list was built with
// SkipWellFormednessCheck.
func (l *ToDoList) CheckIsWellFormed() error {
	if l.opts.SkipWellFormednessCheck {
		return nil
	}

	if l.inbox == nil || l.root == nil || l.ctxList == nil {
		return structuralf("missing inbox, root folder, or context list")
	}

	kinds := map[uid.UID]Kind{l.ctxList.uid: KindContextList}
	if l.ctxList.uid < uid.Min {
		return structuralf("context list has invalid %s", l.ctxList.uid)
	}
	if err := l.ctxList.checkTimestamps(); err != nil {
		return err
	}

	for _, c := range l.ctxList.items {
		if c == nil {
			return structuralf("nil context in the context list")
		}
	}
	if err := l.checkContainer(l.inbox, false); err != nil {
		return err
	}
	if err := l.checkContainer(l.root, false); err != nil {
		return err
	}

	live := map[uid.UID]bool{}
	for item := range l.Items() {
		id := item.UID()
		if id < uid.Min {
			return structuralf("%s has invalid %s", Describe(item), id)
		}
		if err := item.audit().checkTimestamps(); err != nil {
			return err
		}
		if k, ok := kinds[id]; ok && k != item.Kind() {
			return structuralf("%s is used by both a %s and a %s", id, k, item.Kind())
		}
		kinds[id] = item.Kind()
		if !item.IsDeleted() {
			if live[id] {
				return structuralf("%s is shared by two undeleted items", id)
			}
			live[id] = true
		}
	}

	if l.hasNeverPurgedDeleted {
		highest := uid.None
		for id := range kinds {
			if id > highest {
				highest = id
			}
		}
		if int(highest) != len(kinds) {
			return structuralf("identifiers are not dense: max seen is %d instead of the expected %d", highest, len(kinds))
		}
	}
	return nil
}

// checkContainer verifies child kinds and that nothing undeleted lives
// under something deleted.
func (l *ToDoList) checkContainer(c Container, underDeleted bool) error {
	underDeleted = underDeleted || c.IsDeleted()
	switch c := c.(type) {
	case *Project:
		for _, a := range c.items {
			if a == nil {
				return structuralf("nil action in %s", Describe(c))
			}
			if underDeleted && !a.isDeleted {
				return structuralf("undeleted %s lives in deleted %s", Describe(a), Describe(c))
			}
		}
	case *Folder:
		for _, child := range c.items {
			switch child.(type) {
			case *Folder, *Project:
			default:
				return structuralf("%s holds a %T", Describe(c), child)
			}
			if underDeleted && !child.IsDeleted() {
				return structuralf("undeleted %s lives in deleted %s", Describe(child), Describe(c))
			}
			if child == Container(l.inbox) {
				return structuralf("the inbox is inside %s", Describe(c))
			}
			if err := l.checkContainer(child, underDeleted); err != nil {
				return err
			}
		}
	default:
		panic(fmt.Sprintf("tdl: unexpected container %T", c))
	}
	return nil
}
