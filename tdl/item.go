package tdl

import (
	"fmt"

	"github.com/amonks/immaculater/uid"
)

// Kind distinguishes the types of object stored in a to-do list.
type Kind int

const (
	KindAction Kind = iota + 1
	KindContext
	KindProject
	KindFolder
	KindContextList
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindContext:
		return "context"
	case KindProject:
		return "project"
	case KindFolder:
		return "folder"
	case KindContextList:
		return "context_list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Item is an Action, Context, Project, or Folder. The set is closed: no
// other package can implement Item, so a type switch over those four types
// is exhaustive.
type Item interface {
	UID() uid.UID
	Kind() Kind
	Name() string
	Note() string
	IsDeleted() bool
	CTime() Timestamp
	MTime() Timestamp
	DTime() Timestamp

	audit() *Audit
	setName(string)
	setNote(string)
}

// Container is a Folder or a Project: an item that owns ordered children.
type Container interface {
	Item

	// Items returns the children in order. A Folder's children are Folders
	// and Projects; a Project's are Actions.
	Items() []Item

	isContainer()
}

// named carries the display name and note every item has.
type named struct {
	name string
	note string
}

// Name returns the display name.
func (n *named) Name() string { return n.name }

// Note returns the free-text note.
func (n *named) Note() string { return n.note }

func (n *named) setName(name string) { n.name = name }
func (n *named) setNote(note string) { n.note = note }

// Describe renders an item on one line for error messages, e.g.
// `<project uid=9 is_deleted="false" name="PFaa">`.
func Describe(item Item) string {
	if item == nil {
		return "<nil>"
	}
	return fmt.Sprintf("<%s uid=%d is_deleted=%q name=%q>", item.Kind(), item.UID(), fmt.Sprint(item.IsDeleted()), item.Name())
}

// validateName rejects names that would be parsed as uid=N.
// ValidateName reports whether name may be given to an item.
func ValidateName(name string) error { return validateName(name) }

func validateName(name string) error {
	if uid.HasPrefix(name) {
		return fmt.Errorf("%w: %q", ErrIllegalName, name)
	}
	return nil
}
