package tdl

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this module wraps exactly one of these,
// so callers can classify failures with errors.Is.
var (
	// ErrStructural indicates a broken invariant: a programmer error such as
	// a UID collision or a malformed tree. Never recover from it.
	ErrStructural = errors.New("structural invariant violation")

	// ErrAddressing indicates a path, name, or UID that does not identify
	// anything usable.
	ErrAddressing = errors.New("addressing error")

	// ErrMutationRejected indicates a well-formed request that the to-do list
	// refuses, e.g. deleting the inbox.
	ErrMutationRejected = errors.New("mutation rejected")

	// ErrSerialization indicates a save file that cannot be trusted.
	ErrSerialization = errors.New("serialization error")

	// ErrHistory indicates there is nothing to undo or redo.
	ErrHistory = errors.New("history error")
)

var (
	// ErrIllegalName indicates a display name that begins with "uid=".
	ErrIllegalName = fmt.Errorf(`%w: names starting with "uid=" are prohibited`, ErrMutationRejected)

	// ErrDuplicateContext indicates an undeleted context already has the name.
	ErrDuplicateContext = fmt.Errorf("%w: a context by that name already exists", ErrMutationRejected)

	// ErrDeleteInbox indicates an attempt to delete the inbox project.
	ErrDeleteInbox = fmt.Errorf("%w: the inbox cannot be deleted", ErrMutationRejected)

	// ErrDeleteRoot indicates an attempt to delete the root folder.
	ErrDeleteRoot = fmt.Errorf("%w: the root folder cannot be deleted", ErrMutationRejected)

	// ErrCompleteInbox indicates an attempt to mark the inbox complete.
	ErrCompleteInbox = fmt.Errorf("%w: the inbox cannot be marked complete", ErrMutationRejected)

	// ErrDeactivateInbox indicates an attempt to mark the inbox inactive.
	ErrDeactivateInbox = fmt.Errorf("%w: the inbox cannot be marked inactive", ErrMutationRejected)

	// ErrNotEmpty indicates a container with an undeleted descendant.
	ErrNotEmpty = fmt.Errorf("%w: cannot delete because a descendant is not deleted", ErrMutationRejected)

	// ErrDeletedContainer indicates an attempt to add to a deleted container.
	ErrDeletedContainer = fmt.Errorf("%w: cannot add to a deleted container", ErrMutationRejected)

	// ErrItemDeleted indicates an edit that deleted items do not support.
	ErrItemDeleted = fmt.Errorf("%w: the item is deleted", ErrMutationRejected)

	// ErrNotCompletable indicates a folder or context given where an action
	// or project was needed.
	ErrNotCompletable = fmt.Errorf("%w: only actions and projects can be completed", ErrMutationRejected)

	// ErrNotActivatable indicates an item that has no active flag.
	ErrNotActivatable = fmt.Errorf("%w: only projects and contexts can be activated", ErrMutationRejected)

	// ErrMoveRoot indicates an attempt to move the root folder.
	ErrMoveRoot = fmt.Errorf("%w: cannot move the root folder", ErrMutationRejected)

	// ErrMoveInbox indicates an attempt to move the inbox.
	ErrMoveInbox = fmt.Errorf("%w: cannot move the inbox", ErrMutationRejected)

	// ErrMoveIntoSelf indicates a destination that is the item or one of its
	// descendants.
	ErrMoveIntoSelf = fmt.Errorf("%w: cannot move an item into itself", ErrMutationRejected)

	// ErrMoveIntoDeleted indicates a deleted destination.
	ErrMoveIntoDeleted = fmt.Errorf("%w: cannot move into a deleted container", ErrMutationRejected)

	// ErrWrongDestination indicates a destination of the wrong kind, e.g. an
	// action moved into a folder.
	ErrWrongDestination = fmt.Errorf("%w: wrong kind of destination", ErrMutationRejected)

	// ErrStillReferenced indicates a purge blocked by an undeleted referrer.
	ErrStillReferenced = fmt.Errorf("%w: a deleted item is still referenced", ErrMutationRejected)

	// ErrIncompleteActions indicates a project that cannot be completed
	// because it still has undeleted, incomplete actions.
	ErrIncompleteActions = fmt.Errorf("%w: the project has incomplete actions", ErrMutationRejected)

	// ErrInvalidReviewInterval indicates a non-positive review interval.
	ErrInvalidReviewInterval = fmt.Errorf("%w: max seconds before review must be positive", ErrMutationRejected)
)

var (
	// ErrNoSuchContext indicates an unknown context UID or name.
	ErrNoSuchContext = fmt.Errorf("%w: no such context", ErrAddressing)

	// ErrNoSuchItem indicates an unknown UID.
	ErrNoSuchItem = fmt.Errorf("%w: no such item", ErrAddressing)

	// ErrNoSuchNote indicates an unknown entry in the note list.
	ErrNoSuchNote = fmt.Errorf("%w: no such note", ErrAddressing)

	// ErrNoParent indicates an item with no parent container: the root
	// folder, a context, or an item that is not in the tree at all.
	ErrNoParent = fmt.Errorf("%w: no parent container", ErrAddressing)
)

// IsFatal reports whether err indicates corruption (a structural or
// serialization failure) rather than bad user input.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStructural) || errors.Is(err, ErrSerialization)
}

// structuralf builds an ErrStructural error.
func structuralf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

// NotEmptyError reports the undeleted descendant that blocked a delete.
type NotEmptyError struct {
	Container  Container
	Descendant Item
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("%v. descendant=%s", ErrNotEmpty, Describe(e.Descendant))
}

func (e *NotEmptyError) Unwrap() error {
	return ErrNotEmpty
}
