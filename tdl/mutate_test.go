package tdl

import (
	"errors"
	"testing"
	"time"

	"github.com/amonks/immaculater/uid"
)

func TestTimestamps(t *testing.T) {
	l, clock := newTestList(t)

	p := mustProject(t, l, l.Root(), "p")
	a := mustAction(t, l, p, "a", uid.None)
	if a.CTime() != a.MTime() || a.DTime() != Never {
		t.Fatalf("new action: ctime=%d mtime=%d dtime=%d", a.CTime(), a.MTime(), a.DTime())
	}

	clock.Advance(time.Second)
	if err := l.Rename(a, "b"); err != nil {
		t.Fatal(err)
	}
	if a.MTime() != a.CTime()+1_000_000 {
		t.Errorf("rename did not stamp mtime: ctime=%d mtime=%d", a.CTime(), a.MTime())
	}

	clock.Advance(-time.Hour)
	if err := l.SetComplete(a, true); err != nil {
		t.Fatal(err)
	}
	if a.MTime() < a.CTime() {
		t.Errorf("mtime %d before ctime %d after the clock ran backwards", a.MTime(), a.CTime())
	}

	clock.Advance(2 * time.Hour)
	if err := l.Delete(a); err != nil {
		t.Fatal(err)
	}
	if !a.IsDeleted() || a.DTime() == Never || a.DTime() < a.CTime() {
		t.Errorf("deleted action: is_deleted=%t ctime=%d dtime=%d", a.IsDeleted(), a.CTime(), a.DTime())
	}

	if err := l.Undelete(a); err != nil {
		t.Fatal(err)
	}
	if a.IsDeleted() || a.DTime() != Never {
		t.Errorf("undeleted action: is_deleted=%t dtime=%d", a.IsDeleted(), a.DTime())
	}

	before := p.MTime()
	clock.Advance(time.Second)
	mustAction(t, l, p, "c", uid.None)
	if p.MTime() <= before {
		t.Errorf("adding a child did not touch the project")
	}
	mustWellFormed(t, l)
}

func TestDeleteNonEmptyContainer(t *testing.T) {
	l, _ := newTestList(t)

	f := mustFolder(t, l, l.Root(), "f")
	p := mustProject(t, l, f, "p")
	a := mustAction(t, l, p, "a", uid.None)

	err := l.Delete(f)
	if !errors.Is(err, ErrNotEmpty) || !errors.Is(err, ErrMutationRejected) {
		t.Fatalf("Delete(folder) error = %v, expected ErrNotEmpty", err)
	}
	var notEmpty *NotEmptyError
	if !errors.As(err, &notEmpty) || notEmpty.Descendant != Item(p) {
		t.Fatalf("Delete(folder) error = %#v, expected the project as the descendant", err)
	}

	if err := l.Delete(p); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("Delete(project) error = %v, expected ErrNotEmpty", err)
	}

	for _, item := range []Item{a, p, f} {
		if err := l.Delete(item); err != nil {
			t.Fatalf("Delete(%s): %v", Describe(item), err)
		}
	}
	mustWellFormed(t, l)

	if _, err := l.AddProject(f, "q"); !errors.Is(err, ErrDeletedContainer) {
		t.Errorf("AddProject(deleted folder) error = %v", err)
	}
	if _, err := l.AddAction(p, "b", uid.None); !errors.Is(err, ErrDeletedContainer) {
		t.Errorf("AddAction(deleted project) error = %v", err)
	}
	if err := l.Undelete(a); !errors.Is(err, ErrDeletedContainer) {
		t.Errorf("Undelete(action in deleted project) error = %v", err)
	}
}

func TestProtectedItems(t *testing.T) {
	l, _ := newTestList(t)
	f := mustFolder(t, l, l.Root(), "f")

	tests := []struct {
		name    string
		do      func() error
		wantErr error
	}{
		{"delete inbox", func() error { return l.Delete(l.Inbox()) }, ErrDeleteInbox},
		{"delete root", func() error { return l.Delete(l.Root()) }, ErrDeleteRoot},
		{"complete inbox", func() error { return l.SetComplete(l.Inbox(), true) }, ErrCompleteInbox},
		{"deactivate inbox", func() error { return l.SetActive(l.Inbox(), false) }, ErrDeactivateInbox},
		{"complete folder", func() error { return l.SetComplete(f, true) }, ErrNotCompletable},
		{"activate folder", func() error { return l.SetActive(f, true) }, ErrNotActivatable},
		{"illegal name", func() error { return l.Rename(f, "UID=7") }, ErrIllegalName},
		{"uncomplete inbox", func() error { return l.SetComplete(l.Inbox(), false) }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.do()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, expected %v", err, tt.wantErr)
			}
			if tt.wantErr != nil && !errors.Is(err, ErrMutationRejected) {
				t.Fatalf("error %v is not a rejected mutation", err)
			}
		})
	}
}

func TestDuplicateContexts(t *testing.T) {
	l, _ := newTestList(t)

	home := mustContext(t, l, "home")
	work := mustContext(t, l, "work")

	if _, err := l.AddContext("home"); !errors.Is(err, ErrDuplicateContext) {
		t.Fatalf("AddContext(home) error = %v", err)
	}
	if err := l.Rename(work, "home"); !errors.Is(err, ErrDuplicateContext) {
		t.Fatalf("Rename(work, home) error = %v", err)
	}
	if err := l.Rename(home, "home"); err != nil {
		t.Fatalf("renaming a context to its own name: %v", err)
	}
	if err := l.Delete(home); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddContext("home"); err != nil {
		t.Fatalf("AddContext(home) after deleting the old one: %v", err)
	}
	if err := l.Undelete(home); !errors.Is(err, ErrDuplicateContext) {
		t.Fatalf("Undelete(home) error = %v", err)
	}
}

func TestDeleteContextClearsReferences(t *testing.T) {
	l, _ := newTestList(t)

	home := mustContext(t, l, "home")
	p := mustProject(t, l, l.Root(), "p")
	a := mustAction(t, l, p, "a", home.UID())
	if err := l.SetDefaultContext(p, home.UID()); err != nil {
		t.Fatal(err)
	}

	if err := l.Delete(home); err != nil {
		t.Fatal(err)
	}
	if a.ContextUID() != uid.None {
		t.Errorf("action still in context %d", a.ContextUID())
	}
	if p.DefaultContextUID() != uid.None {
		t.Errorf("project still defaults to context %d", p.DefaultContextUID())
	}
	if err := l.SetContext(a, home.UID()); !errors.Is(err, ErrItemDeleted) {
		t.Errorf("SetContext(deleted context) error = %v", err)
	}
	if err := l.SetContext(a, 99); !errors.Is(err, ErrNoSuchContext) {
		t.Errorf("SetContext(99) error = %v", err)
	}
}

func TestMove(t *testing.T) {
	l, _ := newTestList(t)

	a := mustFolder(t, l, l.Root(), "a")
	b := mustFolder(t, l, a, "b")
	p := mustProject(t, l, b, "p")
	q := mustProject(t, l, l.Root(), "q")
	act := mustAction(t, l, p, "act", uid.None)
	gone := mustFolder(t, l, l.Root(), "gone")
	if err := l.Delete(gone); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		item    Item
		dest    Container
		wantErr error
	}{
		{"root", l.Root(), a, ErrMoveRoot},
		{"inbox", l.Inbox(), a, ErrMoveInbox},
		{"inbox to root", l.Inbox(), l.Root(), nil},
		{"into itself", a, a, ErrMoveIntoSelf},
		{"into descendant", a, b, ErrMoveIntoSelf},
		{"into deleted", p, gone, ErrMoveIntoDeleted},
		{"action into folder", act, a, ErrWrongDestination},
		{"project into project", p, q, ErrWrongDestination},
		{"into current parent", p, b, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.Move(tt.item, tt.dest); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Move error = %v, expected %v", err, tt.wantErr)
			}
		})
	}

	if err := l.Move(act, q); err != nil {
		t.Fatalf("Move(action, q): %v", err)
	}
	if len(p.Actions()) != 0 || len(q.Actions()) != 1 || l.ProjectOf(act) != q {
		t.Fatalf("action did not move: p=%d q=%d", len(p.Actions()), len(q.Actions()))
	}

	if err := l.Move(b, l.Root()); err != nil {
		t.Fatalf("Move(b, root): %v", err)
	}
	if parent, _ := l.ParentOf(b); parent != Container(l.Root()) {
		t.Fatalf("ParentOf(b) = %s", Describe(parent))
	}
	if len(a.Children()) != 0 {
		t.Fatalf("a still has %d children", len(a.Children()))
	}
	mustWellFormed(t, l)
}

func TestIncompleteActionReopensProject(t *testing.T) {
	l, _ := newTestList(t)

	p := mustProject(t, l, l.Root(), "p")
	if err := l.SetComplete(p, true); err != nil {
		t.Fatal(err)
	}
	mustAction(t, l, p, "more work", uid.None)
	if p.IsComplete() {
		t.Error("project is still complete after gaining an incomplete action")
	}

	if err := l.SetComplete(p, true); err != nil {
		t.Fatal(err)
	}
	inboxed := mustAction(t, l, l.Inbox(), "stray", uid.None)
	if err := l.Move(inboxed, p); err != nil {
		t.Fatal(err)
	}
	if p.IsComplete() {
		t.Error("project is still complete after an incomplete action moved in")
	}
}

func TestDeleteCompleted(t *testing.T) {
	l, _ := newTestList(t)

	foo := mustAction(t, l, l.Inbox(), "foo", uid.None)
	bar := mustAction(t, l, l.Inbox(), "bar", uid.None)
	if err := l.SetComplete(bar, true); err != nil {
		t.Fatal(err)
	}

	done := mustProject(t, l, l.Root(), "done")
	finished := mustAction(t, l, done, "finished", uid.None)
	if err := l.SetComplete(finished, true); err != nil {
		t.Fatal(err)
	}
	if err := l.SetComplete(done, true); err != nil {
		t.Fatal(err)
	}

	busy := mustProject(t, l, l.Root(), "busy")
	mustAction(t, l, busy, "todo", uid.None)
	if err := l.SetComplete(busy, true); err != nil {
		t.Fatal(err)
	}

	if n := l.DeleteCompleted(); n != 3 {
		t.Errorf("DeleteCompleted deleted %d items, expected 3", n)
	}
	if foo.IsDeleted() || !bar.IsDeleted() || !finished.IsDeleted() || !done.IsDeleted() {
		t.Errorf("foo=%t bar=%t finished=%t done=%t", foo.IsDeleted(), bar.IsDeleted(), finished.IsDeleted(), done.IsDeleted())
	}
	if busy.IsDeleted() {
		t.Error("deleted a project with an incomplete action")
	}
	if l.Inbox().IsDeleted() {
		t.Error("deleted the inbox")
	}
	mustWellFormed(t, l)
}

func TestNoteList(t *testing.T) {
	l, _ := newTestList(t)

	l.NoteListSet(":__weekly_review", "1. empty inbox")
	l.NoteListSet("a", "b")
	if got := l.Notes().Names(); len(got) != 2 || got[0] != ":__weekly_review" {
		t.Fatalf("Names = %v", got)
	}
	if err := l.NoteListDelete("a"); err != nil {
		t.Fatal(err)
	}
	if err := l.NoteListDelete("a"); !errors.Is(err, ErrNoSuchNote) {
		t.Fatalf("second NoteListDelete error = %v", err)
	}
}
