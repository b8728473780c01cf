package tdl

import (
	"testing"
	"time"

	"github.com/amonks/immaculater/uid"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestList(t *testing.T) (*ToDoList, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(37, 0)}
	l := New(Options{UIDs: uid.NewFactory(), Clock: clock.Now})
	return l, clock
}

func mustFolder(t *testing.T, l *ToDoList, parent *Folder, name string) *Folder {
	t.Helper()
	f, err := l.AddFolder(parent, name)
	if err != nil {
		t.Fatalf("AddFolder(%q): %v", name, err)
	}
	return f
}

func mustProject(t *testing.T, l *ToDoList, parent *Folder, name string) *Project {
	t.Helper()
	p, err := l.AddProject(parent, name)
	if err != nil {
		t.Fatalf("AddProject(%q): %v", name, err)
	}
	return p
}

func mustAction(t *testing.T, l *ToDoList, p *Project, name string, ctx uid.UID) *Action {
	t.Helper()
	a, err := l.AddAction(p, name, ctx)
	if err != nil {
		t.Fatalf("AddAction(%q): %v", name, err)
	}
	return a
}

func mustContext(t *testing.T, l *ToDoList, name string) *Context {
	t.Helper()
	c, err := l.AddContext(name)
	if err != nil {
		t.Fatalf("AddContext(%q): %v", name, err)
	}
	return c
}

func mustWellFormed(t *testing.T, l *ToDoList) {
	t.Helper()
	if err := l.CheckIsWellFormed(); err != nil {
		t.Fatalf("CheckIsWellFormed: %v\n%s", err, l)
	}
}
