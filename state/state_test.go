package state

import (
	"errors"
	"slices"
	"testing"

	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
	"github.com/amonks/immaculater/viewfilter"
)

type tree struct {
	list  *tdl.ToDoList
	a     *tdl.Folder
	b     *tdl.Project
	c     *tdl.Folder
	oldB  *tdl.Project
	act   *tdl.Action
	inAct *tdl.Action
	home  *tdl.Context
	state *State
}

// newTree builds /a/b (a project holding act), /a/c, a deleted /a/b, and an
// inbox action.
func newTree(t *testing.T) *tree {
	t.Helper()
	l := tdl.New(tdl.Options{})
	tr := &tree{list: l}
	var err error
	must := func() {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	tr.home, err = l.AddContext("home")
	must()
	tr.a, err = l.AddFolder(l.Root(), "a")
	must()
	tr.oldB, err = l.AddProject(tr.a, "b")
	must()
	err = l.Delete(tr.oldB)
	must()
	tr.b, err = l.AddProject(tr.a, "b")
	must()
	tr.c, err = l.AddFolder(tr.a, "c")
	must()
	tr.act, err = l.AddAction(tr.b, "act", tr.home.UID())
	must()
	tr.inAct, err = l.AddAction(l.Inbox(), "stray", uid.None)
	must()

	tr.state, err = New(l, Options{})
	must()
	return tr
}

func TestResolve(t *testing.T) {
	tr := newTree(t)
	l := tr.list

	tests := []struct {
		cwd      tdl.Container
		path     string
		expected tdl.Item
	}{
		{l.Root(), "", l.Root()},
		{l.Root(), "/", l.Root()},
		{l.Root(), ".", l.Root()},
		{l.Root(), "a", tr.a},
		{l.Root(), "/a/", tr.a},
		{l.Root(), "a/b", tr.b},
		{l.Root(), "a/b/act", tr.act},
		{l.Root(), "a/./c/../b", tr.b},
		{l.Root(), "inbox", l.Inbox()},
		{l.Root(), "/inbox/stray", tr.inAct},
		{l.Root(), "uid=1", l.Inbox()},
		{l.Root(), "uid=2", l.Root()},
		{l.Root(), "UID=4", tr.home},
		{l.Root(), "a/uid=6", tr.oldB},
		{tr.c, "..", tr.a},
		{tr.c, "../b", tr.b},
		{tr.c, "/a", tr.a},
		{tr.c, "x//a", tr.a},
		{l.Inbox(), "..", l.Root()},
		{tr.b, "act", tr.act},
	}
	for _, tt := range tests {
		tr.state.SetCurrentWorkingContainer(tt.cwd)
		got, err := tr.state.Resolve(tt.path)
		if err != nil {
			t.Errorf("from %s, Resolve(%q): %v", tt.cwd.Name(), tt.path, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("from %s, Resolve(%q) = %s, expected %s", tt.cwd.Name(), tt.path, tdl.Describe(got), tdl.Describe(tt.expected))
		}
	}
}

func TestResolveDeletedFallback(t *testing.T) {
	tr := newTree(t)
	if err := tr.list.Delete(tr.act); err != nil {
		t.Fatal(err)
	}
	if err := tr.list.Delete(tr.b); err != nil {
		t.Fatal(err)
	}

	got, err := tr.state.Resolve("/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if got != tdl.Item(tr.oldB) {
		t.Errorf("Resolve(/a/b) = %s, expected the first deleted match %s", tdl.Describe(got), tdl.Describe(tr.oldB))
	}
}

func TestResolveErrors(t *testing.T) {
	tr := newTree(t)

	tests := []struct {
		path    string
		wantErr error
	}{
		{"..", ErrAtRoot},
		{"nope", ErrNoSuchChild},
		{"a/nope", ErrNoSuchChild},
		{"uid=0", uid.ErrSyntax},
		{"a/uid=x", uid.ErrSyntax},
		{"uid=999", tdl.ErrNoSuchItem},
		{"a/b/act/deeper", ErrNotAContainer},
	}
	for _, tt := range tests {
		_, err := tr.state.Resolve(tt.path)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Resolve(%q) error = %v, expected %v", tt.path, err, tt.wantErr)
		}
		if !errors.Is(err, tdl.ErrAddressing) {
			t.Errorf("Resolve(%q) error = %v is not an addressing error", tt.path, err)
		}
	}

	_, err := tr.state.Resolve("a/nope")
	var notFound *ChildNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %#v", err)
	}
	if notFound.Container != "/a" || notFound.Name != "nope" {
		t.Errorf("error = %+v", notFound)
	}
	if !slices.Equal(notFound.Choices, []string{".", "..", "b", "b", "c"}) {
		t.Errorf("choices = %v", notFound.Choices)
	}
}

func TestResolveTyped(t *testing.T) {
	tr := newTree(t)

	if _, err := tr.state.ResolveAction("a/b/act"); err != nil {
		t.Errorf("ResolveAction: %v", err)
	}
	if _, err := tr.state.ResolveProject("a/b"); err != nil {
		t.Errorf("ResolveProject: %v", err)
	}
	if _, err := tr.state.ResolveFolder("a"); err != nil {
		t.Errorf("ResolveFolder: %v", err)
	}
	if _, err := tr.state.ResolveAction("a/b"); !errors.Is(err, ErrWrongKind) {
		t.Errorf("ResolveAction(project) error = %v", err)
	}
	if _, err := tr.state.ResolveContainer("a/b/act"); !errors.Is(err, ErrNotAContainer) {
		t.Errorf("ResolveContainer(action) error = %v", err)
	}

	c, err := tr.state.ResolveContext("home")
	if err != nil || c != tr.home {
		t.Errorf("ResolveContext(home) = %v, %v", c, err)
	}
	c, err = tr.state.ResolveContext("uid=4")
	if err != nil || c != tr.home {
		t.Errorf("ResolveContext(uid=4) = %v, %v", c, err)
	}
	if _, err := tr.state.ResolveContext("work"); !errors.Is(err, tdl.ErrNoSuchContext) {
		t.Errorf("ResolveContext(work) error = %v", err)
	}
}

func TestChdirAndPaths(t *testing.T) {
	tr := newTree(t)
	s := tr.state

	if got := s.CurrentPath(); got != "/" {
		t.Errorf("CurrentPath() = %q at the root", got)
	}
	if err := s.Chdir("a/c"); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentPath(); got != "/a/c" {
		t.Errorf("CurrentPath() = %q, expected /a/c", got)
	}
	if err := s.Chdir("/inbox"); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentPath(); got != "/inbox" {
		t.Errorf("CurrentPath() = %q, expected /inbox", got)
	}
	if err := s.Chdir("stray"); !errors.Is(err, ErrNotAContainer) {
		t.Errorf("Chdir(action) error = %v", err)
	}

	odd, err := tr.list.AddFolder(tr.a, "x/y")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.AbsolutePath(odd); got != "/a/x__FORWARD_SLASH__y" {
		t.Errorf("AbsolutePath = %q", got)
	}
}

func TestPathHelpers(t *testing.T) {
	s := &State{sep: "/"}

	tests := []struct {
		path, canonical, base, dir string
	}{
		{"", "", "", ""},
		{"/", "/", "", "/"},
		{"a", "a", "a", ""},
		{"/a", "/a", "a", "/"},
		{"a/b", "a/b", "b", "a"},
		{"/a/b/", "/a/b/", "", "/a/b"},
		{"a//b", "/b", "b", "/"},
		{"a//b//c/d", "/c/d", "d", "/c"},
	}
	for _, tt := range tests {
		if got := s.CanonicalPath(tt.path); got != tt.canonical {
			t.Errorf("CanonicalPath(%q) = %q, expected %q", tt.path, got, tt.canonical)
		}
		if got := s.BaseName(tt.path); got != tt.base {
			t.Errorf("BaseName(%q) = %q, expected %q", tt.path, got, tt.base)
		}
		if got := s.DirName(tt.path); got != tt.dir {
			t.Errorf("DirName(%q) = %q, expected %q", tt.path, got, tt.dir)
		}
	}
}

func TestViews(t *testing.T) {
	tr := newTree(t)
	s := tr.state

	if s.View().Name() != viewfilter.All {
		t.Errorf("default view = %q", s.View().Name())
	}
	if s.Show(tr.oldB) {
		t.Error("default view shows a deleted project")
	}
	if err := s.SetView(viewfilter.AllEvenDeleted); err != nil {
		t.Fatal(err)
	}
	if !s.Show(tr.oldB) {
		t.Error("all_even_deleted hides a deleted project")
	}
	if err := s.SetView("bogus"); !errors.Is(err, viewfilter.ErrUnknownView) {
		t.Errorf("SetView(bogus) error = %v", err)
	}

	if err := s.Chdir("a"); err != nil {
		t.Fatal(err)
	}
	fresh := tdl.New(tdl.Options{})
	s.SetToDoList(fresh)
	if s.CurrentWorkingContainer() != tdl.Container(fresh.Root()) {
		t.Error("SetToDoList did not reset the cursor")
	}
	if s.View().Name() != viewfilter.AllEvenDeleted {
		t.Errorf("SetToDoList lost the view: %q", s.View().Name())
	}
}

func TestMultiCharacterSeparator(t *testing.T) {
	l := tdl.New(tdl.Options{})
	folder, err := l.AddFolder(l.Root(), "x-")
	if err != nil {
		t.Fatal(err)
	}
	prj, err := l.AddProject(folder, "p-")
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(l, Options{Separator: "->"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		trimmed string
		want    tdl.Item
	}{
		{"->", "", l.Root()},
		{"->x-", "->x-", folder},
		{"->x-->", "->x-", folder},
		{"->x-->p-", "->x-->p-", prj},
		{"x-->p-->", "x-->p-", prj},
	}
	for _, tt := range tests {
		if got := s.TrimTrailingSeparators(tt.path); got != tt.trimmed {
			t.Errorf("TrimTrailingSeparators(%q) = %q, expected %q", tt.path, got, tt.trimmed)
		}
		got, err := s.Resolve(tt.path)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %s, expected %s", tt.path, tdl.Describe(got), tdl.Describe(tt.want))
		}
	}
}
