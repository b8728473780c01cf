package editor

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/amonks/immaculater/tdl"
)

func sampleList(t *testing.T) (*tdl.ToDoList, *tdl.Project, *tdl.Action, *tdl.Context) {
	t.Helper()
	list := tdl.New(tdl.Options{Clock: func() time.Time { return time.Unix(100, 0) }})
	ctx, err := list.AddContext("@home")
	if err != nil {
		t.Fatalf("AddContext: %v", err)
	}
	p, err := list.AddProject(list.Root(), "P")
	if err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	a, err := list.AddAction(p, "call mom", ctx.UID())
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if err := list.SetNote(a, "ask about\nthe weekend"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	return list, p, a, ctx
}

func TestRenderItemTOML_Action(t *testing.T) {
	list, _, a, _ := sampleList(t)

	content, err := RenderItemTOML(DataFromItem(list, a, "/P/call mom"))
	if err != nil {
		t.Fatalf("RenderItemTOML failed: %v", err)
	}

	want := `# action "/P/call mom"
name = "call mom"
context = "@home" # "<none>" for no context
complete = false
---
ask about
the weekend
`
	if content != want {
		t.Fatalf("unexpected content\n got: %q\nwant: %q", content, want)
	}
}

func TestRenderItemTOML_KindSpecificFields(t *testing.T) {
	list, p, _, ctx := sampleList(t)

	projectContent, err := RenderItemTOML(DataFromItem(list, p, "/P"))
	if err != nil {
		t.Fatalf("RenderItemTOML failed: %v", err)
	}
	if !strings.Contains(projectContent, "complete = false") || !strings.Contains(projectContent, "active = true") {
		t.Errorf("project content missing fields: %q", projectContent)
	}
	if strings.Contains(projectContent, "context =") {
		t.Errorf("project content should have no context: %q", projectContent)
	}

	ctxContent, err := RenderItemTOML(DataFromItem(list, ctx, "@home"))
	if err != nil {
		t.Fatalf("RenderItemTOML failed: %v", err)
	}
	if strings.Contains(ctxContent, "complete =") || !strings.Contains(ctxContent, "active = true") {
		t.Errorf("unexpected context content: %q", ctxContent)
	}
}

func TestParseItemTOML(t *testing.T) {
	parsed, err := ParseItemTOML(`# action "/P/a"
name = "  call dad "
context = "<none>"
complete = true
---

new note
---
still note

`)
	if err != nil {
		t.Fatalf("ParseItemTOML: %v", err)
	}
	if parsed.Name != "call dad" {
		t.Errorf("Name = %q", parsed.Name)
	}
	if parsed.Context == nil || *parsed.Context != NoContext {
		t.Errorf("Context = %v", parsed.Context)
	}
	if parsed.Complete == nil || !*parsed.Complete {
		t.Errorf("Complete = %v", parsed.Complete)
	}
	if parsed.Active != nil {
		t.Errorf("Active = %v, expected unset", *parsed.Active)
	}
	if parsed.Note != "new note\n---\nstill note" {
		t.Errorf("Note = %q", parsed.Note)
	}
}

func TestParseItemTOML_Errors(t *testing.T) {
	for _, content := range []string{"name = \"\"\n---\n", "name = [\n---\n", ""} {
		if _, err := ParseItemTOML(content); err == nil {
			t.Errorf("ParseItemTOML(%q) expected error", content)
		}
	}
}

func TestCommands(t *testing.T) {
	list, p, a, ctx := sampleList(t)
	ref := a.UID().String()

	before := DataFromItem(list, a, "/P/call mom")
	content, err := RenderItemTOML(before)
	if err != nil {
		t.Fatalf("RenderItemTOML: %v", err)
	}
	unchanged, err := ParseItemTOML(content)
	if err != nil {
		t.Fatalf("ParseItemTOML: %v", err)
	}
	if cmds := unchanged.Commands(before); len(cmds) != 0 {
		t.Fatalf("unchanged item produced commands %v", cmds)
	}

	none, yes := NoContext, true
	changed := &ParsedItem{Name: "call dad", Context: &none, Complete: &yes, Active: &yes, Note: ""}
	got := changed.Commands(before)
	want := [][]string{
		{"rename", ref, "call dad"},
		{"chctx", "<none>", ref},
		{"complete", ref},
		{"note", ref, ""},
	}
	if !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Fatalf("Commands = %q, want %q", got, want)
	}

	no := false
	ctxBefore := DataFromItem(list, ctx, "@home")
	got = (&ParsedItem{Name: "@house", Active: &no}).Commands(ctxBefore)
	want = [][]string{{"renamectx", ctx.UID().String(), "@house"}, {"deactivatectx", ctx.UID().String()}}
	if !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Fatalf("context Commands = %q, want %q", got, want)
	}

	prjBefore := DataFromItem(list, p, "/P")
	got = (&ParsedItem{Name: "P", Active: &no}).Commands(prjBefore)
	want = [][]string{{"deactivateprj", p.UID().String()}}
	if !slices.EqualFunc(got, want, slices.Equal[[]string]) {
		t.Fatalf("project Commands = %q, want %q", got, want)
	}
}
