package editor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/amonks/immaculater/internal/strings"
	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
)

// NoContext is how an action without a context is written.
const NoContext = "<none>"

// ItemData is what the editor shows for one item.
type ItemData struct {
	UID  uid.UID
	Kind tdl.Kind
	// Path is shown in a comment so the user knows what they are editing.
	Path string
	Name string
	// Context is set for actions only.
	Context *string
	// Complete is set for actions and projects.
	Complete *bool
	// Active is set for projects and contexts.
	Active *bool
	Note   string
}

// DataFromItem describes item, which lives at path in list.
func DataFromItem(list *tdl.ToDoList, item tdl.Item, path string) ItemData {
	data := ItemData{UID: item.UID(), Kind: item.Kind(), Path: path, Name: item.Name(), Note: item.Note()}
	switch it := item.(type) {
	case *tdl.Action:
		ctx := NoContext
		if c := list.ContextOf(it); c != nil {
			ctx = c.Name()
		}
		complete := it.IsComplete()
		data.Context, data.Complete = &ctx, &complete
	case *tdl.Project:
		complete, active := it.IsComplete(), it.IsActive()
		data.Complete, data.Active = &complete, &active
	case *tdl.Context:
		active := it.IsActive()
		data.Active = &active
	}
	return data
}

var itemTemplate = template.Must(template.New("item").Parse(`# {{ .Kind }} {{ printf "%q" .Path }}
name = {{ printf "%q" .Name }}
{{- if .HasContext }}
context = {{ printf "%q" .Context }} # "<none>" for no context
{{- end }}
{{- if .HasComplete }}
complete = {{ .Complete }}
{{- end }}
{{- if .HasActive }}
active = {{ .Active }}
{{- end }}
---
{{ .Note }}
`))

type itemView struct {
	Kind, Path, Name, Note string

	HasContext  bool
	Context     string
	HasComplete bool
	Complete    bool
	HasActive   bool
	Active      bool
}

// RenderItemTOML renders data as TOML frontmatter followed by the note.
func RenderItemTOML(data ItemData) (string, error) {
	view := itemView{Kind: data.Kind.String(), Path: data.Path, Name: data.Name, Note: data.Note}
	if data.Context != nil {
		view.HasContext, view.Context = true, *data.Context
	}
	if data.Complete != nil {
		view.HasComplete, view.Complete = true, *data.Complete
	}
	if data.Active != nil {
		view.HasActive, view.Active = true, *data.Active
	}

	var buf bytes.Buffer
	if err := itemTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedItem is what came back from the editor.
type ParsedItem struct {
	Name     string  `toml:"name"`
	Context  *string `toml:"context"`
	Complete *bool   `toml:"complete"`
	Active   *bool   `toml:"active"`
	Note     string
}

// ParseItemTOML parses the editor's output.
func ParseItemTOML(content string) (*ParsedItem, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedItem
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Name = internalstrings.CollapseWhitespace(parsed.Name)
	if parsed.Name == "" {
		return nil, fmt.Errorf("name must not be empty")
	}
	parsed.Note = internalstrings.CleanNote(body)
	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}

// Commands returns the command lines, as argument lists, that turn the
// item described by before into what p describes. Fields that do not
// apply to the item's kind are ignored.
func (p *ParsedItem) Commands(before ItemData) [][]string {
	ref := before.UID.String()
	var cmds [][]string
	if p.Name != before.Name {
		verb := "rename"
		if before.Kind == tdl.KindContext {
			verb = "renamectx"
		}
		cmds = append(cmds, []string{verb, ref, p.Name})
	}
	if before.Context != nil && p.Context != nil && *p.Context != *before.Context {
		cmds = append(cmds, []string{"chctx", *p.Context, ref})
	}
	if before.Complete != nil && p.Complete != nil && *p.Complete != *before.Complete {
		verb := "uncomplete"
		if *p.Complete {
			verb = "complete"
		}
		cmds = append(cmds, []string{verb, ref})
	}
	if before.Active != nil && p.Active != nil && *p.Active != *before.Active {
		verb := "deactivate"
		if *p.Active {
			verb = "activate"
		}
		if before.Kind == tdl.KindContext {
			verb += "ctx"
		} else {
			verb += "prj"
		}
		cmds = append(cmds, []string{verb, ref})
	}
	if p.Note != strings.TrimRight(before.Note, "\n") {
		cmds = append(cmds, []string{"note", ref, p.Note})
	}
	return cmds
}

// EditItem opens the editor on data and returns the parsed result.
func EditItem(ctx context.Context, data ItemData) (*ParsedItem, error) {
	content, err := RenderItemTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "imm-item-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(ctx, tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseItemTOML(string(edited))
}
