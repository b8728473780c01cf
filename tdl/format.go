package tdl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const dumpIndent = "    "

// String renders the whole list, deleted items included, as nested tags.
func (l *ToDoList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<todolist uid=%d>\n", l.root.uid)
	fmt.Fprintf(&b, "%s<inbox uid=%d>\n", dumpIndent, l.inbox.uid)
	dumpProject(&b, l.inbox, 2)
	fmt.Fprintf(&b, "%s</inbox>\n", dumpIndent)
	dumpFolder(&b, l.root, 1)
	fmt.Fprintf(&b, "%s<contexts>\n", dumpIndent)
	dumpContextList(&b, l.ctxList, 2)
	fmt.Fprintf(&b, "%s</contexts>\n", dumpIndent)
	b.WriteString("</todolist>")
	return b.String()
}

func writeIndented(b *strings.Builder, depth int, format string, args ...any) {
	b.WriteString(strings.Repeat(dumpIndent, depth))
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

func dumpAction(b *strings.Builder, a *Action, depth int) {
	ctx := ""
	if a.ctx != 0 {
		ctx = a.ctx.String()
	}
	writeIndented(b, depth, `<action uid=%d is_deleted="%t" is_complete="%t" name="%s" ctx="%s"/>`,
		a.uid, a.isDeleted, a.isComplete, a.name, ctx)
}

func dumpProject(b *strings.Builder, p *Project, depth int) {
	review := ""
	if p.maxSecondsBeforeReview != DefaultMaxSecondsBeforeReview {
		review = fmt.Sprintf(` max_seconds_before_review="%v"`, p.maxSecondsBeforeReview)
	}
	writeIndented(b, depth, `<project uid=%d is_deleted="%t" is_complete="%t" is_active="%t"%s name="%s">`,
		p.uid, p.isDeleted, p.isComplete, p.isActive, review, p.name)
	for _, a := range p.items {
		dumpAction(b, a, depth+1)
	}
	writeIndented(b, depth, "</project>")
}

func dumpFolder(b *strings.Builder, f *Folder, depth int) {
	writeIndented(b, depth, `<folder uid=%d is_deleted="%t" name="%s">`, f.uid, f.isDeleted, f.name)
	for _, child := range f.items {
		switch child := child.(type) {
		case *Folder:
			dumpFolder(b, child, depth+1)
		case *Project:
			dumpProject(b, child, depth+1)
		default:
			panic(fmt.Sprintf("tdl: unexpected folder child %T", child))
		}
	}
	writeIndented(b, depth, "</folder>")
}

func dumpContextList(b *strings.Builder, l *ContextList, depth int) {
	writeIndented(b, depth, `<context_list uid=%d is_deleted="%t" name="%s">`, l.uid, l.isDeleted, l.name)
	for _, c := range l.items {
		writeIndented(b, depth+1, `<context uid=%d is_deleted="%t" is_active="%t" name="%s"/>`,
			c.uid, c.isDeleted, c.isActive, c.name)
	}
	writeIndented(b, depth, "</context_list>")
}

// WriteTaskPaper writes every project that showProject accepts, and within
// each the actions that showAction accepts, in TaskPaper format. sep joins
// folder names into the project heading.
func WriteTaskPaper(w io.Writer, l *ToDoList, sep string, showProject func(*Project) bool, showAction func(*Action) bool) error {
	bw := bufio.NewWriter(w)
	for p, path := range l.Projects() {
		if !showProject(p) {
			continue
		}

		var prefix strings.Builder
		if p.isComplete {
			prefix.WriteString("@done ")
		}
		if p.isDeleted {
			prefix.WriteString("@deleted ")
		}
		var names []string
		for _, f := range path {
			if f.name != "" {
				names = append(names, f.name)
			}
		}
		if len(names) > 0 {
			prefix.WriteString(strings.Join(names, sep))
			prefix.WriteString(sep)
		}

		fmt.Fprintf(bw, "\n%s%s:\n", prefix.String(), p.name)
		if p.note != "" {
			for line := range strings.SplitSeq(strings.ReplaceAll(p.note, "\r", ""), "\n") {
				fmt.Fprintln(bw, line)
			}
		}
		for _, a := range p.items {
			if showAction(a) {
				fmt.Fprintf(bw, "\t- %s\n", l.taskPaperAction(a))
			}
		}
	}
	return bw.Flush()
}

func (l *ToDoList) taskPaperAction(a *Action) string {
	var b strings.Builder
	b.WriteString(a.name)
	if a.note != "" {
		note := strings.Trim(strings.ReplaceAll(a.note, "\r", ""), "\n")
		b.WriteString("\tnote: ")
		b.WriteString(strings.ReplaceAll(note, "\n", "\t"))
	}
	if c := l.ContextOf(a); c != nil {
		tag := strings.ReplaceAll(c.name, " ", "_")
		if !strings.HasPrefix(tag, "@") {
			tag = "@" + tag
		}
		if !strings.Contains(a.name, tag) {
			b.WriteString(" " + tag)
		}
	}
	if a.isComplete || a.isDeleted {
		b.WriteString(" @done")
	}
	if a.isDeleted {
		b.WriteString(" @deleted")
	}
	return b.String()
}
