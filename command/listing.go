package command

import (
	"strings"

	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
	"github.com/amonks/immaculater/viewfilter"
)

// timestampLayout formats mtime, ctime, and dtime in long listings.
const timestampLayout = "2006/01/02-15:04:05"

// noContextName stands in for "no context" in listings and arguments.
const noContextName = "<none>"

type lineOptions struct {
	long bool

	// hideContext leaves "--in-context-- X" off action lines, as inctx
	// does because every line would say the same thing.
	hideContext bool

	// name replaces the item's own name, e.g. with "." or "..".
	name string
}

// line renders item as one row of a listing, e.g.
//
//	--action--- --DELETED-- --incomplete-- 'buy milk' --in-context-- @store
func (in *Interpreter) line(item tdl.Item, opts lineOptions) string {
	parts := []string{kindTag(item.Kind())}
	if in.opts.ShowUID {
		parts = append(parts, item.UID().String())
	}
	if item.IsDeleted() {
		parts = append(parts, "--DELETED--")
	}
	if opts.long {
		parts = append(parts, "mtime="+in.formatTimestamp(item.MTime()), "ctime="+in.formatTimestamp(item.CTime()))
		if item.IsDeleted() {
			parts = append(parts, "dtime="+in.formatTimestamp(item.DTime()))
		}
	}

	switch item := item.(type) {
	case *tdl.Action:
		parts = append(parts, completeTag(item.IsComplete()))
	case *tdl.Project:
		parts = append(parts, completeTag(item.IsComplete()), activeTag(item.IsActive()))
	case *tdl.Context:
		parts = append(parts, activeTag(item.IsActive()))
	}

	name := opts.name
	if name == "" {
		name = Quote(item.Name())
	}
	parts = append(parts, name)

	if a, ok := item.(*tdl.Action); ok && !opts.hideContext {
		parts = append(parts, "--in-context--", Quote(in.contextName(a.ContextUID())))
	}
	return strings.Join(parts, " ")
}

// noContextLine renders the pseudo-context that actions without a context
// belong to.
func (in *Interpreter) noContextLine() string {
	parts := []string{kindTag(tdl.KindContext)}
	if in.opts.ShowUID {
		parts = append(parts, uid.None.String())
	}
	parts = append(parts, activeTag(true), Quote(noContextName))
	return strings.Join(parts, " ")
}

func (in *Interpreter) contextName(id uid.UID) string {
	if id == uid.None {
		return noContextName
	}
	c, err := in.st.ToDoList().ContextByUID(id)
	if err != nil {
		return id.String()
	}
	return c.Name()
}

func (in *Interpreter) formatTimestamp(ts tdl.Timestamp) string {
	return ts.Time().In(in.opts.Location).Format(timestampLayout)
}

func kindTag(k tdl.Kind) string {
	switch k {
	case tdl.KindAction:
		return "--action---"
	case tdl.KindProject:
		return "--project--"
	case tdl.KindFolder:
		return "--folder---"
	case tdl.KindContext:
		return "--context--"
	default:
		return "--" + k.String() + "--"
	}
}

func completeTag(complete bool) string {
	if complete {
		return "---COMPLETE---"
	}
	return "--incomplete--"
}

func activeTag(active bool) string {
	if active {
		return "---active---"
	}
	return "--INACTIVE--"
}

// lsOptions carries the flags of one ls invocation.
type lsOptions struct {
	recursive bool
	long      bool
	all       bool
	view      viewfilter.Filter
}

// children returns what ls shows inside c. The inbox is listed first
// inside the root folder.
func (in *Interpreter) children(c tdl.Container, opts lsOptions) []tdl.Item {
	list := in.st.ToDoList()
	var items []tdl.Item
	if c == tdl.Container(list.Root()) {
		items = append(items, list.Inbox())
	}
	items = append(items, c.Items()...)

	shown := items[:0]
	for _, item := range items {
		if opts.all || opts.view.Show(item) {
			shown = append(shown, item)
		}
	}
	return shown
}

// listContainer prints the contents of c and, with -R, the contents of
// every container below it under a "label/child:" heading.
func (in *Interpreter) listContainer(c tdl.Container, label string, opts lsOptions) {
	if opts.all {
		in.println(in.line(c, lineOptions{long: opts.long, name: "."}))
		parent, err := in.st.ToDoList().ParentOf(c)
		if err != nil {
			parent = c
		}
		in.println(in.line(parent, lineOptions{long: opts.long, name: ".."}))
	}

	children := in.children(c, opts)
	for _, item := range children {
		in.println(in.line(item, lineOptions{long: opts.long}))
	}
	if !opts.recursive {
		return
	}
	for _, item := range children {
		child, ok := item.(tdl.Container)
		if !ok {
			continue
		}
		childLabel := in.joinLabel(label, child.Name())
		in.println()
		in.println(childLabel + ":")
		in.listContainer(child, childLabel, opts)
	}
}

func (in *Interpreter) joinLabel(label, name string) string {
	sep := in.st.Separator()
	name = in.st.EscapeName(name)
	if strings.HasSuffix(label, sep) {
		return label + name
	}
	return label + sep + name
}
