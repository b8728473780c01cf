package command

import (
	"fmt"
	"strings"

	"github.com/amonks/immaculater/state"
	"github.com/amonks/immaculater/tdl"
	"github.com/spf13/pflag"
)

func editingVerbs() []verb {
	return []verb{
		{name: "mkctx", undoable: true, summary: "Makes a Context.", setup: noFlags(runMkctx)},
		{name: "mkdir", undoable: true, summary: "Makes a Folder at the given path.", setup: noFlags(runMkdir)},
		{name: "mkprj", undoable: true, summary: "Makes a Project at the given path. Its parent must be a Folder.", setup: noFlags(runMkprj)},
		{
			name:     "mkact",
			aliases:  []string{"touch"},
			undoable: true,
			summary:  "Makes an Action at the given path. Its parent must be a Project. The Action starts in the Project's default Context unless --context says otherwise.",
			setup:    setupMkact,
		},
		{name: "rmctx", undoable: true, summary: "Deletes Contexts. Actions in a deleted Context lose their Context.", setup: noFlags(runRmctx)},
		{name: "rmdir", undoable: true, summary: "Deletes Folders. Everything inside must already be deleted.", setup: noFlags(runRmdir)},
		{name: "rmprj", undoable: true, summary: "Deletes Projects. Every Action inside must already be deleted.", setup: noFlags(runRmprj)},
		{name: "rmact", aliases: []string{"rm"}, undoable: true, summary: "Deletes Actions.", setup: noFlags(runRmact)},
		{name: "undelete", undoable: true, summary: "Undeletes items, addressed by path or, for Contexts, by name.", setup: noFlags(runUndelete)},
		{name: "mv", undoable: true, summary: "Moves items into the Folder or Project named by the last argument.", setup: noFlags(runMv)},
		{name: "rename", undoable: true, summary: "Renames the item at the given path.", setup: noFlags(runRename)},
		{name: "renamectx", undoable: true, summary: "Renames a Context.", setup: noFlags(runRenamectx)},
		{name: "chctx", undoable: true, summary: `Changes the Context of the given Actions. Use "<none>" or uid=0 to clear it.`, setup: noFlags(runChctx)},
		{name: "chdefaultctx", undoable: true, summary: "Changes the Context that new Actions in the given Project start in.", setup: noFlags(runChdefaultctx)},
		{
			name:     "complete",
			undoable: true,
			summary:  "Marks Actions or Projects complete. A Project with incomplete Actions needs --force, which completes them too.",
			setup:    setupComplete,
		},
		{name: "uncomplete", undoable: true, summary: "Marks Actions or Projects incomplete.", setup: noFlags(runUncomplete)},
		{name: "activatectx", undoable: true, summary: "Marks a Context active.", setup: noFlags(activateContext(true))},
		{name: "deactivatectx", undoable: true, summary: "Marks a Context inactive, e.g. WaitingFor or SomedayMaybe.", setup: noFlags(activateContext(false))},
		{name: "activateprj", undoable: true, summary: "Marks a Project active.", setup: noFlags(activateProject(true))},
		{name: "deactivateprj", undoable: true, summary: "Marks a Project inactive.", setup: noFlags(activateProject(false))},
		{name: "note", undoable: true, summary: "Replaces the note of the item at the given path. An empty note clears it.", setup: noFlags(runNote)},
		{name: "completereview", undoable: true, summary: "Records that the given Projects were just reviewed.", setup: noFlags(runCompleteReview)},
		{name: "clearreview", undoable: true, summary: "Marks every Project as needing review.", setup: noFlags(runClearReview)},
		{
			name:     "configurereview",
			undoable: true,
			summary:  "Changes how long the given Projects may go without a review.",
			setup:    setupConfigureReview,
		},
		{name: "note-set", undoable: true, summary: "Sets the free-standing note with the given name.", setup: noFlags(runNoteSet)},
		{name: "note-rm", undoable: true, summary: "Removes the free-standing note with the given name.", setup: noFlags(runNoteRm)},
		{name: "deletecompleted", undoable: true, summary: "Deletes completed Actions, then completed Projects left empty.", setup: noFlags(runDeleteCompleted)},
		{name: "purgedeleted", undoable: true, summary: "Permanently removes deleted items. Their identifiers may be reused.", setup: noFlags(runPurgeDeleted)},
	}
}

// parentAndName splits a path into the container that will hold a new item
// and the new item's name.
func (in *Interpreter) parentAndName(verb, path string) (tdl.Container, string, error) {
	name := in.st.BaseName(path)
	if name == "" {
		return nil, "", usageError(verb, "the path %q does not end in a name", path)
	}
	parent, err := in.st.ResolveContainer(in.st.DirName(path))
	if err != nil {
		return nil, "", err
	}
	return parent, name, nil
}

func runMkctx(in *Interpreter, args []string) error {
	if err := wantArgs("mkctx", args, 1); err != nil {
		return err
	}
	_, err := in.st.ToDoList().AddContext(args[0])
	return err
}

func runMkdir(in *Interpreter, args []string) error {
	if err := wantArgs("mkdir", args, 1); err != nil {
		return err
	}
	parent, name, err := in.parentAndName("mkdir", args[0])
	if err != nil {
		return err
	}
	f, ok := parent.(*tdl.Folder)
	if !ok {
		return fmt.Errorf("%w: cannot make a Folder inside %s", state.ErrWrongKind, tdl.Describe(parent))
	}
	_, err = in.st.ToDoList().AddFolder(f, name)
	return err
}

func runMkprj(in *Interpreter, args []string) error {
	if err := wantArgs("mkprj", args, 1); err != nil {
		return err
	}
	parent, name, err := in.parentAndName("mkprj", args[0])
	if err != nil {
		return err
	}
	f, ok := parent.(*tdl.Folder)
	if !ok {
		return fmt.Errorf("%w: cannot make a Project inside %s", state.ErrWrongKind, tdl.Describe(parent))
	}
	_, err = in.st.ToDoList().AddProject(f, name)
	return err
}

func setupMkact(in *Interpreter, fs *pflag.FlagSet) runFunc {
	ctxArg := fs.StringP("context", "c", "", `Context of the new Action; "<none>" or uid=0 for none`)

	return func(args []string) error {
		if err := wantArgs("mkact", args, 1); err != nil {
			return err
		}
		parent, name, err := in.parentAndName("mkact", args[0])
		if err != nil {
			return err
		}
		p, ok := parent.(*tdl.Project)
		if !ok {
			return fmt.Errorf("%w: cannot make an Action inside %s", state.ErrWrongKind, tdl.Describe(parent))
		}
		ctx := p.DefaultContextUID()
		if fs.Changed("context") {
			if ctx, err = in.contextArg(*ctxArg); err != nil {
				return err
			}
		}
		_, err = in.st.ToDoList().AddAction(p, name, ctx)
		return err
	}
}

func needArgs(verb string, args []string, atLeast int) error {
	if len(args) >= atLeast {
		return nil
	}
	return usageError(verb, "needs at least %d arguments; found these arguments: %s", atLeast, formatArgs(args))
}

func runRmctx(in *Interpreter, args []string) error {
	if err := needArgs("rmctx", args, 1); err != nil {
		return err
	}
	for _, name := range args {
		c, err := in.st.ResolveContext(name)
		if err != nil {
			return err
		}
		if err := in.st.ToDoList().Delete(c); err != nil {
			return err
		}
	}
	return nil
}

func runRmdir(in *Interpreter, args []string) error {
	return removeEach(in, "rmdir", args, func(path string) (tdl.Item, error) { return in.st.ResolveFolder(path) })
}

func runRmprj(in *Interpreter, args []string) error {
	return removeEach(in, "rmprj", args, func(path string) (tdl.Item, error) { return in.st.ResolveProject(path) })
}

func runRmact(in *Interpreter, args []string) error {
	return removeEach(in, "rmact", args, func(path string) (tdl.Item, error) { return in.st.ResolveAction(path) })
}

func removeEach(in *Interpreter, verb string, args []string, resolve func(string) (tdl.Item, error)) error {
	if err := needArgs(verb, args, 1); err != nil {
		return err
	}
	for _, path := range args {
		item, err := resolve(path)
		if err != nil {
			return err
		}
		if err := in.st.ToDoList().Delete(item); err != nil {
			return err
		}
		if c, ok := item.(tdl.Container); ok && c == in.st.CurrentWorkingContainer() {
			parent, err := in.st.ToDoList().ParentOf(c)
			if err != nil {
				return err
			}
			in.st.SetCurrentWorkingContainer(parent)
		}
	}
	return nil
}

func runUndelete(in *Interpreter, args []string) error {
	if err := needArgs("undelete", args, 1); err != nil {
		return err
	}
	for _, arg := range args {
		item, err := in.st.Resolve(arg)
		if err != nil {
			c, ctxErr := in.st.ResolveContext(arg)
			if ctxErr != nil {
				return err
			}
			item = c
		}
		if err := in.st.ToDoList().Undelete(item); err != nil {
			return err
		}
	}
	return nil
}

func runMv(in *Interpreter, args []string) error {
	if err := needArgs("mv", args, 2); err != nil {
		return err
	}
	dest, err := in.st.ResolveContainer(args[len(args)-1])
	if err != nil {
		return err
	}
	for _, path := range args[:len(args)-1] {
		item, err := in.st.Resolve(path)
		if err != nil {
			return err
		}
		if err := in.st.ToDoList().Move(item, dest); err != nil {
			return err
		}
	}
	return nil
}

func runRename(in *Interpreter, args []string) error {
	if err := wantArgs("rename", args, 2); err != nil {
		return err
	}
	item, err := in.st.Resolve(args[0])
	if err != nil {
		return err
	}
	return in.st.ToDoList().Rename(item, args[1])
}

func runRenamectx(in *Interpreter, args []string) error {
	if err := wantArgs("renamectx", args, 2); err != nil {
		return err
	}
	c, err := in.st.ResolveContext(args[0])
	if err != nil {
		return err
	}
	return in.st.ToDoList().Rename(c, args[1])
}

func runChctx(in *Interpreter, args []string) error {
	if err := needArgs("chctx", args, 2); err != nil {
		return err
	}
	ctx, err := in.contextArg(args[0])
	if err != nil {
		return err
	}
	for _, path := range args[1:] {
		a, err := in.st.ResolveAction(path)
		if err != nil {
			return err
		}
		if err := in.st.ToDoList().SetContext(a, ctx); err != nil {
			return err
		}
	}
	return nil
}

func runChdefaultctx(in *Interpreter, args []string) error {
	if err := wantArgs("chdefaultctx", args, 2); err != nil {
		return err
	}
	ctx, err := in.contextArg(args[0])
	if err != nil {
		return err
	}
	p, err := in.st.ResolveProject(args[1])
	if err != nil {
		return err
	}
	return in.st.ToDoList().SetDefaultContext(p, ctx)
}

func setupComplete(in *Interpreter, fs *pflag.FlagSet) runFunc {
	force := fs.BoolP("force", "f", false, "complete a Project's incomplete Actions along with it")

	return func(args []string) error {
		if err := needArgs("complete", args, 1); err != nil {
			return err
		}
		list := in.st.ToDoList()
		for _, path := range args {
			item, err := in.st.Resolve(path)
			if err != nil {
				return err
			}
			if p, ok := item.(*tdl.Project); ok {
				if err := completeActions(list, p, *force); err != nil {
					return err
				}
			}
			if err := list.SetComplete(item, true); err != nil {
				return err
			}
		}
		return nil
	}
}

// completeActions completes p's undeleted, incomplete actions when force is
// set, and otherwise refuses if there are any.
func completeActions(list *tdl.ToDoList, p *tdl.Project, force bool) error {
	for _, a := range p.Actions() {
		if a.IsDeleted() || a.IsComplete() {
			continue
		}
		if !force {
			return fmt.Errorf("%w: %s", tdl.ErrIncompleteActions, tdl.Describe(a))
		}
		if err := list.SetComplete(a, true); err != nil {
			return err
		}
	}
	return nil
}

func runUncomplete(in *Interpreter, args []string) error {
	if err := needArgs("uncomplete", args, 1); err != nil {
		return err
	}
	for _, path := range args {
		item, err := in.st.Resolve(path)
		if err != nil {
			return err
		}
		if err := in.st.ToDoList().SetComplete(item, false); err != nil {
			return err
		}
	}
	return nil
}

func activateContext(active bool) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		if err := needArgs("activatectx", args, 1); err != nil {
			return err
		}
		for _, name := range args {
			c, err := in.st.ResolveContext(name)
			if err != nil {
				return err
			}
			if err := in.st.ToDoList().SetActive(c, active); err != nil {
				return err
			}
		}
		return nil
	}
}

func activateProject(active bool) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		if err := needArgs("activateprj", args, 1); err != nil {
			return err
		}
		for _, path := range args {
			p, err := in.st.ResolveProject(path)
			if err != nil {
				return err
			}
			if err := in.st.ToDoList().SetActive(p, active); err != nil {
				return err
			}
		}
		return nil
	}
}

func runNote(in *Interpreter, args []string) error {
	if err := needArgs("note", args, 1); err != nil {
		return err
	}
	item, err := in.st.Resolve(args[0])
	if err != nil {
		return err
	}
	return in.st.ToDoList().SetNote(item, strings.Join(args[1:], " "))
}

func runCompleteReview(in *Interpreter, args []string) error {
	if err := needArgs("completereview", args, 1); err != nil {
		return err
	}
	list := in.st.ToDoList()
	for _, path := range args {
		p, err := in.st.ResolveProject(path)
		if err != nil {
			return err
		}
		if err := list.MarkReviewed(p, list.Now()); err != nil {
			return err
		}
	}
	return nil
}

func runClearReview(in *Interpreter, args []string) error {
	if err := wantArgs("clearreview", args, 0); err != nil {
		return err
	}
	list := in.st.ToDoList()
	for p := range list.Projects() {
		if err := list.MarkNeedsReview(p); err != nil {
			return err
		}
	}
	return nil
}

func setupConfigureReview(in *Interpreter, fs *pflag.FlagSet) runFunc {
	maxSeconds := fs.Float64("max-seconds-before-review", tdl.DefaultMaxSecondsBeforeReview, "seconds a Project may go without a review")

	return func(args []string) error {
		if err := needArgs("configurereview", args, 1); err != nil {
			return err
		}
		list := in.st.ToDoList()
		for _, path := range args {
			p, err := in.st.ResolveProject(path)
			if err != nil {
				return err
			}
			if err := list.SetMaxSecondsBeforeReview(p, *maxSeconds); err != nil {
				return err
			}
		}
		return nil
	}
}

func runNoteSet(in *Interpreter, args []string) error {
	if err := needArgs("note-set", args, 1); err != nil {
		return err
	}
	in.st.ToDoList().NoteListSet(args[0], strings.Join(args[1:], " "))
	return nil
}

func runNoteRm(in *Interpreter, args []string) error {
	if err := wantArgs("note-rm", args, 1); err != nil {
		return err
	}
	return in.st.ToDoList().NoteListDelete(args[0])
}

func runDeleteCompleted(in *Interpreter, args []string) error {
	if err := wantArgs("deletecompleted", args, 0); err != nil {
		return err
	}
	n := in.st.ToDoList().DeleteCompleted()
	in.opts.Logger.Info("deleted completed items", "count", n)
	return nil
}

func runPurgeDeleted(in *Interpreter, args []string) error {
	if err := wantArgs("purgedeleted", args, 0); err != nil {
		return err
	}
	if err := in.st.ToDoList().PurgeDeleted(); err != nil {
		return err
	}
	if in.st.CurrentWorkingContainer().IsDeleted() {
		in.st.SetCurrentWorkingContainer(in.st.ToDoList().Root())
	}
	return nil
}
