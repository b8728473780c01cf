package command

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/amonks/immaculater/internal/markdown"
	"github.com/amonks/immaculater/internal/validation"
	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
	"github.com/amonks/immaculater/viewfilter"
	"github.com/spf13/pflag"
)

func navigationVerbs() []verb {
	return []verb{
		{
			name:    "cd",
			summary: "Changes the current working Folder or Project. With no argument, goes to the root folder.",
			setup:   noFlags(runCd),
		},
		{
			name:    "pwd",
			summary: `Prints the current working "directory" if you will, a Folder or a Project.`,
			setup:   noFlags(runPwd),
		},
		{
			name:    "ls",
			summary: "Lists immediate contents of the current working Folder/Project, or of each path given. The view filter controls which items are visible.",
			setup:   setupLs,
		},
		{
			name:    "lsctx",
			summary: "Lists Contexts, or the one Context given.",
			setup:   setupLsctx,
		},
		{
			name:    "lsprj",
			summary: "Lists the paths of all Projects, or describes the one Project given (requires --json).",
			setup:   setupLsprj,
		},
		{
			name:    "inctx",
			summary: `Lists the Actions in the given Context. Use "<none>" or uid=0 for Actions without one.`,
			setup:   setupInctx,
		},
		{
			name:    "inprj",
			summary: "Lists the Actions in the given Project, or the current working Project.",
			setup:   setupInprj,
		},
		{
			name:    "needsreview",
			summary: "Lists the paths of Projects due for a weekly review.",
			setup:   noFlags(runNeedsReview),
		},
		{
			name:    "view",
			summary: "Prints or changes the view filter that decides which items ls and friends show.",
			setup:   noFlags(runView),
		},
		{
			name:    "cat",
			summary: "Prints the note of each item given, rendered as markdown.",
			setup:   setupCat,
		},
		{
			name:    "dump",
			summary: "Prints the whole to-do list, deleted items included.",
			setup:   noFlags(runDump),
		},
		{
			name:    "astaskpaper",
			aliases: []string{"taskpaper", "txt"},
			summary: "Prints the Projects and Actions the view filter shows in TaskPaper format.",
			setup:   noFlags(runTaskPaper),
		},
		{
			name:    "echo",
			summary: "Echoes the arguments and prints a newline as the unix command echo(1) does.",
			setup:   noFlags(runEcho),
		},
		{
			name:    "echolines",
			summary: "Echoes each argument on its own line.",
			setup:   noFlags(runEcholines),
		},
		{
			name:    "note-ls",
			summary: "Lists the names of the free-standing notes.",
			setup:   noFlags(runNoteLs),
		},
		{
			name:    "note-get",
			summary: "Prints the free-standing note with the given name.",
			setup:   noFlags(runNoteGet),
		},
	}
}

func runCd(in *Interpreter, args []string) error {
	if err := wantAtMostOneArg("cd", args); err != nil {
		return err
	}
	if len(args) == 0 {
		in.st.SetCurrentWorkingContainer(in.st.ToDoList().Root())
		return nil
	}
	return in.st.Chdir(args[0])
}

func runPwd(in *Interpreter, args []string) error {
	if err := wantArgs("pwd", args, 0); err != nil {
		return err
	}
	in.println(in.st.CurrentPath())
	return nil
}

func setupLs(in *Interpreter, fs *pflag.FlagSet) runFunc {
	recursive := fs.BoolP("recursive", "R", false, "additionally list subfolders and subprojects recursively")
	long := fs.BoolP("long", "l", false, "additionally list timestamps ctime, mtime, and dtime")
	all := fs.BoolP("all", "a", false, "list everything, including '.' and '..', overriding the view filter")
	viewAlias := fs.StringP("view", "v", "", "use this view filter instead of the current one: "+validation.FormatValidValues(viewfilter.Aliases()))

	return func(args []string) error {
		opts := lsOptions{recursive: *recursive, long: *long, all: *all, view: in.st.View()}
		if *viewAlias != "" {
			view, err := viewfilter.New(*viewAlias, viewfilter.ForList(in.st.ToDoList()))
			if err != nil {
				return err
			}
			opts.view = view
		}

		if len(args) == 0 {
			in.listContainer(in.st.CurrentWorkingContainer(), ".", opts)
			return nil
		}
		for i, path := range args {
			item, err := in.st.Resolve(path)
			if err != nil {
				return err
			}
			c, ok := item.(tdl.Container)
			if !ok {
				in.println(in.line(item, lineOptions{long: opts.long}))
				continue
			}
			if len(args) > 1 {
				if i > 0 {
					in.println()
				}
				in.println(path + ":")
			}
			in.listContainer(c, in.st.TrimTrailingSeparators(path)+in.st.Separator(), opts)
		}
		return nil
	}
}

func setupLsctx(in *Interpreter, fs *pflag.FlagSet) runFunc {
	long := fs.BoolP("long", "l", false, "additionally list timestamps")
	asJSON := fs.Bool("json", false, "print JSON")

	return func(args []string) error {
		if err := wantAtMostOneArg("lsctx", args); err != nil {
			return err
		}
		list := in.st.ToDoList()
		if len(args) == 1 {
			c, err := in.st.ResolveContext(args[0])
			if err != nil {
				return err
			}
			if *asJSON {
				return in.printJSON(in.contextJSON(c))
			}
			in.println(in.line(c, lineOptions{long: *long}))
			return nil
		}

		if *asJSON {
			out := []contextJSON{{UID: uid.None, Name: noContextName, IsActive: true, NumberOfItems: len(list.ActionsInContext(uid.None))}}
			for _, c := range list.Contexts().Items() {
				if in.st.Show(c) {
					out = append(out, in.contextJSON(c))
				}
			}
			return in.printJSON(out)
		}
		in.println(in.noContextLine())
		for _, c := range list.Contexts().Items() {
			if in.st.Show(c) {
				in.println(in.line(c, lineOptions{long: *long}))
			}
		}
		return nil
	}
}

func setupLsprj(in *Interpreter, fs *pflag.FlagSet) runFunc {
	asJSON := fs.Bool("json", false, "print JSON")

	return func(args []string) error {
		if err := wantAtMostOneArg("lsprj", args); err != nil {
			return err
		}
		if len(args) == 1 {
			if !*asJSON {
				return usageError("lsprj", "with an argument, --json is required")
			}
			p, err := in.st.ResolveProject(args[0])
			if err != nil {
				return err
			}
			return in.printJSON(in.projectJSON(p))
		}

		out := []projectJSON{}
		for p := range in.st.ToDoList().Projects() {
			if !in.st.Show(p) {
				continue
			}
			if *asJSON {
				out = append(out, in.projectJSON(p))
			} else {
				in.println(in.st.AbsolutePath(p))
			}
		}
		if *asJSON {
			return in.printJSON(out)
		}
		return nil
	}
}

func setupInctx(in *Interpreter, fs *pflag.FlagSet) runFunc {
	sortBy := fs.String("sort-by", "natural", "order of the Actions: natural (as ls -R shows them) or uid")
	asJSON := fs.Bool("json", false, "print JSON")

	return func(args []string) error {
		if err := wantArgs("inctx", args, 1); err != nil {
			return err
		}
		ctx, err := in.contextArg(args[0])
		if err != nil {
			return err
		}

		var actions []*tdl.Action
		for a := range in.st.ToDoList().Actions() {
			if a.ContextUID() == ctx && in.st.Show(a) {
				actions = append(actions, a)
			}
		}
		switch *sortBy {
		case "natural":
		case "uid":
			slices.SortFunc(actions, func(a, b *tdl.Action) int { return cmp.Compare(a.UID(), b.UID()) })
		default:
			return usageError("inctx", "--sort-by must be one of %s", validation.FormatValidValues([]string{"natural", "uid"}))
		}
		return in.printActions(actions, *asJSON, true)
	}
}

func setupInprj(in *Interpreter, fs *pflag.FlagSet) runFunc {
	asJSON := fs.Bool("json", false, "print JSON")

	return func(args []string) error {
		if err := wantAtMostOneArg("inprj", args); err != nil {
			return err
		}
		var p *tdl.Project
		if len(args) == 0 {
			cur, ok := in.st.CurrentWorkingContainer().(*tdl.Project)
			if !ok {
				return usageError("inprj", "the current working container is not a Project; name one")
			}
			p = cur
		} else {
			var err error
			if p, err = in.st.ResolveProject(args[0]); err != nil {
				return err
			}
		}

		var actions []*tdl.Action
		for _, a := range p.Actions() {
			if in.st.Show(a) {
				actions = append(actions, a)
			}
		}
		return in.printActions(actions, *asJSON, false)
	}
}

func (in *Interpreter) printActions(actions []*tdl.Action, asJSON, hideContext bool) error {
	if asJSON {
		out := make([]actionJSON, 0, len(actions))
		for _, a := range actions {
			out = append(out, in.actionJSON(a))
		}
		return in.printJSON(out)
	}
	for _, a := range actions {
		in.println(in.line(a, lineOptions{hideContext: hideContext}))
	}
	return nil
}

func runNeedsReview(in *Interpreter, args []string) error {
	if err := wantArgs("needsreview", args, 0); err != nil {
		return err
	}
	list := in.st.ToDoList()
	for _, p := range list.ProjectsToReview(list.Now()) {
		in.println(in.st.AbsolutePath(p))
	}
	return nil
}

func runView(in *Interpreter, args []string) error {
	if err := wantAtMostOneArg("view", args); err != nil {
		return err
	}
	if len(args) == 0 {
		in.println(in.st.View().Name())
		return nil
	}
	return in.st.SetView(args[0])
}

func setupCat(in *Interpreter, fs *pflag.FlagSet) runFunc {
	plain := fs.Bool("plain", false, "wrap the note without rendering markdown")

	return func(args []string) error {
		if len(args) == 0 {
			return usageError("cat", "needs at least one path")
		}
		for _, path := range args {
			item, err := in.st.Resolve(path)
			if err != nil {
				return err
			}
			note := []byte(item.Note())
			var out []byte
			if *plain {
				out = markdown.Wrap(in.opts.Width, 0, note)
			} else {
				out = markdown.Render(in.opts.Width, 0, note)
			}
			if len(out) > 0 {
				in.println(string(out))
			}
		}
		return nil
	}
}

func runDump(in *Interpreter, args []string) error {
	if err := wantArgs("dump", args, 0); err != nil {
		return err
	}
	in.println(in.st.ToDoList().String())
	return nil
}

func runTaskPaper(in *Interpreter, args []string) error {
	if err := wantArgs("astaskpaper", args, 0); err != nil {
		return err
	}
	show := func(p *tdl.Project) bool { return in.st.Show(p) }
	showAction := func(a *tdl.Action) bool { return in.st.Show(a) }
	return tdl.WriteTaskPaper(in.opts.Out, in.st.ToDoList(), in.st.Separator(), show, showAction)
}

func runEcho(in *Interpreter, args []string) error {
	in.println(strings.Join(args, " "))
	return nil
}

func runEcholines(in *Interpreter, args []string) error {
	for _, arg := range args {
		in.println(arg)
	}
	return nil
}

func runNoteLs(in *Interpreter, args []string) error {
	if err := wantArgs("note-ls", args, 0); err != nil {
		return err
	}
	for _, name := range in.st.ToDoList().Notes().Names() {
		in.println(Quote(name))
	}
	return nil
}

func runNoteGet(in *Interpreter, args []string) error {
	if err := wantArgs("note-get", args, 1); err != nil {
		return err
	}
	note, ok := in.st.ToDoList().Notes().Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", tdl.ErrNoSuchNote, args[0])
	}
	in.println(note)
	return nil
}

// contextArg resolves a context argument. "<none>" and uid=0 mean no
// context.
func (in *Interpreter) contextArg(s string) (uid.UID, error) {
	if s == noContextName || strings.EqualFold(s, uid.Prefix+"0") {
		return uid.None, nil
	}
	c, err := in.st.ResolveContext(s)
	if err != nil {
		return uid.None, err
	}
	return c.UID(), nil
}
