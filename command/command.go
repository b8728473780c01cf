// Package command interprets the verbs a user types at the immaculater
// prompt: navigating the tree, listing it, and changing it. The same
// interpreter replays logged commands when history is rewound.
package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/amonks/immaculater/state"
	"github.com/amonks/immaculater/undo"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"
)

var (
	// ErrUsage indicates arguments a verb cannot accept.
	ErrUsage = errors.New("incorrect usage")

	// ErrUnknownCommand indicates a verb that is not registered.
	ErrUnknownCommand = fmt.Errorf("%w: no such command", ErrUsage)

	// ErrNoHost indicates undo, redo, or reset on an interpreter that has no
	// host to delegate them to.
	ErrNoHost = errors.New("no history is available")
)

// Host owns the list's lifecycle and history on behalf of an interpreter.
type Host interface {
	Undo() (undo.Command, error)
	Redo() (undo.Command, error)
	Reset() error
}

// Options configures an Interpreter.
type Options struct {
	// Out receives everything the verbs print.
	Out io.Writer

	// Host performs undo, redo, and reset. Those verbs fail when nil.
	Host Host

	// Clock is the time source chclock moves. The list's timestamps should
	// come from the same clock.
	Clock *Clock

	// Location formats timestamps in ls -l. time.Local is used when nil.
	Location *time.Location

	// ShowUID prints uid=N after each item's kind in listings.
	ShowUID bool

	// Width wraps rendered notes. 80 is used when zero.
	Width int

	Logger *slog.Logger
}

// Interpreter runs verbs against a State.
type Interpreter struct {
	st   *state.State
	opts Options
}

// New returns an interpreter over st.
func New(st *state.State, opts Options) *Interpreter {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Clock == nil {
		opts.Clock = &Clock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{st: st, opts: opts}
}

// State returns the cursor the interpreter acts on.
func (in *Interpreter) State() *state.State { return in.st }

// SetOutput redirects printing, e.g. to io.Discard during replay.
func (in *Interpreter) SetOutput(w io.Writer) { in.opts.Out = w }

// Output returns the current printer.
func (in *Interpreter) Output() io.Writer { return in.opts.Out }

// Split breaks a typed line into arguments using shell quoting rules. A
// blank line yields no arguments.
func Split(line string) ([]string, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %q: %w", ErrUsage, line, err)
	}
	return args, nil
}

// Undoable reports whether the verb named name changes the list and
// therefore belongs in the undo log.
func Undoable(name string) bool {
	v, ok := lookup(name)
	return ok && v.undoable
}

// Names returns every registered verb name, sorted, without aliases.
func Names() []string {
	names := make([]string, 0, len(verbs))
	for _, v := range verbs {
		names = append(names, v.name)
	}
	slices.Sort(names)
	return names
}

// Run executes one command. args[0] names the verb.
func (in *Interpreter) Run(args []string) error {
	if len(args) == 0 {
		return nil
	}
	v, ok := lookup(args[0])
	if !ok {
		return fmt.Errorf("%w %q; try \"help\" for a list of all commands", ErrUnknownCommand, args[0])
	}

	fs := newFlagSet(v.name)
	run := v.setup(in, fs)
	if err := fs.Parse(args[1:]); err != nil {
		return usageError(v.name, "cannot parse arguments. If you have a leading hyphen in one of your arguments, preface that argument with a '--' argument: %v", err)
	}
	in.opts.Logger.Debug("running command", "verb", v.name, "args", args[1:])
	return run(fs.Args())
}

// Exec splits line and runs it.
func (in *Interpreter) Exec(line string) error {
	args, err := Split(line)
	if err != nil {
		return err
	}
	return in.Run(args)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// println writes one line to the printer. Printing errors are ignored the
// way fmt.Println's are.
func (in *Interpreter) println(args ...any) {
	fmt.Fprintln(in.opts.Out, args...)
}

func (in *Interpreter) printf(format string, args ...any) {
	fmt.Fprintf(in.opts.Out, format, args...)
}

func usageError(verb, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", verb, ErrUsage, fmt.Sprintf(format, args...))
}

func wantArgs(verb string, args []string, n int) error {
	if len(args) == n {
		return nil
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return usageError(verb, "takes exactly %d argument%s; found these arguments: %s", n, plural, formatArgs(args))
}

func wantAtMostOneArg(verb string, args []string) error {
	if len(args) <= 1 {
		return nil
	}
	return usageError(verb, "takes zero or one arguments; found these arguments: %s", formatArgs(args))
}

func formatArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = Quote(arg)
	}
	return "[" + strings.Join(quoted, " ") + "]"
}
