package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

func systemVerbs() []verb {
	return []verb{
		{
			name:    "help",
			aliases: []string{"?"},
			summary: `Lists the commands, or explains the one given.`,
			setup:   noFlags(runHelp),
		},
		{
			name:    "undo",
			summary: "Undoes the most recent command that changed the to-do list.",
			setup:   noFlags(runUndo),
		},
		{
			name:    "redo",
			summary: "Redoes the most recently undone command.",
			setup:   noFlags(runRedo),
		},
		{
			name:    "reset",
			summary: "Replaces the to-do list with an empty one and forgets all history. Requires --annihilate.",
			setup:   setupReset,
		},
		{
			name:    "chclock",
			summary: `Sets the clock used for timestamps to the given number of seconds since the epoch, moves it by +N or -N seconds when the argument is signed, or returns it to the wall clock with "now".`,
			setup:   noFlags(runChclock),
		},
	}
}

const helpIntro = `Some core concepts follow:
* A Folder contains Folders and Projects.
  It is like a directory in a file system.
* A Project contains Actions.
* An Action may have a Context.
* A Context is designed to show you ONLY Actions you can perform right now.
  An inactive Context (e.g., WaitingFor or SomedayMaybe) houses
  Actions that need to be reviewed but cannot be acted on.`

func runHelp(in *Interpreter, args []string) error {
	if err := wantAtMostOneArg("help", args); err != nil {
		return err
	}
	if len(args) == 1 {
		v, ok := lookup(args[0])
		if !ok {
			return fmt.Errorf("%w %q; try \"help\" for a list of all commands", ErrUnknownCommand, args[0])
		}
		in.println(v.summary)
		fs := newFlagSet(v.name)
		v.setup(in, fs)
		if fs.HasFlags() {
			in.println()
			in.println("Flags for " + v.name + ":")
			in.printf("%s", fs.FlagUsages())
		}
		return nil
	}

	in.println(helpIntro)
	in.println()
	in.println("Commands:")
	for _, name := range Names() {
		in.println("  * " + name)
	}
	in.println()
	in.println(`For help on a specific command, type "help cmd".`)
	return nil
}

func runUndo(in *Interpreter, args []string) error {
	if err := wantArgs("undo", args, 0); err != nil {
		return err
	}
	if in.opts.Host == nil {
		return ErrNoHost
	}
	cmd, err := in.opts.Host.Undo()
	if err != nil {
		return err
	}
	in.opts.Logger.Info("undid command", "command", cmd.String())
	return nil
}

func runRedo(in *Interpreter, args []string) error {
	if err := wantArgs("redo", args, 0); err != nil {
		return err
	}
	if in.opts.Host == nil {
		return ErrNoHost
	}
	cmd, err := in.opts.Host.Redo()
	if err != nil {
		return err
	}
	in.opts.Logger.Info("redid command", "command", cmd.String())
	return nil
}

func setupReset(in *Interpreter, fs *pflag.FlagSet) runFunc {
	annihilate := fs.Bool("annihilate", false, "confirm that everything should be thrown away")

	return func(args []string) error {
		if err := wantArgs("reset", args, 0); err != nil {
			return err
		}
		if !*annihilate {
			return usageError("reset", "--annihilate is required")
		}
		if in.opts.Host == nil {
			return ErrNoHost
		}
		if err := in.opts.Host.Reset(); err != nil {
			return err
		}
		in.println("Reset complete.")
		return nil
	}
}

func runChclock(in *Interpreter, args []string) error {
	if err := wantArgs("chclock", args, 1); err != nil {
		return err
	}
	arg := args[0]
	if arg == "now" {
		in.opts.Clock.Release()
		return nil
	}

	seconds, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return usageError("chclock", "needs a number of seconds, not %s", Quote(arg))
	}
	d := time.Duration(seconds * float64(time.Second))
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		in.opts.Clock.Advance(d)
		return nil
	}
	in.opts.Clock.Set(time.Unix(0, 0).Add(d))
	return nil
}
