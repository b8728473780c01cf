package command

import (
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// runFunc runs a verb with the positional arguments left after flags.
type runFunc func(args []string) error

type verb struct {
	name    string
	aliases []string
	summary string

	// undoable verbs change the list and are logged for undo.
	undoable bool

	// setup declares the verb's flags on fs and returns the function that
	// runs it once fs has parsed the arguments.
	setup func(in *Interpreter, fs *pflag.FlagSet) runFunc
}

var verbs []verb

func init() {
	verbs = slices.Concat(navigationVerbs(), editingVerbs(), systemVerbs())
}

func lookup(name string) (verb, bool) {
	name = strings.ToLower(name)
	for _, v := range verbs {
		if v.name == name {
			return v, true
		}
		for _, alias := range v.aliases {
			if alias == name {
				return v, true
			}
		}
	}
	return verb{}, false
}

// noFlags adapts a plain function into a verb setup.
func noFlags(run func(in *Interpreter, args []string) error) func(*Interpreter, *pflag.FlagSet) runFunc {
	return func(in *Interpreter, _ *pflag.FlagSet) runFunc {
		return func(args []string) error { return run(in, args) }
	}
}
