// Package main implements the imm CLI, a shell over a GTD to-do list.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/amonks/immaculater/internal/editor"
	"github.com/amonks/immaculater/internal/ui"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, ui.TerminalStyler(os.Stderr).Error("Error: "+err.Error()))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "imm",
	Short: "Immaculater - a Getting Things Done to-do list",
	Long: `Immaculater keeps a Getting Things Done to-do list: Folders of Projects
of Actions, with Contexts saying where each Action can be done.

With no subcommand, imm starts an interactive shell when stdin is a
terminal and otherwise reads one command per line from stdin.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var (
	rootDB       string
	rootBackend  string
	rootName     string
	rootView     viewFlag
	rootLogLevel string
	rootUIDs     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootDB, "db", "", "Path of the to-do list file or SQLite database")
	flags.StringVar(&rootBackend, "backend", "", "Storage backend (file, sqlite)")
	flags.StringVar(&rootName, "name", "", "Name of the list within a SQLite database")
	flags.Var(&rootView, "view", "Initial view filter, e.g. actionable")
	flags.StringVar(&rootLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	flags.BoolVar(&rootUIDs, "uids", false, "Show uid=N in listings")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if editor.IsInteractive() {
		return runShell(cmd, args)
	}
	return runBatch(cmd, args)
}

// exitError ends the process with a status after its message has already
// been printed.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }
