package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/immaculater/command"
	"github.com/amonks/immaculater/internal/paths"
	"github.com/amonks/immaculater/internal/ui"
	"github.com/amonks/immaculater/tdl"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Edit the list interactively",
	Long: `Start an interactive shell. Type "help" for the commands it understands,
"edit PATH" to change an item in $EDITOR, and "quit" to leave. The list is
saved after every command that changes it.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	styler := ui.TerminalStyler(os.Stdout)
	out := uidHighlighter{w: cmd.OutOrStdout(), styler: styler}

	a, err := openApp(ctx, out)
	if err != nil {
		return err
	}
	defer a.Close()

	historyFile, err := paths.HistoryFile()
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt(a, styler),
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	errOut := rl.Stderr()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(errOut, `Use "quit" to leave.`)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "quit" || line == "exit" {
			break
		}
		if err := shellLine(ctx, a, line); err != nil {
			if tdl.IsFatal(err) {
				return err
			}
			fmt.Fprintln(errOut, styler.Error(err.Error()))
		}
		if err := a.save(ctx); err != nil {
			return err
		}
		rl.SetPrompt(shellPrompt(a, styler))
	}
	return a.save(ctx)
}

// shellLine runs one line typed at the prompt.
func shellLine(ctx context.Context, a *app, line string) error {
	args, err := command.Split(line)
	if err != nil {
		return err
	}
	if len(args) > 0 && args[0] == "edit" {
		if len(args) != 2 {
			return fmt.Errorf("%w: edit takes exactly one path", command.ErrUsage)
		}
		return editItem(ctx, a, args[1])
	}
	return a.session.Run(ctx, args)
}

func shellPrompt(a *app, styler ui.Styler) string {
	return styler.Prompt("immaculater:"+a.session.CurrentPath()) + "> "
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(command.Names())+3)
	for _, name := range command.Names() {
		items = append(items, readline.PcItem(name))
	}
	items = append(items, readline.PcItem("edit"), readline.PcItem("quit"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

// uidHighlighter styles uid=N in everything written through it. Commands
// write whole lines, so a uid is never split across writes.
type uidHighlighter struct {
	w      io.Writer
	styler ui.Styler
}

func (h uidHighlighter) Write(p []byte) (int, error) {
	if !h.styler.Enabled() {
		return h.w.Write(p)
	}
	if _, err := io.WriteString(h.w, h.styler.HighlightUIDs(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
