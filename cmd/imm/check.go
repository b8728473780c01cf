package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/amonks/immaculater/internal/ui"
	"github.com/amonks/immaculater/tdl"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the stored list and summarize it",
	Long: `Load the list, verifying its checksum and that it is well formed, and
print how many items of each kind it holds.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the whole list, deleted items included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.session.Run(cmd.Context(), []string{"dump"})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd, dumpCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.session.ToDoList()
	if err := list.CheckIsWellFormed(); err != nil {
		return err
	}

	kinds := []tdl.Kind{tdl.KindContext, tdl.KindFolder, tdl.KindProject, tdl.KindAction}
	live := map[tdl.Kind]int{}
	deleted := map[tdl.Kind]int{}
	var lastModified time.Time
	for item := range list.Items() {
		if item.UID() == list.Root().UID() {
			continue
		}
		if item.IsDeleted() {
			deleted[item.Kind()]++
		} else {
			live[item.Kind()]++
		}
		if mtime := item.MTime().Time(); mtime.After(lastModified) {
			lastModified = mtime
		}
	}

	styler := ui.TerminalStyler(os.Stdout)
	table := ui.NewTableBuilder([]string{styler.Label("KIND"), styler.Label("LIVE"), styler.Label("DELETED")}, len(kinds))
	for _, kind := range kinds {
		table.AddRow(kind.String(), strconv.Itoa(live[kind]), strconv.Itoa(deleted[kind]))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: OK\n", a.store.Name())
	fmt.Fprint(out, table.String())
	fmt.Fprintf(out, "last modified %s\n", ui.FormatTimeAgo(lastModified, time.Now()))
	return nil
}
