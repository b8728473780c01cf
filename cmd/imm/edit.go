package main

import (
	"context"
	"strings"

	"github.com/amonks/immaculater/internal/editor"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <path>",
	Short: "Edit an item's name, note, and status in $EDITOR",
	Long: `Open an item in $EDITOR as TOML followed by its note:

  name = "call the bank"
  context = "@phone"
  complete = false
  ---
  ask about the rate

The changes are applied as ordinary commands (rename, chctx, complete,
note, and so on) and saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := editItem(ctx, a, args[0]); err != nil {
		return err
	}
	return a.save(ctx)
}

func editItem(ctx context.Context, a *app, path string) error {
	item, err := a.session.Resolve(path)
	if err != nil {
		return err
	}
	before := editor.DataFromItem(a.session.ToDoList(), item, path)
	parsed, err := editor.EditItem(ctx, before)
	if err != nil {
		return err
	}
	for _, args := range parsed.Commands(before) {
		a.logger.Debug("applying edit", "command", strings.Join(args, " "))
		if err := a.session.Run(ctx, args); err != nil {
			return err
		}
	}
	return nil
}
