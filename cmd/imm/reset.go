package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the stored list with an empty one",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var resetAnnihilate bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetAnnihilate, "annihilate", false, "Confirm that everything should be thrown away")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetAnnihilate {
		return fmt.Errorf("reset throws away the whole list; pass --annihilate to confirm")
	}
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Reset(ctx); err != nil {
		return err
	}
	if err := a.save(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Reset complete.")
	return nil
}
