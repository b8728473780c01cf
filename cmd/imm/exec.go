package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/immaculater/tdl"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command-line>...",
	Short: "Run command lines and save the list",
	Long: `Run each argument as one command line, e.g.

  imm exec 'mkprj "/Buy a house"' 'mkact "/Buy a house/call the bank"'

Stops at the first failure. Changes made before it are saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Run one command per line from a file or stdin and save the list",
	Long: `Run one command per line from a file, or from stdin when no file is
given. Blank lines and lines starting with # are skipped. A failing line
is reported and the rest still run, unless the list itself is damaged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(execCmd, batchCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, line := range args {
		if err := a.session.Exec(ctx, line); err != nil {
			if !tdl.IsFatal(err) {
				if saveErr := a.save(ctx); saveErr != nil {
					return saveErr
				}
			}
			return fmt.Errorf("%s: %w", line, err)
		}
	}
	return a.save(ctx)
}

func runBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	failed, err := runLines(ctx, a, in, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := a.save(ctx); err != nil {
		return err
	}
	if failed > 0 {
		return exitError{code: 1}
	}
	return nil
}

// runLines runs each line of in, reporting failures to errOut. It stops
// early only for errors that mean the list can no longer be trusted.
func runLines(ctx context.Context, a *app, in io.Reader, errOut io.Writer) (int, error) {
	failed := 0
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := a.session.Exec(ctx, line); err != nil {
			if tdl.IsFatal(err) {
				return failed, fmt.Errorf("line %d: %w", n, err)
			}
			fmt.Fprintf(errOut, "line %d: %v\n", n, err)
			failed++
		}
	}
	return failed, scanner.Err()
}
