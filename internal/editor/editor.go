// Package editor lets a user change one to-do list item in $VISUAL or
// $EDITOR. Items are rendered as TOML frontmatter followed by the note.
package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"
	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Command returns the editor invocation for path: $VISUAL, else $EDITOR,
// else vi. The variable may carry arguments, as in "code --wait".
func Command(path string) ([]string, error) {
	line := os.Getenv("VISUAL")
	if line == "" {
		line = os.Getenv("EDITOR")
	}
	if line == "" {
		return []string{"vi", path}, nil
	}
	argv, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("parse editor %q: %w", line, err)
	}
	if len(argv) == 0 {
		return []string{"vi", path}, nil
	}
	return append(argv, path), nil
}

// Edit opens path in the editor and waits for it to exit.
func Edit(ctx context.Context, path string) error {
	argv, err := Command(path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
