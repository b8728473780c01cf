// Package undo implements linear undo and redo by snapshot and replay.
//
// A Stack keeps the frozen list as of the last load or reset (the
// baseline) and the commands applied since. Undo rewinds to the baseline
// and replays every command but the last. Redo replays the most recently
// undone command. Any command that replays deterministically is undoable
// with no per-command bookkeeping.
package undo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
)

var (
	// ErrNothingToUndo indicates an empty command log.
	ErrNothingToUndo = fmt.Errorf("%w: nothing to undo", tdl.ErrHistory)

	// ErrNothingToRedo indicates nothing has been undone since the last
	// command.
	ErrNothingToRedo = fmt.Errorf("%w: nothing to redo", tdl.ErrHistory)
)

// Command is a successfully applied command: its arguments, name first,
// the container the cursor was in when it ran, and the clock reading it
// ran at.
type Command struct {
	Args []string
	Cwd  uid.UID
	At   time.Time
}

// Name returns the command's name.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Rewindable is what a Stack drives.
type Rewindable interface {
	// Rewind replaces the current list with the one frozen in baseline.
	Rewind(baseline []byte) error

	// Replay applies cmd again, without registering it.
	Replay(cmd Command) error

	// Checkpoint captures the current list. restore puts it back.
	Checkpoint() (restore func() error, err error)
}

// Stack is the history of one list. It is not safe for concurrent use.
type Stack struct {
	target   Rewindable
	baseline []byte
	log      []Command
	redo     []Command
}

// NewStack returns an empty history that rewinds target to baseline.
func NewStack(target Rewindable, baseline []byte) *Stack {
	return &Stack{target: target, baseline: baseline}
}

// Register records a command that has just succeeded. It forgets anything
// that could have been redone.
func (s *Stack) Register(cmd Command) {
	cmd.Args = slices.Clone(cmd.Args)
	s.log = append(s.log, cmd)
	s.redo = nil
}

// Undo reverses the most recent command. If the list cannot be rebuilt,
// it is put back as it was and the log is left alone.
func (s *Stack) Undo() (Command, error) {
	if len(s.log) == 0 {
		return Command{}, ErrNothingToUndo
	}
	last := s.log[len(s.log)-1]
	keep := s.log[:len(s.log)-1]

	restore, err := s.target.Checkpoint()
	if err != nil {
		return Command{}, err
	}
	if err := s.target.Rewind(s.baseline); err != nil {
		return Command{}, rollback(restore, fmt.Errorf("rewinding: %w", err))
	}
	for _, cmd := range keep {
		if err := s.target.Replay(cmd); err != nil {
			return Command{}, rollback(restore, replayError(cmd, err))
		}
	}

	s.log = keep
	s.redo = append(s.redo, last)
	return last, nil
}

// Redo reapplies the most recently undone command.
func (s *Stack) Redo() (Command, error) {
	if len(s.redo) == 0 {
		return Command{}, ErrNothingToRedo
	}
	next := s.redo[len(s.redo)-1]
	restore, err := s.target.Checkpoint()
	if err != nil {
		return Command{}, err
	}
	if err := s.target.Replay(next); err != nil {
		return Command{}, rollback(restore, replayError(next, err))
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.log = append(s.log, next)
	return next, nil
}

// A command that succeeded once and fails on replay means replay is not
// deterministic: a programmer error.
func replayError(cmd Command, err error) error {
	return fmt.Errorf("%w: replaying %q: %w", tdl.ErrStructural, cmd.String(), err)
}

func rollback(restore func() error, err error) error {
	if rerr := restore(); rerr != nil {
		return errors.Join(err, fmt.Errorf("restoring the list: %w", rerr))
	}
	return err
}

// Reset forgets all history and takes a new baseline, e.g. after a load.
func (s *Stack) Reset(baseline []byte) {
	s.baseline = baseline
	s.log = nil
	s.redo = nil
}

// Len returns the number of commands that can be undone.
func (s *Stack) Len() int { return len(s.log) }

// RedoLen returns the number of commands that can be redone.
func (s *Stack) RedoLen() int { return len(s.redo) }

// Commands returns the undoable commands, oldest first.
func (s *Stack) Commands() []Command { return slices.Clone(s.log) }
