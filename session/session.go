// Package session ties a stored to-do list to the interpreter that edits
// it. A Session loads the list, runs command lines against it, keeps the
// undo history, and writes the list back when it has changed.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amonks/immaculater/command"
	"github.com/amonks/immaculater/serialization"
	"github.com/amonks/immaculater/state"
	"github.com/amonks/immaculater/store"
	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
	"github.com/amonks/immaculater/undo"
)

// Options configures a Session.
type Options struct {
	// InboxName names the inbox of a list created from scratch.
	InboxName string

	// SkipWellFormednessCheck disables the checks made before saving and
	// after loading.
	SkipWellFormednessCheck bool

	// CompressionLevel is passed to serialization.Freeze.
	CompressionLevel int

	Separator string
	ViewAlias string

	// Out receives command output. io.Discard is used when nil.
	Out io.Writer

	// Clock stamps every change. A wall clock is used when nil.
	Clock *command.Clock

	Location *time.Location
	ShowUID  bool
	Width    int

	Logger *slog.Logger
}

// ErrUnverified is returned by every command but reset, and by Save, once
// a fatal error has been seen. The list may no longer match its history.
var ErrUnverified = fmt.Errorf("%w: the list is unverified after a fatal error; reset or reload it", tdl.ErrStructural)

// Session is one list loaded from one store. Its methods are safe for
// concurrent use; commands run one at a time.
type Session struct {
	mu sync.Mutex

	store   store.Store
	opts    Options
	uids    *uid.Factory
	st      *state.State
	interp  *command.Interpreter
	history *undo.Stack
	dirty   bool
	logger  *slog.Logger

	// broken is the fatal error that stopped the session, if any.
	broken error
}

// Open reads the list from s, or starts a new one if s is empty.
func Open(ctx context.Context, s store.Store, opts Options) (*Session, error) {
	if opts.Clock == nil {
		opts.Clock = &command.Clock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if err := tdl.ValidateName(opts.InboxName); err != nil {
		return nil, fmt.Errorf("inbox name: %w", err)
	}
	sess := &Session{store: s, opts: opts, uids: uid.NewFactory(), logger: opts.Logger}

	data, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}

	var list *tdl.ToDoList
	if len(data) == 0 {
		list = tdl.New(sess.listOptions())
		if data, err = sess.freeze(list); err != nil {
			return nil, err
		}
		sess.logger.Info("created new to-do list", "store", s.Name())
	} else {
		if list, err = serialization.Thaw(data, sess.listOptions()); err != nil {
			return nil, err
		}
		sess.logger.Info("loaded to-do list", "store", s.Name(), "bytes", len(data))
	}

	st, err := state.New(list, state.Options{Separator: opts.Separator, ViewAlias: opts.ViewAlias})
	if err != nil {
		return nil, err
	}
	sess.st = st
	sess.interp = command.New(st, command.Options{
		Out:      opts.Out,
		Host:     host{sess},
		Clock:    opts.Clock,
		Location: opts.Location,
		ShowUID:  opts.ShowUID,
		Width:    opts.Width,
		Logger:   opts.Logger,
	})
	sess.history = undo.NewStack(host{sess}, data)
	return sess, nil
}

func (s *Session) listOptions() tdl.Options {
	return tdl.Options{
		UIDs:                    s.uids,
		Clock:                   s.opts.Clock.Now,
		InboxName:               s.opts.InboxName,
		SkipWellFormednessCheck: s.opts.SkipWellFormednessCheck,
	}
}

func (s *Session) freeze(list *tdl.ToDoList) ([]byte, error) {
	return serialization.Freeze(list, serialization.Options{CompressionLevel: s.opts.CompressionLevel})
}

// Exec splits line with shell quoting and runs it.
func (s *Session) Exec(ctx context.Context, line string) error {
	args, err := command.Split(line)
	if err != nil {
		return err
	}
	return s.Run(ctx, args)
}

// Run runs one command. Commands that change the list are recorded for
// undo once they succeed.
func (s *Session) Run(ctx context.Context, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken != nil && !strings.EqualFold(args[0], "reset") {
		return fmt.Errorf("%w (%v)", ErrUnverified, s.broken)
	}
	if !command.Undoable(args[0]) {
		err := s.interp.Run(args)
		s.failed(args, err)
		return err
	}

	// A command that fails partway leaves the list as it found it.
	restore, err := host{s}.Checkpoint()
	if err != nil {
		s.failed(args, err)
		return err
	}
	cmd := undo.Command{
		Args: args,
		Cwd:  s.st.CurrentWorkingContainer().UID(),
		At:   s.opts.Clock.Now(),
	}
	release := s.opts.Clock.Hold(cmd.At)
	err = s.interp.Run(args)
	release()
	if err != nil {
		if rerr := restore(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restoring the list: %w", rerr))
		}
		s.failed(args, err)
		return err
	}
	s.history.Register(cmd)
	s.dirty = true
	return nil
}

func (s *Session) failed(args []string, err error) {
	if err == nil {
		return
	}
	if tdl.IsFatal(err) {
		s.broken = err
		s.logger.Error("command failed fatally", "command", strings.Join(args, " "), "error", err)
		return
	}
	s.logger.Debug("command rejected", "command", strings.Join(args, " "), "error", err)
}

// Save writes the list to the store if anything changed since it was
// loaded or last saved.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken != nil {
		return fmt.Errorf("%w (%v)", ErrUnverified, s.broken)
	}
	if !s.dirty {
		return nil
	}
	data, err := s.freeze(s.st.ToDoList())
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, data); err != nil {
		return err
	}
	s.dirty = false
	s.logger.Info("saved to-do list", "store", s.store.Name(), "bytes", len(data))
	return nil
}

// Reset replaces the list with an empty one and forgets all history.
func (s *Session) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return host{s}.Reset()
}

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// CurrentPath returns the absolute path of the current working container,
// for prompts.
func (s *Session) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CurrentPath()
}

// SetOutput redirects command output.
func (s *Session) SetOutput(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interp.SetOutput(w)
}

// History returns the commands that can be undone, oldest first.
func (s *Session) History() []undo.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Commands()
}

// ToDoList returns the list. Callers must not change it.
func (s *Session) ToDoList() *tdl.ToDoList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ToDoList()
}

// Resolve finds the item a path, or a context name, refers to.
func (s *Session) Resolve(path string) (tdl.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.st.Resolve(path)
	if err == nil {
		return item, nil
	}
	if c, ctxErr := s.st.ResolveContext(path); ctxErr == nil {
		return c, nil
	}
	return nil, err
}
