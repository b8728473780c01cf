package session

import (
	"io"

	"github.com/amonks/immaculater/serialization"
	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
	"github.com/amonks/immaculater/undo"
)

// host is the Session as the interpreter and the undo stack see it. Its
// methods run while a command holds the session's lock.
type host struct {
	s *Session
}

func (h host) Undo() (undo.Command, error) {
	var cmd undo.Command
	err := h.keepingCursor(func() error {
		var err error
		cmd, err = h.s.history.Undo()
		return err
	})
	if err != nil {
		return cmd, err
	}
	h.s.dirty = true
	h.s.logger.Info("undid command", "command", cmd.String())
	return cmd, nil
}

func (h host) Redo() (undo.Command, error) {
	var cmd undo.Command
	err := h.keepingCursor(func() error {
		var err error
		cmd, err = h.s.history.Redo()
		return err
	})
	if err != nil {
		return cmd, err
	}
	h.s.dirty = true
	h.s.logger.Info("redid command", "command", cmd.String())
	return cmd, nil
}

func (h host) Reset() error {
	h.s.uids.Reset()
	list := tdl.New(h.s.listOptions())
	baseline, err := h.s.freeze(list)
	if err != nil {
		return err
	}
	h.s.st.SetToDoList(list)
	h.s.history.Reset(baseline)
	h.s.dirty = true
	h.s.broken = nil
	h.s.logger.Info("reset to-do list", "store", h.s.store.Name())
	return nil
}

// Rewind replaces the list with the one frozen in baseline.
func (h host) Rewind(baseline []byte) error {
	list, err := serialization.Thaw(baseline, h.s.listOptions())
	if err != nil {
		return err
	}
	h.s.st.SetToDoList(list)
	return nil
}

// Checkpoint freezes the list, the identifier high-water mark, and the
// cursor. Thawing alone would lower the mark after a purge.
func (h host) Checkpoint() (func() error, error) {
	data, err := serialization.Freeze(h.s.st.ToDoList(), serialization.Options{CompressionLevel: serialization.NoCompression})
	if err != nil {
		return nil, err
	}
	high := h.s.uids.Peek()
	cwd := h.s.st.CurrentWorkingContainer().UID()
	return func() error {
		list, err := serialization.Thaw(data, h.s.listOptions())
		if err != nil {
			return err
		}
		h.s.uids.Observe(high)
		h.s.st.SetToDoList(list)
		h.s.cd(cwd)
		return nil
	}, nil
}

// Replay runs cmd again from the container it first ran in, printing
// nothing.
func (h host) Replay(cmd undo.Command) error {
	if !cmd.At.IsZero() {
		defer h.s.opts.Clock.Hold(cmd.At)()
	}
	h.s.cd(cmd.Cwd)
	out := h.s.interp.Output()
	h.s.interp.SetOutput(io.Discard)
	defer h.s.interp.SetOutput(out)
	return h.s.interp.Run(cmd.Args)
}

// keepingCursor runs fn, which rebuilds the list, and then puts the cursor
// back where it was if that container still exists.
func (h host) keepingCursor(fn func() error) error {
	cwd := h.s.st.CurrentWorkingContainer().UID()
	if err := fn(); err != nil {
		return err
	}
	h.s.cd(cwd)
	return nil
}

// cd moves the cursor to the live container with the given UID, or to
// the root folder.
func (s *Session) cd(id uid.UID) {
	list := s.st.ToDoList()
	item, err := list.ItemByUID(id)
	if c, ok := item.(tdl.Container); err == nil && ok && !c.IsDeleted() {
		s.st.SetCurrentWorkingContainer(c)
		return
	}
	s.st.SetCurrentWorkingContainer(list.Root())
}
