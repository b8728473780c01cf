// Package state tracks where a user is in a to-do list and what they want
// to see: the current working container, the path separator, and the
// view filter. It turns typed paths into items.
package state

import (
	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/viewfilter"
)

// DefaultSeparator separates folder names in a path.
const DefaultSeparator = "/"

// Options configures a State.
type Options struct {
	// Separator separates folder names in a path. DefaultSeparator is used
	// when empty.
	Separator string

	// ViewAlias selects the initial view filter. viewfilter.Default is used
	// when empty.
	ViewAlias string
}

// State is a cursor over one to-do list. It is not safe for concurrent use.
type State struct {
	list *tdl.ToDoList
	sep  string
	cwc  tdl.Container
	view viewfilter.Filter
}

// New returns a State over list with the cursor at the root folder.
func New(list *tdl.ToDoList, opts Options) (*State, error) {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	if opts.ViewAlias == "" {
		opts.ViewAlias = viewfilter.Default
	}
	s := &State{list: list, sep: opts.Separator, cwc: list.Root()}
	if err := s.SetView(opts.ViewAlias); err != nil {
		return nil, err
	}
	return s, nil
}

// ToDoList returns the list the cursor moves over.
func (s *State) ToDoList() *tdl.ToDoList { return s.list }

// SetToDoList replaces the list, e.g. after a load or an undo. The cursor
// goes back to the root folder and the view keeps its alias.
func (s *State) SetToDoList(list *tdl.ToDoList) {
	s.list = list
	s.cwc = list.Root()
	view, err := viewfilter.New(s.view.Name(), viewfilter.ForList(list))
	if err != nil {
		panic("state: current view " + s.view.Name() + " is not registered")
	}
	s.view = view
}

// Separator returns the path separator.
func (s *State) Separator() string { return s.sep }

// CurrentWorkingContainer returns the container relative paths start from.
func (s *State) CurrentWorkingContainer() tdl.Container { return s.cwc }

// SetCurrentWorkingContainer moves the cursor.
func (s *State) SetCurrentWorkingContainer(c tdl.Container) { s.cwc = c }

// Chdir moves the cursor to the container at path.
func (s *State) Chdir(path string) error {
	c, err := s.ResolveContainer(path)
	if err != nil {
		return err
	}
	s.cwc = c
	return nil
}

// CurrentPath returns the absolute path of the cursor.
func (s *State) CurrentPath() string {
	return s.AbsolutePath(s.cwc)
}

// View returns the current view filter.
func (s *State) View() viewfilter.Filter { return s.view }

// SetView selects the view filter registered under alias.
func (s *State) SetView(alias string) error {
	view, err := viewfilter.New(alias, viewfilter.ForList(s.list))
	if err != nil {
		return err
	}
	s.view = view
	return nil
}

// Show reports whether the current view shows item.
func (s *State) Show(item tdl.Item) bool {
	return s.view.Show(item)
}
