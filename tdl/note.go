package tdl

import "sort"

// NoteList holds notes that are not attached to any item, e.g. a checklist
// for the weekly review.
type NoteList struct {
	notes map[string]string
}

func newNoteList() *NoteList {
	return &NoteList{notes: make(map[string]string)}
}

// Get returns the named note.
func (l *NoteList) Get(name string) (string, bool) {
	note, ok := l.notes[name]
	return note, ok
}

// Names returns every note name in sorted order.
func (l *NoteList) Names() []string {
	names := make([]string, 0, len(l.notes))
	for name := range l.notes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of notes.
func (l *NoteList) Len() int { return len(l.notes) }
