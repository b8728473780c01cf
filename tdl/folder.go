package tdl

// Folder is an ordered list of Folders and Projects.
type Folder struct {
	Audit
	named
	items []Container
}

// Kind returns KindFolder.
func (f *Folder) Kind() Kind { return KindFolder }

// Items returns the children as Items.
func (f *Folder) Items() []Item {
	items := make([]Item, 0, len(f.items))
	for _, c := range f.items {
		items = append(items, c)
	}
	return items
}

// Children returns the child Folders and Projects in order.
func (f *Folder) Children() []Container { return f.items }

func (f *Folder) audit() *Audit { return &f.Audit }
func (f *Folder) isContainer()  {}
