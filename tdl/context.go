package tdl

// Context is a place or circumstance in which an action is possible, e.g.
// "home" or "the store".
type Context struct {
	Audit
	named
	isActive bool
}

// Kind returns KindContext.
func (c *Context) Kind() Kind { return KindContext }

// IsActive reports whether the context is active. "Someday/maybe" contexts
// are inactive.
func (c *Context) IsActive() bool { return c.isActive }

func (c *Context) audit() *Audit { return &c.Audit }

// ContextList is the ordered list of every context in a to-do list.
type ContextList struct {
	Audit
	name  string
	items []*Context
}

// Kind returns KindContextList.
func (l *ContextList) Kind() Kind { return KindContextList }

// Name returns the list's name.
func (l *ContextList) Name() string { return l.name }

// Items returns the contexts in order, deleted ones included.
func (l *ContextList) Items() []*Context { return l.items }

// Len returns the number of contexts, deleted ones included.
func (l *ContextList) Len() int { return len(l.items) }
