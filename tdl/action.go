package tdl

import "github.com/amonks/immaculater/uid"

// Action is the smallest unit of work, something that can be checked off.
//
// An action refers to its context by UID. It does not own the context;
// look the context up through the ToDoList.
type Action struct {
	Audit
	named
	isComplete bool
	ctx        uid.UID
}

// Kind returns KindAction.
func (a *Action) Kind() Kind { return KindAction }

// IsComplete reports whether the action has been checked off.
func (a *Action) IsComplete() bool { return a.isComplete }

// ContextUID returns the UID of the action's context, or uid.None.
func (a *Action) ContextUID() uid.UID { return a.ctx }

func (a *Action) audit() *Audit { return &a.Audit }
