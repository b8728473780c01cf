// Package viewfilter decides which items a listing shows: deleted ones,
// completed ones, inactive ones, or only projects overdue for review.
//
// Filters are chosen by alias. Each filter narrows a weaker one instead of
// repeating its rules.
package viewfilter

import (
	"fmt"
	"time"

	"github.com/amonks/immaculater/internal/validation"
	"github.com/amonks/immaculater/tdl"
)

// ErrUnknownView indicates an alias no filter answers to.
var ErrUnknownView = fmt.Errorf("%w: unknown view filter", tdl.ErrAddressing)

// Lookups are the questions a filter asks about an action's surroundings.
// A nil project or context is treated as absent: it hides nothing.
type Lookups struct {
	ProjectOf func(*tdl.Action) *tdl.Project
	ContextOf func(*tdl.Action) *tdl.Context
	Now       func() time.Time
}

// ForList answers the lookups from l.
func ForList(l *tdl.ToDoList) Lookups {
	return Lookups{
		ProjectOf: l.ProjectOf,
		ContextOf: l.ContextOf,
		Now:       l.Now,
	}
}

// Filter is a predicate over items.
type Filter interface {
	// Name returns the filter's canonical alias.
	Name() string

	// Show reports whether item belongs in a listing.
	Show(item tdl.Item) bool
}

// rules are the per-kind predicates behind a Filter.
type rules interface {
	action(*tdl.Action) bool
	project(*tdl.Project) bool
	folder(*tdl.Folder) bool
	context(*tdl.Context) bool
}

type filter struct {
	name  string
	rules rules
}

func (f filter) Name() string { return f.name }

func (f filter) Show(item tdl.Item) bool {
	switch item := item.(type) {
	case *tdl.Action:
		return f.rules.action(item)
	case *tdl.Project:
		return f.rules.project(item)
	case *tdl.Folder:
		return f.rules.folder(item)
	case *tdl.Context:
		return f.rules.context(item)
	default:
		panic(fmt.Sprintf("viewfilter: unexpected item %T", item))
	}
}

// Canonical aliases.
const (
	AllEvenDeleted        = "all_even_deleted"
	All                   = "all"
	Default               = "default"
	Incomplete            = "incomplete"
	Actionable            = "actionable"
	NeedingReview         = "needing_review"
	InactiveAndIncomplete = "inactive_and_incomplete"
)

type constructor func(Lookups) rules

var registry = []struct {
	aliases []string
	build   constructor
}{
	{[]string{AllEvenDeleted}, func(Lookups) rules { return showAll{} }},
	{[]string{All, Default}, func(Lookups) rules { return notDeleted{} }},
	{[]string{Incomplete}, func(lk Lookups) rules { return newNotFinalized(lk) }},
	{[]string{Actionable}, func(lk Lookups) rules { return actionable{notFinalized: newNotFinalized(lk), lookups: lk} }},
	{[]string{NeedingReview}, func(lk Lookups) rules { return needingReview{notFinalized: newNotFinalized(lk), lookups: lk} }},
	{[]string{InactiveAndIncomplete}, func(lk Lookups) rules {
		return inactiveAndIncomplete{notFinalized: newNotFinalized(lk), lookups: lk}
	}},
}

// Aliases returns every alias, in registration order.
func Aliases() []string {
	var aliases []string
	for _, entry := range registry {
		aliases = append(aliases, entry.aliases...)
	}
	return aliases
}

// New returns the filter registered under alias.
func New(alias string, lookups Lookups) (Filter, error) {
	for _, entry := range registry {
		for _, a := range entry.aliases {
			if a == alias {
				return filter{name: entry.aliases[0], rules: entry.build(lookups)}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w %q; valid views are %s", ErrUnknownView, alias, validation.FormatValidValues(Aliases()))
}
