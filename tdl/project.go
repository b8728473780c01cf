package tdl

import (
	"time"

	"github.com/amonks/immaculater/uid"
)

// DefaultMaxSecondsBeforeReview is one week.
const DefaultMaxSecondsBeforeReview = 3600 * 24 * 7.0

// Project is an ordered list of actions with a shared outcome. It is a leaf
// in the folder tree but a container of actions.
type Project struct {
	Audit
	named
	items                  []*Action
	isComplete             bool
	isActive               bool
	defaultCtx             uid.UID
	maxSecondsBeforeReview float64
	lastReview             float64
}

// Kind returns KindProject.
func (p *Project) Kind() Kind { return KindProject }

// Items returns the actions as Items.
func (p *Project) Items() []Item {
	items := make([]Item, 0, len(p.items))
	for _, a := range p.items {
		items = append(items, a)
	}
	return items
}

// Actions returns the actions in order, deleted ones included.
func (p *Project) Actions() []*Action { return p.items }

// IsComplete reports whether the project is finished.
func (p *Project) IsComplete() bool { return p.isComplete }

// IsActive reports whether the project is active.
func (p *Project) IsActive() bool { return p.isActive }

// DefaultContextUID returns the context new actions are created in, or uid.None.
func (p *Project) DefaultContextUID() uid.UID { return p.defaultCtx }

// MaxSecondsBeforeReview returns how long the project may go unreviewed.
func (p *Project) MaxSecondsBeforeReview() float64 { return p.maxSecondsBeforeReview }

// LastReviewSeconds returns when the project was last reviewed, in seconds
// since the epoch, or zero if it never was.
func (p *Project) LastReviewSeconds() float64 { return p.lastReview }

// NeedsReview reports whether the last review is older than now minus the
// review interval.
func (p *Project) NeedsReview(now time.Time) bool {
	nowSeconds := float64(now.UnixMicro()) / 1e6
	return p.lastReview < nowSeconds-p.maxSecondsBeforeReview
}

func (p *Project) audit() *Audit { return &p.Audit }
func (p *Project) isContainer()  {}
