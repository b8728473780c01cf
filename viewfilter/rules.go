package viewfilter

import "github.com/amonks/immaculater/tdl"

type showAll struct{}

func (showAll) action(*tdl.Action) bool   { return true }
func (showAll) project(*tdl.Project) bool { return true }
func (showAll) folder(*tdl.Folder) bool   { return true }
func (showAll) context(*tdl.Context) bool { return true }

type notDeleted struct{}

func (notDeleted) action(a *tdl.Action) bool   { return !a.IsDeleted() }
func (notDeleted) project(p *tdl.Project) bool { return !p.IsDeleted() }
func (notDeleted) folder(f *tdl.Folder) bool   { return !f.IsDeleted() }
func (notDeleted) context(c *tdl.Context) bool { return !c.IsDeleted() }

// notFinalized hides completed items too. An action in a completed project
// counts as completed.
type notFinalized struct {
	notDeleted
	projectOf func(*tdl.Action) *tdl.Project
}

func newNotFinalized(lk Lookups) notFinalized {
	return notFinalized{projectOf: lk.ProjectOf}
}

func (r notFinalized) action(a *tdl.Action) bool {
	if !r.notDeleted.action(a) || a.IsComplete() {
		return false
	}
	p := r.projectOf(a)
	return p == nil || !p.IsComplete()
}

func (r notFinalized) project(p *tdl.Project) bool {
	return r.notDeleted.project(p) && !p.IsComplete()
}

// actionable hides anything in an inactive project or context.
type actionable struct {
	notFinalized notFinalized
	lookups      Lookups
}

func (r actionable) action(a *tdl.Action) bool {
	if !r.notFinalized.action(a) {
		return false
	}
	if c := r.lookups.ContextOf(a); c != nil && !c.IsActive() {
		return false
	}
	p := r.lookups.ProjectOf(a)
	return p == nil || p.IsActive()
}

func (r actionable) project(p *tdl.Project) bool {
	return r.notFinalized.project(p) && p.IsActive()
}

func (r actionable) folder(f *tdl.Folder) bool { return r.notFinalized.folder(f) }

func (r actionable) context(c *tdl.Context) bool {
	return r.notFinalized.context(c) && c.IsActive()
}

// needingReview shows only active projects whose review is overdue. Only
// projects get reviewed, so actions follow notFinalized.
type needingReview struct {
	notFinalized notFinalized
	lookups      Lookups
}

func (r needingReview) action(a *tdl.Action) bool { return r.notFinalized.action(a) }

func (r needingReview) project(p *tdl.Project) bool {
	return r.notFinalized.project(p) && p.IsActive() && p.NeedsReview(r.lookups.Now())
}

func (r needingReview) folder(f *tdl.Folder) bool   { return r.notFinalized.folder(f) }
func (r needingReview) context(c *tdl.Context) bool { return r.notFinalized.context(c) }

// inactiveAndIncomplete is the complement of actionable among unfinished
// items: it shows what is waiting on an inactive project or context.
type inactiveAndIncomplete struct {
	notFinalized notFinalized
	lookups      Lookups
}

func (r inactiveAndIncomplete) action(a *tdl.Action) bool {
	if !r.notFinalized.action(a) {
		return false
	}
	if p := r.lookups.ProjectOf(a); p != nil && !p.IsActive() {
		return true
	}
	c := r.lookups.ContextOf(a)
	return c != nil && !c.IsActive()
}

func (r inactiveAndIncomplete) project(p *tdl.Project) bool {
	return r.notFinalized.project(p) && !p.IsActive()
}

func (r inactiveAndIncomplete) folder(f *tdl.Folder) bool { return r.notFinalized.folder(f) }

func (r inactiveAndIncomplete) context(c *tdl.Context) bool {
	return r.notFinalized.context(c) && !c.IsActive()
}
