package command

import (
	"encoding/json"
	"fmt"

	"github.com/amonks/immaculater/tdl"
	"github.com/amonks/immaculater/uid"
)

type contextJSON struct {
	UID           uid.UID  `json:"uid"`
	Name          string   `json:"name"`
	IsActive      bool     `json:"is_active"`
	IsDeleted     bool     `json:"is_deleted"`
	CTime         float64  `json:"ctime"`
	MTime         float64  `json:"mtime"`
	DTime         *float64 `json:"dtime"`
	NumberOfItems int      `json:"number_of_items"`
}

type projectJSON struct {
	UID                    uid.UID  `json:"uid"`
	Name                   string   `json:"name"`
	Path                   string   `json:"path"`
	IsActive               bool     `json:"is_active"`
	IsComplete             bool     `json:"is_complete"`
	IsDeleted              bool     `json:"is_deleted"`
	NeedsReview            bool     `json:"needsreview"`
	DefaultContextUID      uid.UID  `json:"default_context_uid"`
	MaxSecondsBeforeReview float64  `json:"max_seconds_before_review"`
	CTime                  float64  `json:"ctime"`
	MTime                  float64  `json:"mtime"`
	DTime                  *float64 `json:"dtime"`
	NumberOfItems          int      `json:"number_of_items"`
}

type actionJSON struct {
	UID          uid.UID  `json:"uid"`
	Name         string   `json:"name"`
	InContext    string   `json:"in_context"`
	InContextUID *uid.UID `json:"in_context_uid"`
	InProject    string   `json:"in_prj"`
	IsComplete   bool     `json:"is_complete"`
	IsDeleted    bool     `json:"is_deleted"`
	CTime        float64  `json:"ctime"`
	MTime        float64  `json:"mtime"`
	DTime        *float64 `json:"dtime"`
}

func dtimeJSON(ts tdl.Timestamp) *float64 {
	if ts.IsNever() {
		return nil
	}
	seconds := ts.Seconds()
	return &seconds
}

func (in *Interpreter) contextJSON(c *tdl.Context) contextJSON {
	return contextJSON{
		UID:           c.UID(),
		Name:          c.Name(),
		IsActive:      c.IsActive(),
		IsDeleted:     c.IsDeleted(),
		CTime:         c.CTime().Seconds(),
		MTime:         c.MTime().Seconds(),
		DTime:         dtimeJSON(c.DTime()),
		NumberOfItems: len(in.st.ToDoList().ActionsInContext(c.UID())),
	}
}

func (in *Interpreter) projectJSON(p *tdl.Project) projectJSON {
	path := ""
	if parent, err := in.st.ToDoList().ParentOf(p); err == nil {
		path = in.st.AbsolutePath(parent)
	}
	return projectJSON{
		UID:                    p.UID(),
		Name:                   p.Name(),
		Path:                   path,
		IsActive:               p.IsActive(),
		IsComplete:             p.IsComplete(),
		IsDeleted:              p.IsDeleted(),
		NeedsReview:            p.NeedsReview(in.st.ToDoList().Now()),
		DefaultContextUID:      p.DefaultContextUID(),
		MaxSecondsBeforeReview: p.MaxSecondsBeforeReview(),
		CTime:                  p.CTime().Seconds(),
		MTime:                  p.MTime().Seconds(),
		DTime:                  dtimeJSON(p.DTime()),
		NumberOfItems:          len(p.Actions()),
	}
}

func (in *Interpreter) actionJSON(a *tdl.Action) actionJSON {
	list := in.st.ToDoList()
	out := actionJSON{
		UID:        a.UID(),
		Name:       a.Name(),
		InContext:  in.contextName(a.ContextUID()),
		IsComplete: a.IsComplete(),
		IsDeleted:  a.IsDeleted(),
		CTime:      a.CTime().Seconds(),
		MTime:      a.MTime().Seconds(),
		DTime:      dtimeJSON(a.DTime()),
	}
	if id := a.ContextUID(); id != uid.None {
		out.InContextUID = &id
	}
	if p := list.ProjectOf(a); p != nil {
		out.InProject = p.Name()
	}
	return out
}

func (in *Interpreter) printJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	in.println(string(b))
	return nil
}
