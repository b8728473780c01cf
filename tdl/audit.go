package tdl

import "github.com/amonks/immaculater/uid"

// Audit is the bookkeeping shared by every object in a to-do list: an
// identifier plus creation, modification, and deletion times.
//
// Invariants: ctime <= mtime; dtime is Never iff the object is not deleted;
// ctime <= dtime when deleted.
type Audit struct {
	uid       uid.UID
	ctime     Timestamp
	mtime     Timestamp
	dtime     Timestamp
	isDeleted bool
}

func newAudit(id uid.UID, now Timestamp) Audit {
	return Audit{uid: id, ctime: now, mtime: now, dtime: Never}
}

// UID returns the object's identifier.
func (a *Audit) UID() uid.UID { return a.uid }

// CTime returns the creation time.
func (a *Audit) CTime() Timestamp { return a.ctime }

// MTime returns the time of the last modification.
func (a *Audit) MTime() Timestamp { return a.mtime }

// DTime returns the deletion time, or Never.
func (a *Audit) DTime() Timestamp { return a.dtime }

// IsDeleted reports whether the object has been soft-deleted.
func (a *Audit) IsDeleted() bool { return a.isDeleted }

// touch records a modification. A clock that runs backwards never pushes
// mtime before ctime.
func (a *Audit) touch(now Timestamp) {
	if now < a.ctime {
		now = a.ctime
	}
	a.mtime = now
}

func (a *Audit) setDeleted(now Timestamp, deleted bool) {
	a.isDeleted = deleted
	if deleted {
		if now < a.ctime {
			now = a.ctime
		}
		a.dtime = now
	} else {
		a.dtime = Never
	}
	a.touch(now)
}

func (a *Audit) checkTimestamps() error {
	if a.mtime < a.ctime {
		return structuralf("uid=%d has mtime %d before ctime %d", a.uid, a.mtime, a.ctime)
	}
	if a.isDeleted != (a.dtime != Never) {
		return structuralf("uid=%d has is_deleted=%t but dtime=%d", a.uid, a.isDeleted, a.dtime)
	}
	if a.isDeleted && a.dtime < a.ctime {
		return structuralf("uid=%d has dtime %d before ctime %d", a.uid, a.dtime, a.ctime)
	}
	return nil
}
