package tdl

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/amonks/immaculater/uid"
)

// The list is stored in protocol buffer wire format. Field numbers:
//
//	Timestamp   { int64 ctime=1; int64 mtime=2; int64 dtime=3 }
//	Metadata    { string name=1; string note=2 }
//	Common      { bool is_deleted=1; Timestamp timestamp=2; Metadata metadata=3; int64 uid=4 }
//	Context     { Common common=1; bool is_active=2 }
//	Action      { Common common=1; bool is_complete=2; int64 ctx_uid=3 }
//	Project     { Common common=1; bool is_complete=2; bool is_active=3; repeated Action actions=4;
//	              double max_seconds_before_review=5; double last_review_epoch_seconds=6;
//	              int64 default_context_uid=7 }
//	Folder      { Common common=1; repeated Folder folders=2; repeated Project projects=3 }
//	ContextList { Common common=1; repeated Context contexts=2 }
//	Note        { string name=1; string note=2 }
//	NoteList    { repeated Note notes=1 }
//	ToDoList    { Project inbox=1; Folder root=2; ContextList ctx_list=3; NoteList note_list=4;
//	              bool has_never_purged_deleted=5 }
//
// A folder's children interleave fields 2 and 3 in order, and are decoded
// in wire order, so sibling order survives a round trip.

// MarshalBinary encodes the list. It does not check well-formedness.
func (l *ToDoList) MarshalBinary() ([]byte, error) {
	var b []byte
	b = appendMessage(b, 1, appendProject(nil, l.inbox))
	b = appendMessage(b, 2, appendFolder(nil, l.root))
	b = appendMessage(b, 3, appendContextList(nil, l.ctxList))
	b = appendMessage(b, 4, appendNoteList(nil, l.notes))
	b = appendBool(b, 5, l.hasNeverPurgedDeleted)
	return b, nil
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendCommon(b []byte, a *Audit, n *named) []byte {
	b = appendBool(b, 1, a.isDeleted)

	var ts []byte
	ts = appendInt64(ts, 1, int64(a.ctime))
	ts = appendInt64(ts, 2, int64(a.mtime))
	ts = appendInt64(ts, 3, int64(a.dtime))
	b = appendMessage(b, 2, ts)

	var md []byte
	if n != nil {
		md = appendString(md, 1, n.name)
		if n.note != "" {
			md = appendString(md, 2, n.note)
		}
	}
	b = appendMessage(b, 3, md)

	return appendInt64(b, 4, int64(a.uid))
}

func appendAction(b []byte, a *Action) []byte {
	b = appendMessage(b, 1, appendCommon(nil, &a.Audit, &a.named))
	b = appendBool(b, 2, a.isComplete)
	if a.ctx != uid.None {
		b = appendInt64(b, 3, int64(a.ctx))
	}
	return b
}

func appendContext(b []byte, c *Context) []byte {
	b = appendMessage(b, 1, appendCommon(nil, &c.Audit, &c.named))
	return appendBool(b, 2, c.isActive)
}

func appendProject(b []byte, p *Project) []byte {
	b = appendMessage(b, 1, appendCommon(nil, &p.Audit, &p.named))
	b = appendBool(b, 2, p.isComplete)
	b = appendBool(b, 3, p.isActive)
	for _, a := range p.items {
		b = appendMessage(b, 4, appendAction(nil, a))
	}
	b = appendDouble(b, 5, p.maxSecondsBeforeReview)
	b = appendDouble(b, 6, p.lastReview)
	if p.defaultCtx != uid.None {
		b = appendInt64(b, 7, int64(p.defaultCtx))
	}
	return b
}

func appendFolder(b []byte, f *Folder) []byte {
	b = appendMessage(b, 1, appendCommon(nil, &f.Audit, &f.named))
	for _, child := range f.items {
		switch child := child.(type) {
		case *Folder:
			b = appendMessage(b, 2, appendFolder(nil, child))
		case *Project:
			b = appendMessage(b, 3, appendProject(nil, child))
		default:
			panic(fmt.Sprintf("tdl: unexpected folder child %T", child))
		}
	}
	return b
}

func appendContextList(b []byte, l *ContextList) []byte {
	b = appendMessage(b, 1, appendCommon(nil, &l.Audit, &named{name: l.name}))
	for _, c := range l.items {
		b = appendMessage(b, 2, appendContext(nil, c))
	}
	return b
}

func appendNoteList(b []byte, l *NoteList) []byte {
	for _, name := range l.Names() {
		var note []byte
		note = appendString(note, 1, name)
		note = appendString(note, 2, l.notes[name])
		b = appendMessage(b, 1, note)
	}
	return b
}

// Unmarshal decodes a list written by MarshalBinary. Every decoded
// identifier is observed on opts.UIDs so that new identifiers never collide
// with stored ones. Unmarshal does not check well-formedness; call
// CheckIsWellFormed.
func Unmarshal(data []byte, opts Options) (*ToDoList, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty to-do list", ErrSerialization)
	}
	d := &decoder{uids: opts.withDefaults().UIDs}
	l, err := d.toDoList(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	l.opts = opts.withDefaults()
	l.opts.UIDs = d.uids
	return l, nil
}

type decoder struct {
	uids *uid.Factory
}

type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	fixed  uint64
	bytes  []byte
}

var errWireType = errors.New("unexpected wire type")

func (f field) want(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("%w for field %d: %d", errWireType, f.num, f.typ)
	}
	return nil
}

// eachField calls fn for every field in b in wire order.
func eachField(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.fixed, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) toDoList(b []byte) (*ToDoList, error) {
	l := &ToDoList{notes: newNoteList()}
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			if err = f.want(protowire.BytesType); err == nil {
				l.inbox, err = d.project(f.bytes)
			}
		case 2:
			if err = f.want(protowire.BytesType); err == nil {
				l.root, err = d.folder(f.bytes)
			}
		case 3:
			if err = f.want(protowire.BytesType); err == nil {
				l.ctxList, err = d.contextList(f.bytes)
			}
		case 4:
			if err = f.want(protowire.BytesType); err == nil {
				err = d.noteList(f.bytes, l.notes)
			}
		case 5:
			if err = f.want(protowire.VarintType); err == nil {
				l.hasNeverPurgedDeleted = protowire.DecodeBool(f.varint)
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if l.inbox == nil || l.root == nil || l.ctxList == nil {
		return nil, errors.New("missing inbox, root folder, or context list")
	}
	return l, nil
}

func (d *decoder) common(b []byte) (Audit, named, error) {
	a := Audit{dtime: Never}
	var n named
	err := eachField(b, func(f field) error {
		switch f.num {
		case 1:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			a.isDeleted = protowire.DecodeBool(f.varint)
		case 2:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			return d.timestamp(f.bytes, &a)
		case 3:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			return d.metadata(f.bytes, &n)
		case 4:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			a.uid = uid.UID(int64(f.varint))
		}
		return nil
	})
	if err != nil {
		return Audit{}, named{}, err
	}
	if a.uid < uid.Min {
		return Audit{}, named{}, fmt.Errorf("invalid %s", a.uid)
	}
	d.uids.Observe(a.uid)
	return a, n, nil
}

func (d *decoder) timestamp(b []byte, a *Audit) error {
	return eachField(b, func(f field) error {
		if f.num < 1 || f.num > 3 {
			return nil
		}
		if err := f.want(protowire.VarintType); err != nil {
			return err
		}
		v := Timestamp(int64(f.varint))
		switch f.num {
		case 1:
			a.ctime = v
		case 2:
			a.mtime = v
		case 3:
			a.dtime = v
		}
		return nil
	})
}

func (d *decoder) metadata(b []byte, n *named) error {
	return eachField(b, func(f field) error {
		if f.num != 1 && f.num != 2 {
			return nil
		}
		if err := f.want(protowire.BytesType); err != nil {
			return err
		}
		if f.num == 1 {
			n.name = string(f.bytes)
		} else {
			n.note = string(f.bytes)
		}
		return nil
	})
}

func (d *decoder) action(b []byte) (*Action, error) {
	a := &Action{}
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			if err = f.want(protowire.BytesType); err == nil {
				a.Audit, a.named, err = d.common(f.bytes)
			}
		case 2:
			if err = f.want(protowire.VarintType); err == nil {
				a.isComplete = protowire.DecodeBool(f.varint)
			}
		case 3:
			if err = f.want(protowire.VarintType); err == nil {
				a.ctx = uid.UID(int64(f.varint))
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("action: %w", err)
	}
	return a, nil
}

func (d *decoder) context(b []byte) (*Context, error) {
	c := &Context{}
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			if err = f.want(protowire.BytesType); err == nil {
				c.Audit, c.named, err = d.common(f.bytes)
			}
		case 2:
			if err = f.want(protowire.VarintType); err == nil {
				c.isActive = protowire.DecodeBool(f.varint)
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("context: %w", err)
	}
	return c, nil
}

func (d *decoder) project(b []byte) (*Project, error) {
	p := &Project{maxSecondsBeforeReview: DefaultMaxSecondsBeforeReview}
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			if err = f.want(protowire.BytesType); err == nil {
				p.Audit, p.named, err = d.common(f.bytes)
			}
		case 2:
			if err = f.want(protowire.VarintType); err == nil {
				p.isComplete = protowire.DecodeBool(f.varint)
			}
		case 3:
			if err = f.want(protowire.VarintType); err == nil {
				p.isActive = protowire.DecodeBool(f.varint)
			}
		case 4:
			if err = f.want(protowire.BytesType); err == nil {
				var a *Action
				if a, err = d.action(f.bytes); err == nil {
					p.items = append(p.items, a)
				}
			}
		case 5:
			if err = f.want(protowire.Fixed64Type); err == nil {
				p.maxSecondsBeforeReview = math.Float64frombits(f.fixed)
			}
		case 6:
			if err = f.want(protowire.Fixed64Type); err == nil {
				p.lastReview = math.Float64frombits(f.fixed)
			}
		case 7:
			if err = f.want(protowire.VarintType); err == nil {
				p.defaultCtx = uid.UID(int64(f.varint))
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return p, nil
}

func (d *decoder) folder(b []byte) (*Folder, error) {
	fo := &Folder{}
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			if err = f.want(protowire.BytesType); err == nil {
				fo.Audit, fo.named, err = d.common(f.bytes)
			}
		case 2:
			if err = f.want(protowire.BytesType); err == nil {
				var sub *Folder
				if sub, err = d.folder(f.bytes); err == nil {
					fo.items = append(fo.items, sub)
				}
			}
		case 3:
			if err = f.want(protowire.BytesType); err == nil {
				var p *Project
				if p, err = d.project(f.bytes); err == nil {
					fo.items = append(fo.items, p)
				}
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("folder: %w", err)
	}
	return fo, nil
}

func (d *decoder) contextList(b []byte) (*ContextList, error) {
	l := &ContextList{}
	err := eachField(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			if err = f.want(protowire.BytesType); err == nil {
				var n named
				l.Audit, n, err = d.common(f.bytes)
				l.name = n.name
			}
		case 2:
			if err = f.want(protowire.BytesType); err == nil {
				var c *Context
				if c, err = d.context(f.bytes); err == nil {
					l.items = append(l.items, c)
				}
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("context list: %w", err)
	}
	return l, nil
}

func (d *decoder) noteList(b []byte, notes *NoteList) error {
	return eachField(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		if err := f.want(protowire.BytesType); err != nil {
			return err
		}
		var n named
		if err := d.metadata(f.bytes, &n); err != nil {
			return fmt.Errorf("note: %w", err)
		}
		notes.notes[n.name] = n.note
		return nil
	})
}
