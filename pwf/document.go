package pwf

// Document is an ordered collection of parsed records: record types in
// first-seen order, records within a type in source order. Downstream
// consumers rely on positional semantics (a bus record precedes records
// referencing the bus), so order is never reshuffled.
type Document struct {
	order []string
	recs  map[string][]*Record
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{recs: make(map[string][]*Record)}
}

// Append adds a record, creating its type's sequence on first sight.
func (d *Document) Append(r *Record) {
	if r == nil {
		return
	}
	if _, ok := d.recs[r.typ]; !ok {
		d.order = append(d.order, r.typ)
	}
	d.recs[r.typ] = append(d.recs[r.typ], r)
}

// Types returns the record-type tags in first-seen order.
func (d *Document) Types() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Records returns the records of one type in source order. The returned
// slice must not be mutated.
func (d *Document) Records(typ string) []*Record {
	return d.recs[typ]
}

// Len returns the total record count across all types.
func (d *Document) Len() int {
	n := 0
	for _, rs := range d.recs {
		n += len(rs)
	}
	return n
}

// Equal compares two documents by type order, record order, and decoded
// field values.
func (d *Document) Equal(e *Document) bool {
	if len(d.order) != len(e.order) {
		return false
	}
	for i, typ := range d.order {
		if e.order[i] != typ {
			return false
		}
		a, b := d.recs[typ], e.recs[typ]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if !recordsEqual(a[j], b[j]) {
				return false
			}
		}
	}
	return true
}

func recordsEqual(a, b *Record) bool {
	if a.typ != b.typ || len(a.names) != len(b.names) {
		return false
	}
	for i, name := range a.names {
		if b.names[i] != name {
			return false
		}
		if !a.fields[name].Equal(b.fields[name]) {
			return false
		}
	}
	return true
}
