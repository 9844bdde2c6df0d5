package pwf

import "fmt"

// AssemblyError reports a malformed multi-line record: a truncated or
// misshapen continuation group. The record is discarded and assembly
// continues with the next record start.
type AssemblyError struct {
	RecordType string
	Line       int
	Reason     string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.RecordType, e.Line, e.Reason)
}

// Record is one decoded record: a type tag plus every field the schema
// declares, default-filled where the source was blank. Records are
// immutable once assembled; With produces a corrected copy.
type Record struct {
	typ    string
	names  []string
	fields map[string]Value
}

// NewRecord builds a record for a schema from explicit values. Fields not
// present in vals take their declared defaults. Used by callers that
// synthesize documents for serialization.
func NewRecord(s *RecordSchema, vals map[string]Value) *Record {
	r := &Record{typ: s.Marker, fields: make(map[string]Value, len(s.Fields)+1)}
	for i := range s.Fields {
		f := &s.Fields[i]
		r.names = append(r.names, f.Name)
		if v, ok := vals[f.Name]; ok {
			r.fields[f.Name] = v
		} else {
			r.fields[f.Name] = f.defaultValue()
		}
	}
	if s.Multiline() {
		r.names = append(r.names, s.GroupField)
		if v, ok := vals[s.GroupField]; ok && v.IsList() {
			r.fields[s.GroupField] = v
		} else {
			r.fields[s.GroupField] = List()
		}
	}
	return r
}

// Type returns the record-type tag.
func (r *Record) Type() string { return r.typ }

// Get returns a field value by name.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Names returns the field names in schema order.
func (r *Record) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// With returns a copy of the record with one field replaced. The receiver
// is unchanged.
func (r *Record) With(name string, v Value) *Record {
	out := &Record{typ: r.typ, names: r.names, fields: make(map[string]Value, len(r.fields))}
	for k, val := range r.fields {
		out.fields[k] = val
	}
	out.fields[name] = v
	return out
}

// rawLine is the transient context of one classified line: text plus its
// 1-based source line number, kept only for assembly and diagnostics.
type rawLine struct {
	text string
	num  int
}

// assemble decodes one record type's classified data lines into records.
// Failures are isolated per record: the offending record is skipped with a
// diagnostic and assembly continues.
func assemble(lines []rawLine, s *RecordSchema) ([]*Record, []Diagnostic) {
	if s.Multiline() {
		return assembleGrouped(lines, s)
	}
	var recs []*Record
	var diags []Diagnostic
	for _, ln := range lines {
		rec, err := decodeLine(ln, s, s.Fields)
		if err != nil {
			diags = append(diags, diagFromErr(err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, diags
}

// assembleGrouped handles multi-line record types: a start line decoded
// with the line layout, then one sub-group element per line until the group
// terminator. A group truncated by end-of-section is an AssemblyError.
func assembleGrouped(lines []rawLine, s *RecordSchema) ([]*Record, []Diagnostic) {
	var recs []*Record
	var diags []Diagnostic
	i := 0
	for i < len(lines) {
		start := lines[i]
		rec, err := decodeLine(start, s, s.Fields)
		if err != nil {
			diags = append(diags, diagFromErr(err))
			rec = nil // keep consuming the group, drop the record
		}
		i++
		var elems []Value
		closed := false
		bad := false
		badLine := start.num
		for i < len(lines) {
			ln := lines[i]
			if matchMarker(ln.text, s.GroupEnd) {
				closed = true
				i++
				break
			}
			elem, gerr := decodeGroupLine(ln, s)
			if gerr != nil {
				diags = append(diags, diagFromErr(gerr))
				bad = true
				badLine = ln.num
			} else {
				elems = append(elems, elem)
			}
			i++
		}
		if !closed {
			diags = append(diags, Diagnostic{
				Severity:   SeverityError,
				Line:       badLine,
				RecordType: s.Marker,
				Message: (&AssemblyError{
					RecordType: s.Marker,
					Line:       start.num,
					Reason:     fmt.Sprintf("group not terminated by %s before end of section", s.GroupEnd),
				}).Error(),
			})
			continue
		}
		if bad || rec == nil {
			continue
		}
		recs = append(recs, rec.With(s.GroupField, List(elems...)))
	}
	return recs, diags
}

// decodeLine decodes every field of one line into a record.
func decodeLine(ln rawLine, s *RecordSchema, fields []FieldSpec) (*Record, error) {
	r := &Record{typ: s.Marker, fields: make(map[string]Value, len(fields)+1)}
	for i := range fields {
		f := &fields[i]
		v, err := decodeField(ln.text, f)
		if err != nil {
			return nil, &FieldError{
				RecordType: s.Marker,
				Field:      f.Name,
				Line:       ln.num,
				Raw:        sliceField(ln.text, f),
				Reason:     err.Error(),
			}
		}
		r.names = append(r.names, f.Name)
		r.fields[f.Name] = v
	}
	if s.Multiline() {
		r.names = append(r.names, s.GroupField)
		r.fields[s.GroupField] = List()
	}
	return r, nil
}

// decodeGroupLine decodes one sub-group line into a group element.
func decodeGroupLine(ln rawLine, s *RecordSchema) (Value, error) {
	entries := make([]FieldEntry, 0, len(s.GroupFields))
	for i := range s.GroupFields {
		f := &s.GroupFields[i]
		v, err := decodeField(ln.text, f)
		if err != nil {
			return Value{}, &AssemblyError{
				RecordType: s.Marker,
				Line:       ln.num,
				Reason:     fmt.Sprintf("sub-group field %s: %v", f.Name, err),
			}
		}
		entries = append(entries, FieldEntry{Name: f.Name, Value: v})
	}
	return Group(entries...), nil
}

// diagFromErr converts a typed decode/assembly error into a diagnostic.
func diagFromErr(err error) Diagnostic {
	switch e := err.(type) {
	case *FieldError:
		return Diagnostic{Severity: SeverityError, Line: e.Line, RecordType: e.RecordType, Message: e.Error()}
	case *AssemblyError:
		return Diagnostic{Severity: SeverityError, Line: e.Line, RecordType: e.RecordType, Message: e.Error()}
	default:
		return Diagnostic{Severity: SeverityError, Message: err.Error()}
	}
}
