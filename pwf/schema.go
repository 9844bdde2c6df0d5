package pwf

// FieldSpec describes one fixed-width field of a record type. Columns are
// 1-based and inclusive at both ends, matching the source format's column
// numbering.
type FieldSpec struct {
	Name     string
	Start    int
	End      int
	Kind     Kind
	Scale    int64    // divisor for KindDecimal ("1050" at scale 1000 is 1.050)
	Default  Value    // used when the source slice is blank
	Codes    []string // allowed codes for KindEnum
	Mark     string   // rendered character(s) for a set KindFlag
	ZeroFill bool     // zero-pad numeric output instead of space padding
}

// Width returns the field width in columns.
func (f *FieldSpec) Width() int { return f.End - f.Start + 1 }

// AllowsCode reports whether a code is in the enum set.
func (f *FieldSpec) AllowsCode(code string) bool {
	for _, c := range f.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// defaultValue returns the declared default, or the kind's zero value when
// no default was declared.
func (f *FieldSpec) defaultValue() Value {
	if f.Default.Defined() {
		return f.Default
	}
	switch f.Kind {
	case KindInt:
		return Int(0)
	case KindDecimal:
		return Dec(0, f.Scale)
	case KindFixed:
		return Fix(0, 1)
	case KindEnum:
		if len(f.Codes) > 0 {
			return Enum(f.Codes[0])
		}
		return Enum("")
	case KindFlag:
		return Flag(false)
	default:
		return Text("")
	}
}

// RecordSchema describes one record type: its section marker and the column
// layout of its data lines. Multi-line record types additionally declare a
// sub-group layout: each logical record is a start line followed by one
// sub-group line per element, closed by the group terminator line.
type RecordSchema struct {
	Marker      string
	Fields      []FieldSpec
	GroupField  string      // name of the list-valued field; empty for single-line types
	GroupFields []FieldSpec // column layout of sub-group lines
	GroupEnd    string      // sub-group terminator marker (e.g. "FBAN")
}

// Multiline reports whether records of this type span multiple lines.
func (s *RecordSchema) Multiline() bool { return s.GroupField != "" }

// Field returns the spec for a named line field, or nil.
func (s *RecordSchema) Field(name string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// GroupSpec returns the sub-group spec for a named sub-group field.
func (s *RecordSchema) GroupSpec(name string) *FieldSpec {
	for i := range s.GroupFields {
		if s.GroupFields[i].Name == name {
			return &s.GroupFields[i]
		}
	}
	return nil
}

// Width returns the canonical line width: the last declared end column.
func (s *RecordSchema) Width() int {
	w := 0
	for i := range s.Fields {
		if s.Fields[i].End > w {
			w = s.Fields[i].End
		}
	}
	return w
}

// GroupWidth returns the canonical sub-group line width.
func (s *RecordSchema) GroupWidth() int {
	w := 0
	for i := range s.GroupFields {
		if s.GroupFields[i].End > w {
			w = s.GroupFields[i].End
		}
	}
	return w
}

// ============================================================
// Builders
// ============================================================

// SpecOption modifies a field spec under construction.
type SpecOption func(*FieldSpec)

// Spec creates a field spec for the given column range and kind.
func Spec(name string, start, end int, kind Kind, opts ...SpecOption) FieldSpec {
	f := FieldSpec{Name: name, Start: start, End: end, Kind: kind, Scale: 1}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// WithDefault sets the value used when the source slice is blank.
func WithDefault(v Value) SpecOption {
	return func(f *FieldSpec) { f.Default = v }
}

// WithScale sets the implied decimal divisor for KindDecimal fields.
func WithScale(scale int64) SpecOption {
	return func(f *FieldSpec) { f.Scale = scale }
}

// WithCodes sets the allowed codes for a KindEnum field. The first code is
// the default unless one is declared explicitly.
func WithCodes(codes ...string) SpecOption {
	return func(f *FieldSpec) { f.Codes = codes }
}

// WithMark sets the character rendered when a KindFlag field is set.
func WithMark(mark string) SpecOption {
	return func(f *FieldSpec) { f.Mark = mark }
}

// WithZeroFill zero-pads numeric output instead of space padding.
func WithZeroFill() SpecOption {
	return func(f *FieldSpec) { f.ZeroFill = true }
}

// NewRecordSchema creates a single-line record schema.
func NewRecordSchema(marker string, fields ...FieldSpec) *RecordSchema {
	return &RecordSchema{Marker: marker, Fields: fields}
}

// NewGroupedSchema creates a multi-line record schema whose records carry a
// list-valued field of sub-group elements, each decoded from one line with
// the group layout, terminated by the groupEnd marker.
func NewGroupedSchema(marker, groupField, groupEnd string, fields []FieldSpec, groupFields []FieldSpec) *RecordSchema {
	return &RecordSchema{
		Marker:      marker,
		Fields:      fields,
		GroupField:  groupField,
		GroupFields: groupFields,
		GroupEnd:    groupEnd,
	}
}
