package pwf

import (
	"fmt"
	"sort"
)

// SchemaError reports a malformed schema at registry-build time. It is the
// only fatal error class in the codec: a layout bug fails construction
// instead of silently misparsing files later.
type SchemaError struct {
	Marker string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema %s.%s: %s", e.Marker, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema %s: %s", e.Marker, e.Reason)
}

// Registry maps section markers to record schemas. It is built once and is
// read-only afterwards; it may be shared across goroutines without
// synchronization.
type Registry struct {
	schemas map[string]*RecordSchema
	order   []string // registration order
	markers []string // all markers (incl. ignored), longest first
	ignored map[string]bool

	// Section framing markers.
	CommentPrefix string // lines starting with this are comments
	Terminator    string // section-end sentinel
	EndOfFile     string // file-end sentinel; stops the scan
}

// NewRegistry creates an empty registry with the ANAREDE framing defaults:
// "(" comments, 99999 section terminator, FIM end-of-file marker.
func NewRegistry() *Registry {
	return &Registry{
		schemas:       make(map[string]*RecordSchema),
		ignored:       make(map[string]bool),
		CommentPrefix: "(",
		Terminator:    "99999",
		EndOfFile:     "FIM",
	}
}

// Register validates a record schema and adds it to the registry.
// Validation failures return a *SchemaError and leave the registry
// unchanged.
func (r *Registry) Register(s *RecordSchema) error {
	if s == nil || s.Marker == "" {
		return &SchemaError{Reason: "empty record-type marker"}
	}
	if _, dup := r.schemas[s.Marker]; dup || r.ignored[s.Marker] {
		return &SchemaError{Marker: s.Marker, Reason: "duplicate record-type marker"}
	}
	if err := validateLayout(s.Marker, s.Fields); err != nil {
		return err
	}
	if s.Multiline() {
		if s.GroupEnd == "" {
			return &SchemaError{Marker: s.Marker, Reason: "multi-line schema without group terminator"}
		}
		if err := validateLayout(s.Marker, s.GroupFields); err != nil {
			return err
		}
		if s.Field(s.GroupField) != nil {
			return &SchemaError{Marker: s.Marker, Field: s.GroupField, Reason: "group field name collides with a line field"}
		}
	}
	r.schemas[s.Marker] = s
	r.order = append(r.order, s.Marker)
	r.addMarker(s.Marker)
	return nil
}

// Ignore declares section markers the classifier should recognize and skip
// without per-line warnings (sections the format defines but this codec
// does not decode).
func (r *Registry) Ignore(markers ...string) error {
	for _, m := range markers {
		if m == "" {
			return &SchemaError{Reason: "empty ignored marker"}
		}
		if _, dup := r.schemas[m]; dup {
			return &SchemaError{Marker: m, Reason: "ignored marker collides with a registered schema"}
		}
		if r.ignored[m] {
			continue
		}
		r.ignored[m] = true
		r.addMarker(m)
	}
	return nil
}

// Lookup returns the schema registered for a marker.
func (r *Registry) Lookup(marker string) (*RecordSchema, bool) {
	s, ok := r.schemas[marker]
	return s, ok
}

// Ignored reports whether a marker opens a recognized-but-skipped section.
func (r *Registry) Ignored(marker string) bool { return r.ignored[marker] }

// Types returns the registered markers in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Markers returns every recognized marker, longest first, so that no
// shorter marker can shadow a longer one sharing its prefix.
func (r *Registry) Markers() []string { return r.markers }

func (r *Registry) addMarker(m string) {
	r.markers = append(r.markers, m)
	sort.Slice(r.markers, func(i, j int) bool {
		if len(r.markers[i]) != len(r.markers[j]) {
			return len(r.markers[i]) > len(r.markers[j])
		}
		return r.markers[i] < r.markers[j]
	})
}

// validateLayout enforces the layout invariants for one line's fields:
// unique names, start ≤ end, 1-based columns, ascending and non-overlapping
// ranges, enum fields with codes, and scales that are powers of ten.
func validateLayout(marker string, fields []FieldSpec) error {
	seen := make(map[string]bool, len(fields))
	prevEnd := 0
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return &SchemaError{Marker: marker, Reason: "field with empty name"}
		}
		if seen[f.Name] {
			return &SchemaError{Marker: marker, Field: f.Name, Reason: "duplicate field name"}
		}
		seen[f.Name] = true
		if f.Start < 1 {
			return &SchemaError{Marker: marker, Field: f.Name, Reason: "start column before column 1"}
		}
		if f.End < f.Start {
			return &SchemaError{Marker: marker, Field: f.Name, Reason: "end column before start column"}
		}
		if f.Start <= prevEnd {
			return &SchemaError{Marker: marker, Field: f.Name, Reason: "column range overlaps or breaks ascending order"}
		}
		prevEnd = f.End
		switch f.Kind {
		case KindEnum:
			if len(f.Codes) == 0 {
				return &SchemaError{Marker: marker, Field: f.Name, Reason: "enum field without codes"}
			}
			for _, c := range f.Codes {
				if len(c) > f.Width() {
					return &SchemaError{Marker: marker, Field: f.Name, Reason: fmt.Sprintf("code %q wider than field", c)}
				}
			}
		case KindDecimal:
			if !powerOfTen(f.Scale) {
				return &SchemaError{Marker: marker, Field: f.Name, Reason: "scale is not a power of ten"}
			}
		case KindList, KindGroup:
			return &SchemaError{Marker: marker, Field: f.Name, Reason: "list/group kinds are assembly results, not field kinds"}
		}
	}
	return nil
}

func powerOfTen(n int64) bool {
	if n < 1 {
		return false
	}
	for n%10 == 0 {
		n /= 10
	}
	return n == 1
}
