package pwf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the value kinds a field can decode to.
type Kind uint8

const (
	KindText    Kind = iota // free text, trailing spaces stripped
	KindInt                 // plain base-10 integer
	KindDecimal             // integer digits with an implied scale divisor
	KindFixed               // number with an explicit decimal point
	KindEnum                // one of a fixed set of code strings
	KindFlag                // single mark character, present or blank
	KindList                // ordered sub-group elements of a multi-line record
	KindGroup               // one sub-group element (named values)
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindFixed:
		return "fixed"
	case KindEnum:
		return "enum"
	case KindFlag:
		return "flag"
	case KindList:
		return "list"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ============================================================
// Fixed — exact decimal arithmetic
// ============================================================

// ErrInexactRescale reports a rescale that would lose digits.
var ErrInexactRescale = errors.New("pwf: rescale would lose precision")

// Fixed is an exact decimal number: value = Coef / Scale, where Scale is a
// positive power of ten. "1.05" is {Coef: 105, Scale: 100}. All field
// scaling is done on Fixed, never by float64 reparsing, so decode/encode
// round-trips are drift-free.
type Fixed struct {
	Coef  int64
	Scale int64
}

// FixedOf builds a Fixed from a coefficient and scale divisor.
// A scale below 1 is treated as 1.
func FixedOf(coef, scale int64) Fixed {
	if scale < 1 {
		scale = 1
	}
	return Fixed{Coef: coef, Scale: scale}
}

// ParseFixed parses a decimal literal with an optional sign and decimal
// point: "5.34", "-99999.", ".5", "300".
func ParseFixed(s string) (Fixed, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fixed{}, fmt.Errorf("empty decimal literal")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return Fixed{}, fmt.Errorf("invalid decimal literal %q", s)
		}
	}
	if intPart == "" && fracPart == "" {
		return Fixed{}, fmt.Errorf("invalid decimal literal %q", s)
	}
	digits := intPart + fracPart
	coef, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Fixed{}, fmt.Errorf("invalid decimal literal %q", s)
	}
	if neg {
		coef = -coef
	}
	scale := int64(1)
	for range fracPart {
		scale *= 10
	}
	return Fixed{Coef: coef, Scale: scale}, nil
}

// String renders the exact decimal. Scale 1 renders as plain integer
// digits; otherwise the declared number of fraction digits is kept, so
// {534, 100} renders "5.34" and {10, 10} renders "1.0".
func (f Fixed) String() string {
	if f.Scale <= 1 {
		return strconv.FormatInt(f.Coef, 10)
	}
	neg := f.Coef < 0
	abs := f.Coef
	if neg {
		abs = -abs
	}
	fracDigits := 0
	for s := f.Scale; s > 1; s /= 10 {
		fracDigits++
	}
	digits := strconv.FormatInt(abs, 10)
	for len(digits) <= fracDigits {
		digits = "0" + digits
	}
	cut := len(digits) - fracDigits
	out := digits[:cut] + "." + digits[cut:]
	if neg {
		out = "-" + out
	}
	return out
}

// Float64 returns the nearest float64. For display only; arithmetic stays
// on the integer coefficient.
func (f Fixed) Float64() float64 {
	if f.Scale <= 1 {
		return float64(f.Coef)
	}
	return float64(f.Coef) / float64(f.Scale)
}

// Add returns f+g at the finer of the two scales.
func (f Fixed) Add(g Fixed) Fixed {
	a, b := f.normalized(), g.normalized()
	if a.Scale == b.Scale {
		return Fixed{Coef: a.Coef + b.Coef, Scale: a.Scale}
	}
	if a.Scale < b.Scale {
		a, b = b, a
	}
	mult := a.Scale / b.Scale
	return Fixed{Coef: a.Coef + b.Coef*mult, Scale: a.Scale}
}

// MulInt returns f scaled by an integer factor.
func (f Fixed) MulInt(n int64) Fixed {
	g := f.normalized()
	g.Coef *= n
	return g
}

// Rescale converts f to the given scale divisor exactly, or fails with
// ErrInexactRescale when digits would be dropped.
func (f Fixed) Rescale(scale int64) (Fixed, error) {
	if scale < 1 {
		scale = 1
	}
	g := f.normalized()
	if scale == g.Scale {
		return g, nil
	}
	if scale > g.Scale {
		return Fixed{Coef: g.Coef * (scale / g.Scale), Scale: scale}, nil
	}
	div := g.Scale / scale
	if g.Coef%div != 0 {
		return Fixed{}, ErrInexactRescale
	}
	return Fixed{Coef: g.Coef / div, Scale: scale}, nil
}

// Equal compares numeric value, ignoring scale representation:
// {10, 10} equals {1, 1}.
func (f Fixed) Equal(g Fixed) bool {
	a, b := f.normalized(), g.normalized()
	return a.Coef*b.Scale == b.Coef*a.Scale
}

// IsZero reports whether the value is exactly zero.
func (f Fixed) IsZero() bool {
	return f.Coef == 0
}

// normalized coerces a zero-value Fixed{0,0} into scale 1.
func (f Fixed) normalized() Fixed {
	if f.Scale < 1 {
		f.Scale = 1
	}
	return f
}

// ============================================================
// Value
// ============================================================

// FieldEntry is one named value inside a sub-group element.
type FieldEntry struct {
	Name  string
	Value Value
}

// Value is a decoded field value. Exactly one payload slot is meaningful,
// selected by the kind. Values are immutable; list and group contents are
// never mutated after assembly.
type Value struct {
	kind    Kind
	defined bool // false only for the zero Value
	intVal  int64
	fixVal  Fixed
	strVal  string
	boolVal bool
	listVal []Value
	grpVal  []FieldEntry
}

// Int creates an integer value.
func Int(n int64) Value {
	return Value{kind: KindInt, defined: true, intVal: n}
}

// Dec creates a scaled-decimal value: Dec(1050, 1000) is 1.050.
func Dec(coef, scale int64) Value {
	return Value{kind: KindDecimal, defined: true, fixVal: FixedOf(coef, scale)}
}

// Fix creates a fixed-point value: Fix(534, 100) is 5.34.
func Fix(coef, scale int64) Value {
	return Value{kind: KindFixed, defined: true, fixVal: FixedOf(coef, scale)}
}

// Text creates a free-text value.
func Text(s string) Value {
	return Value{kind: KindText, defined: true, strVal: s}
}

// Enum creates an enumerated-code value.
func Enum(code string) Value {
	return Value{kind: KindEnum, defined: true, strVal: code}
}

// Flag creates a boolean-flag value.
func Flag(set bool) Value {
	return Value{kind: KindFlag, defined: true, boolVal: set}
}

// List creates a list value (sub-group elements of a multi-line record).
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindList, defined: true, listVal: elems}
}

// Group creates one sub-group element holding named values.
func Group(entries ...FieldEntry) Value {
	if entries == nil {
		entries = []FieldEntry{}
	}
	return Value{kind: KindGroup, defined: true, grpVal: entries}
}

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// Defined reports whether the value was built by a constructor, as opposed
// to the zero Value.
func (v Value) Defined() bool { return v.defined }

// IsList reports whether the value is a list of sub-group elements.
func (v Value) IsList() bool { return v.kind == KindList }

// IsGroup reports whether the value is a sub-group element.
func (v Value) IsGroup() bool { return v.kind == KindGroup }

// Int64 returns the integer payload. Decimal and fixed payloads are
// truncated toward zero.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindInt:
		return v.intVal
	case KindDecimal, KindFixed:
		f := v.fixVal.normalized()
		return f.Coef / f.Scale
	default:
		return 0
	}
}

// Fixed returns the numeric payload as an exact decimal.
func (v Value) Fixed() Fixed {
	switch v.kind {
	case KindInt:
		return Fixed{Coef: v.intVal, Scale: 1}
	case KindDecimal, KindFixed:
		return v.fixVal.normalized()
	default:
		return Fixed{Scale: 1}
	}
}

// Float64 returns the numeric payload as a float64, for display and export.
func (v Value) Float64() float64 { return v.Fixed().Float64() }

// Str returns the text or code payload.
func (v Value) Str() string { return v.strVal }

// Bool returns the flag payload.
func (v Value) Bool() bool { return v.boolVal }

// List returns the sub-group elements of a list value.
func (v Value) List() []Value { return v.listVal }

// Get returns a named value inside a sub-group element.
func (v Value) Get(name string) (Value, bool) {
	for _, e := range v.grpVal {
		if e.Name == name {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Entries returns the named values of a sub-group element in field order.
func (v Value) Entries() []FieldEntry { return v.grpVal }

// Equal compares decoded values. Numeric kinds compare by exact value, so
// a blank-defaulted 1.0 equals a re-parsed "1.000".
func (v Value) Equal(w Value) bool {
	if v.IsList() || w.IsList() {
		if !v.IsList() || !w.IsList() || len(v.listVal) != len(w.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(w.listVal[i]) {
				return false
			}
		}
		return true
	}
	if v.IsGroup() || w.IsGroup() {
		if !v.IsGroup() || !w.IsGroup() || len(v.grpVal) != len(w.grpVal) {
			return false
		}
		for i := range v.grpVal {
			if v.grpVal[i].Name != w.grpVal[i].Name || !v.grpVal[i].Value.Equal(w.grpVal[i].Value) {
				return false
			}
		}
		return true
	}
	switch v.kind {
	case KindInt, KindDecimal, KindFixed:
		switch w.kind {
		case KindInt, KindDecimal, KindFixed:
			return v.Fixed().Equal(w.Fixed())
		}
		return false
	case KindText, KindEnum:
		return (w.kind == KindText || w.kind == KindEnum) && v.strVal == w.strVal
	case KindFlag:
		return w.kind == KindFlag && v.boolVal == w.boolVal
	}
	return false
}

// String renders the value for diagnostics and export.
func (v Value) String() string {
	if v.IsList() {
		parts := make([]string, len(v.listVal))
		for i, e := range v.listVal {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	if v.IsGroup() {
		parts := make([]string, len(v.grpVal))
		for i, e := range v.grpVal {
			parts[i] = e.Name + "=" + e.Value.String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindDecimal, KindFixed:
		return v.fixVal.normalized().String()
	case KindFlag:
		if v.boolVal {
			return "t"
		}
		return "f"
	default:
		return v.strVal
	}
}
