// Package mapping loads field-mapping documents — the declarative column
// layouts driving the pwf codec — from JSON or YAML and builds a validated
// registry. The built-in ANAREDE layouts (pwf.Anarede) cover standard
// files; a mapping document overrides them for dialects with shifted
// columns or extra record types.
package mapping

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/voltlab/pwf/pwf"
)

// File is the top-level mapping document.
type File struct {
	CommentPrefix string      `json:"comment_prefix" yaml:"comment_prefix"`
	Terminator    string      `json:"terminator" yaml:"terminator"`
	EndOfFile     string      `json:"end_of_file" yaml:"end_of_file"`
	Ignore        []string    `json:"ignore" yaml:"ignore"`
	Records       []RecordDef `json:"records" yaml:"records"`
}

// RecordDef declares one record type. Fields are ordered; the registry
// rejects layouts that are out of column order or overlapping.
type RecordDef struct {
	Marker      string     `json:"marker" yaml:"marker"`
	GroupField  string     `json:"group_field" yaml:"group_field"`
	GroupEnd    string     `json:"group_end" yaml:"group_end"`
	Fields      []FieldDef `json:"fields" yaml:"fields"`
	GroupFields []FieldDef `json:"group_fields" yaml:"group_fields"`
}

// FieldDef declares one fixed-width field.
type FieldDef struct {
	Name     string   `json:"name" yaml:"name"`
	Column   Column   `json:"column" yaml:"column"`
	Kind     string   `json:"kind" yaml:"kind"`
	Scale    int64    `json:"scale" yaml:"scale"`
	Default  any      `json:"default" yaml:"default"`
	Codes    []string `json:"codes" yaml:"codes"`
	Mark     string   `json:"mark" yaml:"mark"`
	ZeroFill bool     `json:"zero_fill" yaml:"zero_fill"`
}

// Column is a 1-based inclusive column range.
type Column struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// FromJSON builds a registry from a JSON mapping document.
func FromJSON(data []byte) (*pwf.Registry, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("mapping: decode json: %w", err)
	}
	return build(&f)
}

// FromYAML builds a registry from a YAML mapping document.
func FromYAML(data []byte) (*pwf.Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("mapping: decode yaml: %w", err)
	}
	return build(&f)
}

func build(f *File) (*pwf.Registry, error) {
	reg := pwf.NewRegistry()
	if f.CommentPrefix != "" {
		reg.CommentPrefix = f.CommentPrefix
	}
	if f.Terminator != "" {
		reg.Terminator = f.Terminator
	}
	if f.EndOfFile != "" {
		reg.EndOfFile = f.EndOfFile
	}
	for _, rd := range f.Records {
		fields, err := buildFields(rd.Fields)
		if err != nil {
			return nil, fmt.Errorf("mapping: record %s: %w", rd.Marker, err)
		}
		var s *pwf.RecordSchema
		if rd.GroupField != "" {
			groupFields, err := buildFields(rd.GroupFields)
			if err != nil {
				return nil, fmt.Errorf("mapping: record %s group: %w", rd.Marker, err)
			}
			s = pwf.NewGroupedSchema(rd.Marker, rd.GroupField, rd.GroupEnd, fields, groupFields)
		} else {
			s = pwf.NewRecordSchema(rd.Marker, fields...)
		}
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	if err := reg.Ignore(f.Ignore...); err != nil {
		return nil, err
	}
	return reg, nil
}

func buildFields(defs []FieldDef) ([]pwf.FieldSpec, error) {
	out := make([]pwf.FieldSpec, 0, len(defs))
	for _, d := range defs {
		kind, err := parseKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, err)
		}
		opts := []pwf.SpecOption{}
		if d.Scale > 1 {
			opts = append(opts, pwf.WithScale(d.Scale))
		}
		if len(d.Codes) > 0 {
			opts = append(opts, pwf.WithCodes(d.Codes...))
		}
		if d.Mark != "" {
			opts = append(opts, pwf.WithMark(d.Mark))
		}
		if d.ZeroFill {
			opts = append(opts, pwf.WithZeroFill())
		}
		if d.Default != nil {
			v, err := coerceDefault(d.Default, kind, d.Scale)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", d.Name, err)
			}
			opts = append(opts, pwf.WithDefault(v))
		}
		out = append(out, pwf.Spec(d.Name, d.Column.Start, d.Column.End, kind, opts...))
	}
	return out, nil
}

func parseKind(s string) (pwf.Kind, error) {
	switch s {
	case "text", "":
		return pwf.KindText, nil
	case "int":
		return pwf.KindInt, nil
	case "decimal":
		return pwf.KindDecimal, nil
	case "fixed":
		return pwf.KindFixed, nil
	case "enum":
		return pwf.KindEnum, nil
	case "flag":
		return pwf.KindFlag, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

// coerceDefault converts a decoded JSON/YAML scalar into a typed default.
// Numeric defaults for decimal and fixed kinds accept strings ("0.950")
// for exact digits; plain numbers are rounded at the declared scale.
func coerceDefault(raw any, kind pwf.Kind, scale int64) (pwf.Value, error) {
	switch kind {
	case pwf.KindText:
		s, ok := raw.(string)
		if !ok {
			return pwf.Value{}, fmt.Errorf("text default must be a string")
		}
		return pwf.Text(s), nil
	case pwf.KindEnum:
		s, ok := raw.(string)
		if !ok {
			return pwf.Value{}, fmt.Errorf("enum default must be a string")
		}
		return pwf.Enum(s), nil
	case pwf.KindFlag:
		b, ok := raw.(bool)
		if !ok {
			return pwf.Value{}, fmt.Errorf("flag default must be a bool")
		}
		return pwf.Flag(b), nil
	case pwf.KindInt:
		n, err := asInt64(raw)
		if err != nil {
			return pwf.Value{}, err
		}
		return pwf.Int(n), nil
	case pwf.KindDecimal:
		if scale < 1 {
			scale = 1
		}
		fx, err := asFixed(raw)
		if err != nil {
			return pwf.Value{}, err
		}
		fx, err = fx.Rescale(scale)
		if err != nil {
			return pwf.Value{}, fmt.Errorf("default does not fit scale %d", scale)
		}
		return pwf.Dec(fx.Coef, fx.Scale), nil
	case pwf.KindFixed:
		fx, err := asFixed(raw)
		if err != nil {
			return pwf.Value{}, err
		}
		return pwf.Fix(fx.Coef, fx.Scale), nil
	}
	return pwf.Value{}, fmt.Errorf("kind %s takes no default", kind)
}

func asInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("int default %v has a fraction", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("int default must be a number")
	}
}

func asFixed(raw any) (pwf.Fixed, error) {
	switch n := raw.(type) {
	case string:
		return pwf.ParseFixed(n)
	case int:
		return pwf.FixedOf(int64(n), 1), nil
	case int64:
		return pwf.FixedOf(n, 1), nil
	case float64:
		return pwf.ParseFixed(strconv.FormatFloat(n, 'f', -1, 64))
	default:
		return pwf.Fixed{}, fmt.Errorf("numeric default must be a number or string")
	}
}
