package mapping

import (
	"errors"
	"strings"
	"testing"

	"github.com/voltlab/pwf/pwf"
)

const busMappingJSON = `{
	"ignore": ["XTRA"],
	"records": [
		{
			"marker": "BUS",
			"fields": [
				{"name": "number", "column": {"start": 1, "end": 5}, "kind": "int"},
				{"name": "voltage", "column": {"start": 6, "end": 10}, "kind": "decimal", "scale": 1000, "default": "0.950"},
				{"name": "state", "column": {"start": 12, "end": 12}, "kind": "enum", "codes": ["L", "D"]}
			]
		},
		{
			"marker": "SHNT",
			"group_field": "banks",
			"group_end": "FBNK",
			"fields": [
				{"name": "bus", "column": {"start": 1, "end": 5}, "kind": "int"}
			],
			"group_fields": [
				{"name": "power", "column": {"start": 1, "end": 6}, "kind": "fixed"}
			]
		}
	]
}`

const busMappingYAML = `
ignore: [XTRA]
records:
  - marker: BUS
    fields:
      - name: number
        column: {start: 1, end: 5}
        kind: int
      - name: voltage
        column: {start: 6, end: 10}
        kind: decimal
        scale: 1000
        default: "0.950"
      - name: state
        column: {start: 12, end: 12}
        kind: enum
        codes: [L, D]
  - marker: SHNT
    group_field: banks
    group_end: FBNK
    fields:
      - name: bus
        column: {start: 1, end: 5}
        kind: int
    group_fields:
      - name: power
        column: {start: 1, end: 6}
        kind: fixed
`

func checkBusRegistry(t *testing.T, reg *pwf.Registry) {
	t.Helper()
	if !reg.Ignored("XTRA") {
		t.Fatal("XTRA should be ignored")
	}
	s, ok := reg.Lookup("BUS")
	if !ok {
		t.Fatal("BUS schema missing")
	}
	v := s.Field("voltage")
	if v == nil || v.Scale != 1000 {
		t.Fatalf("voltage spec = %+v", v)
	}
	if !v.Default.Equal(pwf.Dec(950, 1000)) {
		t.Fatalf("voltage default = %s, want 0.950", v.Default)
	}
	shnt, ok := reg.Lookup("SHNT")
	if !ok || !shnt.Multiline() || shnt.GroupEnd != "FBNK" {
		t.Fatalf("SHNT schema = %+v", shnt)
	}

	in := strings.Join([]string{
		"BUS",
		"   42      L",
		"99999",
		"SHNT",
		"   42",
		"  12.5",
		"FBNK",
		"99999",
		"FIM",
	}, "\n") + "\n"
	doc, diags := pwf.Parse(in, reg)
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	voltage, _ := doc.Records("BUS")[0].Get("voltage")
	if !voltage.Equal(pwf.Dec(950, 1000)) {
		t.Fatalf("blank voltage = %s, want default 0.950", voltage)
	}
	banks, _ := doc.Records("SHNT")[0].Get("banks")
	power, _ := banks.List()[0].Get("power")
	if !power.Equal(pwf.Fix(125, 10)) {
		t.Fatalf("power = %s, want 12.5", power)
	}
}

func TestFromJSON(t *testing.T) {
	reg, err := FromJSON([]byte(busMappingJSON))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	checkBusRegistry(t, reg)
}

func TestFromYAML(t *testing.T) {
	reg, err := FromYAML([]byte(busMappingYAML))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	checkBusRegistry(t, reg)
}

func TestFromJSONMalformed(t *testing.T) {
	if _, err := FromJSON([]byte(`{"records": [`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestUnknownKind(t *testing.T) {
	doc := `{"records": [{"marker": "BUS", "fields": [
		{"name": "x", "column": {"start": 1, "end": 2}, "kind": "float"}]}]}`
	_, err := FromJSON([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), `unknown kind "float"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestLayoutErrorSurfaces(t *testing.T) {
	doc := `{"records": [{"marker": "BUS", "fields": [
		{"name": "a", "column": {"start": 1, "end": 5}, "kind": "int"},
		{"name": "b", "column": {"start": 3, "end": 8}, "kind": "int"}]}]}`
	_, err := FromJSON([]byte(doc))
	var serr *pwf.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *pwf.SchemaError", err)
	}
	if serr.Marker != "BUS" {
		t.Fatalf("error marker = %q", serr.Marker)
	}
}

func TestDefaultCoercion(t *testing.T) {
	doc := `{"records": [{"marker": "T", "fields": [
		{"name": "i", "column": {"start": 1, "end": 4}, "kind": "int", "default": 7},
		{"name": "f", "column": {"start": 5, "end": 10}, "kind": "fixed", "default": 1.5},
		{"name": "s", "column": {"start": 11, "end": 14}, "kind": "text", "default": "ABC"}]}]}`
	reg, err := FromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	s, _ := reg.Lookup("T")
	if d := s.Field("i").Default; !d.Equal(pwf.Int(7)) {
		t.Fatalf("int default = %s", d)
	}
	if d := s.Field("f").Default; !d.Equal(pwf.Fix(15, 10)) {
		t.Fatalf("fixed default = %s", d)
	}
	if d := s.Field("s").Default; d.Str() != "ABC" {
		t.Fatalf("text default = %q", d.Str())
	}
}

func TestDefaultRejectsFraction(t *testing.T) {
	doc := `{"records": [{"marker": "T", "fields": [
		{"name": "i", "column": {"start": 1, "end": 4}, "kind": "int", "default": 7.5}]}]}`
	if _, err := FromJSON([]byte(doc)); err == nil {
		t.Fatal("expected fractional int default to be rejected")
	}
}

func TestDecimalDefaultScaleMismatch(t *testing.T) {
	doc := `{"records": [{"marker": "T", "fields": [
		{"name": "v", "column": {"start": 1, "end": 5}, "kind": "decimal", "scale": 10, "default": "0.955"}]}]}`
	if _, err := FromJSON([]byte(doc)); err == nil {
		t.Fatal("expected default finer than the declared scale to be rejected")
	}
}

func TestCustomSentinels(t *testing.T) {
	doc := `{"comment_prefix": "#", "terminator": "END", "end_of_file": "EOF",
		"records": [{"marker": "BUS", "fields": [
		{"name": "number", "column": {"start": 1, "end": 5}, "kind": "int"}]}]}`
	reg, err := FromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	in := "# comment\nBUS\n    3\nEND\nEOF\n"
	parsed, diags := pwf.Parse(in, reg)
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	n, _ := parsed.Records("BUS")[0].Get("number")
	if n.Int64() != 3 {
		t.Fatalf("number = %d, want 3", n.Int64())
	}
}
