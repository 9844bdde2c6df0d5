package pwf

import (
	"errors"
	"testing"
)

func TestRegisterValidSchema(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(NewRecordSchema("BUS",
		Spec("number", 1, 5, KindInt),
		Spec("voltage", 6, 10, KindDecimal, WithScale(1000), WithDefault(Dec(1000, 1000))),
	))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := reg.Lookup("BUS"); !ok {
		t.Fatal("Lookup(BUS) failed after Register")
	}
	if _, ok := reg.Lookup("NOPE"); ok {
		t.Fatal("Lookup(NOPE) should fail")
	}
}

func TestRegisterRejectsBrokenLayouts(t *testing.T) {
	cases := []struct {
		name   string
		schema *RecordSchema
	}{
		{"empty marker", NewRecordSchema("", Spec("a", 1, 2, KindInt))},
		{"empty field name", NewRecordSchema("X", Spec("", 1, 2, KindInt))},
		{"duplicate field name", NewRecordSchema("X",
			Spec("a", 1, 2, KindInt), Spec("a", 3, 4, KindInt))},
		{"start after end", NewRecordSchema("X", Spec("a", 5, 3, KindInt))},
		{"start before column 1", NewRecordSchema("X", Spec("a", 0, 3, KindInt))},
		{"overlapping ranges", NewRecordSchema("X",
			Spec("a", 1, 5, KindInt), Spec("b", 5, 8, KindInt))},
		{"descending order", NewRecordSchema("X",
			Spec("a", 10, 12, KindInt), Spec("b", 1, 5, KindInt))},
		{"enum without codes", NewRecordSchema("X", Spec("a", 1, 1, KindEnum))},
		{"code wider than field", NewRecordSchema("X",
			Spec("a", 1, 1, KindEnum, WithCodes("LL")))},
		{"bad scale", NewRecordSchema("X",
			Spec("a", 1, 4, KindDecimal, WithScale(300)))},
		{"multiline without terminator", NewGroupedSchema("X", "banks", "",
			[]FieldSpec{Spec("a", 1, 2, KindInt)},
			[]FieldSpec{Spec("b", 1, 2, KindInt)})},
		{"group field collides", NewGroupedSchema("X", "a", "FX",
			[]FieldSpec{Spec("a", 1, 2, KindInt)},
			[]FieldSpec{Spec("b", 1, 2, KindInt)})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.Register(tc.schema)
			if err == nil {
				t.Fatal("expected SchemaError")
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("error is %T, want *SchemaError", err)
			}
		})
	}
}

func TestRegisterRejectsDuplicateMarker(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(NewRecordSchema("BUS", Spec("a", 1, 2, KindInt))); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := reg.Register(NewRecordSchema("BUS", Spec("b", 1, 2, KindInt))); err == nil {
		t.Fatal("duplicate marker: expected SchemaError")
	}
}

func TestMarkersLongestFirst(t *testing.T) {
	reg := NewRegistry()
	for _, m := range []string{"DB", "DBSHX", "DBSH"} {
		if err := reg.Register(NewRecordSchema(m, Spec("a", 1, 2, KindInt))); err != nil {
			t.Fatalf("Register(%s): %v", m, err)
		}
	}
	markers := reg.Markers()
	want := []string{"DBSHX", "DBSH", "DB"}
	for i := range want {
		if markers[i] != want[i] {
			t.Fatalf("Markers() = %v, want %v", markers, want)
		}
	}
}

func TestAnaredeRegistryBuilds(t *testing.T) {
	reg := Anarede()
	for _, m := range []string{"TITU", "DBAR", "DLIN", "DGER", "DCSC", "DCER", "DBSH", "DSHL"} {
		if _, ok := reg.Lookup(m); !ok {
			t.Fatalf("missing schema %s", m)
		}
	}
	if !reg.Ignored("DOPC") {
		t.Fatal("DOPC should be an ignored section")
	}
	dbsh, _ := reg.Lookup("DBSH")
	if !dbsh.Multiline() || dbsh.GroupEnd != "FBAN" || dbsh.GroupField != "banks" {
		t.Fatalf("DBSH group layout wrong: %+v", dbsh)
	}
}
