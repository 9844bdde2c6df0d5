package pwf

import (
	"strings"
	"testing"
)

// busSpecs is a minimal layout used across codec tests: an integer bus
// number and a per-unit voltage stored in millesimals.
var busNumberSpec = Spec("number", 1, 5, KindInt)
var busVoltageSpec = Spec("voltage", 6, 10, KindDecimal, WithScale(1000), WithDefault(Dec(1000, 1000)))

func TestDecodeBlankSliceYieldsDefault(t *testing.T) {
	line := "10001          "
	num, err := decodeField(line, &busNumberSpec)
	if err != nil {
		t.Fatalf("decode number: %v", err)
	}
	if num.Int64() != 10001 {
		t.Fatalf("number = %d, want 10001", num.Int64())
	}
	volt, err := decodeField(line, &busVoltageSpec)
	if err != nil {
		t.Fatalf("decode blank voltage: %v", err)
	}
	if !volt.Equal(Dec(1000, 1000)) {
		t.Fatalf("blank voltage = %s, want default 1.000", volt)
	}
}

func TestDecodeScaledDecimal(t *testing.T) {
	// " 1050" in the voltage slice: 1050 millesimals = 1.050 pu, exact.
	line := "10001 1050"
	volt, err := decodeField(line, &busVoltageSpec)
	if err != nil {
		t.Fatalf("decode voltage: %v", err)
	}
	if !volt.Equal(Fix(105, 100)) {
		t.Fatalf("voltage = %s, want 1.05", volt)
	}
	if volt.Float64() != 1.05 {
		t.Fatalf("voltage Float64 = %v", volt.Float64())
	}
}

func TestDecodeTruncatedLineUsesDefaults(t *testing.T) {
	// The line ends before the voltage columns; that is a blank slice,
	// not an error.
	volt, err := decodeField("10001", &busVoltageSpec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !volt.Equal(Dec(1000, 1000)) {
		t.Fatalf("voltage = %s, want default", volt)
	}
}

func TestDecodeKinds(t *testing.T) {
	stateSpec := Spec("state", 1, 1, KindEnum, WithCodes("L", "D"))
	angleSpec := Spec("angle", 1, 5, KindFixed)
	nameSpec := Spec("name", 1, 8, KindText)
	openSpec := Spec("open", 1, 1, KindFlag, WithMark("D"))

	if v, err := decodeField("L", &stateSpec); err != nil || v.Str() != "L" {
		t.Fatalf("enum decode = %v, %v", v, err)
	}
	if _, err := decodeField("Z", &stateSpec); err == nil {
		t.Fatal("out-of-range code should fail decoding")
	}
	if v, err := decodeField(" -8.4", &angleSpec); err != nil || !v.Equal(Fix(-84, 10)) {
		t.Fatalf("fixed decode = %v, %v", v, err)
	}
	if v, err := decodeField(" NORTH  ", &nameSpec); err != nil || v.Str() != " NORTH" {
		t.Fatalf("text decode should keep leading spaces, drop trailing: %q", v.Str())
	}
	if v, err := decodeField("D", &openSpec); err != nil || !v.Bool() {
		t.Fatalf("flag decode = %v, %v", v, err)
	}
	if v, err := decodeField(" ", &openSpec); err != nil || v.Bool() {
		t.Fatalf("blank flag should be unset: %v, %v", v, err)
	}
}

func TestDecodeBadNumbers(t *testing.T) {
	intSpec := Spec("n", 1, 5, KindInt)
	decSpec := Spec("d", 1, 5, KindDecimal, WithScale(100))
	if _, err := decodeField("12x45", &intSpec); err == nil {
		t.Fatal("bad integer should fail")
	}
	if _, err := decodeField("1.5", &decSpec); err == nil {
		t.Fatal("scaled decimal with explicit point should fail")
	}
}

func TestEncodeWidthsAndJustification(t *testing.T) {
	cases := []struct {
		name string
		spec FieldSpec
		v    Value
		want string
	}{
		{"int right", Spec("n", 1, 5, KindInt), Int(42), "   42"},
		{"int zerofill", Spec("n", 1, 5, KindInt, WithZeroFill()), Int(42), "00042"},
		{"negative zerofill", Spec("n", 1, 5, KindInt, WithZeroFill()), Int(-42), "-0042"},
		{"decimal", Spec("v", 1, 4, KindDecimal, WithScale(1000)), Dec(1050, 1000), "1050"},
		{"fixed", Spec("x", 1, 6, KindFixed), Fix(534, 100), "  5.34"},
		{"text left", Spec("s", 1, 6, KindText), Text("AB"), "AB    "},
		{"enum", Spec("e", 1, 2, KindEnum, WithCodes("L", "D")), Enum("L"), "L "},
		{"flag set", Spec("f", 1, 1, KindFlag, WithMark("D")), Flag(true), "D"},
		{"flag unset", Spec("f", 1, 1, KindFlag, WithMark("D")), Flag(false), " "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := encodeField(tc.v, &tc.spec)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("encode = %q, want %q", got, tc.want)
			}
			if len(got) != tc.spec.Width() {
				t.Fatalf("encoded width %d, want %d", len(got), tc.spec.Width())
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	narrow := Spec("n", 1, 3, KindInt)
	if _, err := encodeField(Int(12345), &narrow); err == nil {
		t.Fatal("overflowing value should fail to encode")
	}
	stateSpec := Spec("state", 1, 1, KindEnum, WithCodes("L", "D"))
	if _, err := encodeField(Enum("Z"), &stateSpec); err == nil {
		t.Fatal("out-of-range code should fail to encode")
	}
	decSpec := Spec("v", 1, 4, KindDecimal, WithScale(10))
	if _, err := encodeField(Fix(105, 100), &decSpec); err == nil {
		t.Fatal("value not representable at field scale should fail")
	}
}

// Decode-then-encode reproduces the source slice up to the kind's
// canonical padding: numerics right-justified, text left-justified.
func TestFieldRoundTrip(t *testing.T) {
	cases := []struct {
		spec FieldSpec
		raw  string
	}{
		{Spec("n", 1, 5, KindInt), "   42"},
		{Spec("v", 1, 4, KindDecimal, WithScale(1000)), "1050"},
		{Spec("x", 1, 6, KindFixed), " -8.40"},
		{Spec("s", 1, 6, KindText), "AB CD "},
		{Spec("e", 1, 1, KindEnum, WithCodes("L", "D")), "D"},
	}
	for _, tc := range cases {
		v, err := decodeField(tc.raw, &tc.spec)
		if err != nil {
			t.Fatalf("decode %q: %v", tc.raw, err)
		}
		got, err := encodeField(v, &tc.spec)
		if err != nil {
			t.Fatalf("encode %q: %v", tc.raw, err)
		}
		if strings.TrimSpace(got) != strings.TrimSpace(tc.raw) {
			t.Fatalf("round-trip %q -> %q", tc.raw, got)
		}
		if got != tc.raw && strings.TrimSpace(got) == "" {
			t.Fatalf("round-trip lost value: %q -> %q", tc.raw, got)
		}
	}
}
