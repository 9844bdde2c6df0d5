package pwf

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldError reports one field that failed to decode or encode. The
// enclosing record is discarded and parsing continues; a FieldError never
// aborts the file.
type FieldError struct {
	RecordType string
	Field      string
	Line       int    // 1-based source line number; 0 when encoding
	Raw        string // the offending slice
	Reason     string
}

func (e *FieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s.%s line %d: %s (raw %q)", e.RecordType, e.Field, e.Line, e.Reason, e.Raw)
	}
	return fmt.Sprintf("%s.%s: %s (raw %q)", e.RecordType, e.Field, e.Reason, e.Raw)
}

// sliceField extracts the raw column slice [Start, End] from a line.
// Lines shorter than the field are padded conceptually with blanks, so a
// truncated line yields a blank (defaulted) slice, never an index error.
func sliceField(line string, f *FieldSpec) string {
	start := f.Start - 1
	end := f.End
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// decodeField decodes one field slice from a line. Blank slices yield the
// field's default. The returned error carries only the reason; the caller
// wraps it with record and line context.
func decodeField(line string, f *FieldSpec) (Value, error) {
	raw := sliceField(line, f)
	if f.Kind == KindText {
		// Text keeps leading spaces, drops trailing padding.
		s := strings.TrimRight(raw, " ")
		if s == "" {
			return f.defaultValue(), nil
		}
		return Text(s), nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return f.defaultValue(), nil
	}
	switch f.Kind {
	case KindInt:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("not an integer")
		}
		return Int(n), nil
	case KindDecimal:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("not a scaled integer")
		}
		return Dec(n, f.Scale), nil
	case KindFixed:
		fx, err := ParseFixed(trimmed)
		if err != nil {
			return Value{}, fmt.Errorf("not a decimal number")
		}
		return Fix(fx.Coef, fx.Scale), nil
	case KindEnum:
		if !f.AllowsCode(trimmed) {
			return Value{}, fmt.Errorf("code %q not in %v", trimmed, f.Codes)
		}
		return Enum(trimmed), nil
	case KindFlag:
		return Flag(true), nil
	default:
		return Value{}, fmt.Errorf("unsupported field kind %s", f.Kind)
	}
}

// encodeField renders a value as a slice of exactly Width characters:
// numeric kinds right-justified (zero-filled when the spec says so), text
// and codes left-justified and space-padded.
func encodeField(v Value, f *FieldSpec) (string, error) {
	var body string
	var right bool
	switch f.Kind {
	case KindText:
		body = v.Str()
	case KindInt:
		switch v.Kind() {
		case KindInt, KindDecimal, KindFixed:
		default:
			return "", fmt.Errorf("cannot encode %s value as int", v.Kind())
		}
		body = strconv.FormatInt(v.Int64(), 10)
		right = true
	case KindDecimal:
		fx, err := v.Fixed().Rescale(f.Scale)
		if err != nil {
			return "", fmt.Errorf("value %s does not fit scale %d", v, f.Scale)
		}
		body = strconv.FormatInt(fx.Coef, 10)
		right = true
	case KindFixed:
		switch v.Kind() {
		case KindInt, KindDecimal, KindFixed:
		default:
			return "", fmt.Errorf("cannot encode %s value as fixed-point", v.Kind())
		}
		body = v.Fixed().String()
		right = true
	case KindEnum:
		body = v.Str()
		if !f.AllowsCode(body) {
			return "", fmt.Errorf("code %q not in %v", body, f.Codes)
		}
	case KindFlag:
		if v.Bool() {
			body = f.Mark
			if body == "" {
				body = "X"
			}
		}
	default:
		return "", fmt.Errorf("unsupported field kind %s", f.Kind)
	}
	w := f.Width()
	if len(body) > w {
		return "", fmt.Errorf("rendered value %q wider than %d columns", body, w)
	}
	pad := w - len(body)
	if !right {
		return body + strings.Repeat(" ", pad), nil
	}
	if f.ZeroFill {
		if strings.HasPrefix(body, "-") {
			return "-" + strings.Repeat("0", pad) + body[1:], nil
		}
		return strings.Repeat("0", pad) + body, nil
	}
	return strings.Repeat(" ", pad) + body, nil
}
