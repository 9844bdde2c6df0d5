package pwf

import (
	"fmt"
	"strings"
)

// Serialize renders a document back into fixed-width text using the
// registry's schemas. Output always normalizes to the canonical column
// positions the schemas declare, independent of how the source file was
// aligned. Record types appear in the document's first-seen order, each
// section closed by the terminator sentinel, the file by the end-of-file
// sentinel.
func Serialize(doc *Document, reg *Registry) (string, error) {
	var sb strings.Builder
	for _, typ := range doc.Types() {
		s, ok := reg.Lookup(typ)
		if !ok {
			return "", fmt.Errorf("pwf: no schema registered for record type %s", typ)
		}
		sb.WriteString(s.Marker)
		sb.WriteByte('\n')
		for _, rec := range doc.Records(typ) {
			if err := serializeRecord(&sb, rec, s); err != nil {
				return "", err
			}
		}
		sb.WriteString(reg.Terminator)
		sb.WriteByte('\n')
	}
	sb.WriteString(reg.EndOfFile)
	sb.WriteByte('\n')
	return sb.String(), nil
}

func serializeRecord(sb *strings.Builder, rec *Record, s *RecordSchema) error {
	line, err := renderLine(rec.typ, s.Fields, s.Width(), func(name string) (Value, bool) {
		return rec.Get(name)
	})
	if err != nil {
		return err
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	if !s.Multiline() {
		return nil
	}
	list, _ := rec.Get(s.GroupField)
	for _, elem := range list.List() {
		gline, err := renderLine(rec.typ, s.GroupFields, s.GroupWidth(), elem.Get)
		if err != nil {
			return err
		}
		sb.WriteString(gline)
		sb.WriteByte('\n')
	}
	sb.WriteString(s.GroupEnd)
	sb.WriteByte('\n')
	return nil
}

// renderLine encodes one line: each field slice placed at its declared
// columns, gaps left as spaces, trailing blanks trimmed.
func renderLine(typ string, fields []FieldSpec, width int, get func(string) (Value, bool)) (string, error) {
	buf := make([]byte, width)
	for i := range buf {
		buf[i] = ' '
	}
	for i := range fields {
		f := &fields[i]
		v, ok := get(f.Name)
		if !ok {
			v = f.defaultValue()
		}
		slice, err := encodeField(v, f)
		if err != nil {
			return "", &FieldError{RecordType: typ, Field: f.Name, Raw: v.String(), Reason: err.Error()}
		}
		copy(buf[f.Start-1:], slice)
	}
	return strings.TrimRight(string(buf), " "), nil
}
