package pwf

import (
	"fmt"
	"strings"
	"sync"
)

// Severity grades a diagnostic.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic reports one recoverable parse problem: an unrecognized line, a
// field that failed to decode, or a skipped malformed record. The caller
// decides whether accumulated diagnostics amount to a hard failure.
type Diagnostic struct {
	Severity   Severity
	Line       int // 1-based source line; 0 when not line-specific
	RecordType string
	Message    string
}

// String renders the diagnostic for display.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// section is one record type's classified data lines, in source order.
// Reopened sections append to the same group.
type section struct {
	marker string
	lines  []rawLine
}

// Parse decodes raw PWF text into a document plus diagnostics. Parsing
// never aborts on a per-record failure; only a broken registry can stop it,
// and that fails at registry build time, not here.
func Parse(text string, reg *Registry) (*Document, []Diagnostic) {
	sections, order, diags := classifyAll(text, reg)
	doc := NewDocument()
	for _, marker := range order {
		s, _ := reg.Lookup(marker)
		recs, rdiags := assemble(sections[marker].lines, s)
		diags = append(diags, rdiags...)
		for _, r := range recs {
			doc.Append(r)
		}
	}
	return doc, diags
}

// ParseParallel is Parse with assembly fanned out across record types.
// Each type's assembly is independent and the registry is read-only, so
// results are identical to Parse; only wall time differs on wide files.
func ParseParallel(text string, reg *Registry) (*Document, []Diagnostic) {
	sections, order, diags := classifyAll(text, reg)

	type result struct {
		recs  []*Record
		diags []Diagnostic
	}
	results := make([]result, len(order))
	var wg sync.WaitGroup
	for i, marker := range order {
		s, _ := reg.Lookup(marker)
		lines := sections[marker].lines
		wg.Add(1)
		go func(i int, s *RecordSchema, lines []rawLine) {
			defer wg.Done()
			recs, rdiags := assemble(lines, s)
			results[i] = result{recs: recs, diags: rdiags}
		}(i, s, lines)
	}
	wg.Wait()

	doc := NewDocument()
	for i := range order {
		diags = append(diags, results[i].diags...)
		for _, r := range results[i].recs {
			doc.Append(r)
		}
	}
	return doc, diags
}

// classifyAll runs the single classification pass: it groups data lines
// under their section's record type, warns on stray content, and stops at
// the file-end sentinel.
func classifyAll(text string, reg *Registry) (map[string]*section, []string, []Diagnostic) {
	sections := make(map[string]*section)
	var order []string
	var diags []Diagnostic

	cls := NewClassifier(reg)
	current := "" // open section marker; "" when closed or ignored
	ignoredOpen := false

	num := 0
	for _, line := range splitLines(text) {
		num++
		c := cls.Classify(line)
		switch c.Class {
		case ClassBlank, ClassComment:
			continue
		case ClassTerminator:
			current = ""
			ignoredOpen = false
			if c.EOF {
				return sections, order, diags
			}
		case ClassRecordStart:
			if reg.Ignored(c.Marker) {
				current = ""
				ignoredOpen = true
				diags = append(diags, Diagnostic{
					Severity:   SeverityWarning,
					Line:       num,
					RecordType: c.Marker,
					Message:    fmt.Sprintf("section %s is not supported, skipping", c.Marker),
				})
				continue
			}
			current = c.Marker
			ignoredOpen = false
			if _, ok := sections[current]; !ok {
				sections[current] = &section{marker: current}
				order = append(order, current)
			}
		case ClassContinuation:
			if ignoredOpen {
				continue
			}
			if current == "" {
				continue
			}
			sections[current].lines = append(sections[current].lines, rawLine{text: line, num: num})
		case ClassUnrecognized:
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Line:     num,
				Message:  fmt.Sprintf("unrecognized line %q, skipping", strings.TrimSpace(line)),
			})
		}
	}
	return sections, order, diags
}

// splitLines splits on newlines, tolerating CRLF and a missing final
// newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, "\r")
	}
	return lines
}
