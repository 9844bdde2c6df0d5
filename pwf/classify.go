package pwf

import "strings"

// Class is the outcome of classifying one raw input line.
type Class uint8

const (
	ClassBlank        Class = iota
	ClassComment            // comment-marker prefix
	ClassTerminator         // section-end or file-end sentinel
	ClassRecordStart        // line opens a recognized section
	ClassContinuation       // data line inside the open section
	ClassUnrecognized       // stray content outside any section
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassBlank:
		return "blank"
	case ClassComment:
		return "comment"
	case ClassTerminator:
		return "terminator"
	case ClassRecordStart:
		return "record-start"
	case ClassContinuation:
		return "continuation"
	case ClassUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// Classification is the classifier's verdict for one line.
type Classification struct {
	Class  Class
	Marker string // the matched marker for record starts and terminators
	EOF    bool   // terminator is the file-end sentinel
}

// Classifier assigns raw lines to record types. It is stateful: a record
// start opens a section, the terminator closes it, and only lines inside an
// open section classify as continuations. Markers are compared exact-prefix,
// longest first, so "DBSH" is never shadowed by a shorter "DB" marker.
type Classifier struct {
	reg  *Registry
	open bool
}

// NewClassifier creates a classifier over a built registry.
func NewClassifier(reg *Registry) *Classifier {
	return &Classifier{reg: reg}
}

// Open reports whether a section is currently open.
func (c *Classifier) Open() bool { return c.open }

// Classify assigns one line (without its trailing newline) to a class and
// updates section state.
func (c *Classifier) Classify(line string) Classification {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return Classification{Class: ClassBlank}
	case strings.HasPrefix(trimmed, c.reg.CommentPrefix):
		return Classification{Class: ClassComment}
	case trimmed == c.reg.EndOfFile:
		c.open = false
		return Classification{Class: ClassTerminator, Marker: trimmed, EOF: true}
	case trimmed == c.reg.Terminator:
		c.open = false
		return Classification{Class: ClassTerminator, Marker: trimmed}
	}
	for _, m := range c.reg.Markers() {
		if matchMarker(line, m) {
			c.open = true
			return Classification{Class: ClassRecordStart, Marker: m}
		}
	}
	if c.open {
		return Classification{Class: ClassContinuation}
	}
	return Classification{Class: ClassUnrecognized}
}

// matchMarker does exact-prefix matching with a word boundary: the marker
// must be followed by end-of-line or a space ("DBSH" does not match
// "DBSHX", but matches "DBSH" and marker lines with trailing options).
func matchMarker(line, marker string) bool {
	if !strings.HasPrefix(line, marker) {
		return false
	}
	rest := line[len(marker):]
	return rest == "" || rest[0] == ' '
}
