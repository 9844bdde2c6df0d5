// Package pwf implements a schema-driven codec for the ANAREDE power-system
// network exchange format (PWF files).
//
// PWF files are fixed-column-width text: each section opens with a keyword
// marker line (DBAR, DLIN, ...), carries one record per line (or one record
// per group of lines for sectioned bank data), and closes with the 99999
// sentinel. Fields have no delimiters; they are identified purely by column
// position, mix implicit decimal scaling with explicit decimal points, and
// leave optional fields blank.
//
// The codec is driven by a declarative schema:
//   - RecordSchema describes one record type's marker and column layout.
//   - Registry holds all record types and validates layouts at build time.
//   - Parse classifies lines, decodes fields, and assembles typed Records
//     into a Document, collecting Diagnostics instead of aborting.
//   - Serialize renders a Document back to canonical fixed-width text using
//     the same schemas, so decode and encode rules cannot drift apart.
//
// # Error tolerance
//
// Real-world PWF files contain stray lines, truncated bank groups, and
// out-of-range codes. Only schema construction can fail hard (SchemaError).
// Per-field and per-record failures discard the offending record, record a
// Diagnostic, and parsing continues with the next record.
//
// # Exact decimals
//
// Scaled fields (e.g. bus voltage stored as "1050" meaning 1.050 pu) decode
// by exact integer-then-divide arithmetic via Fixed, never through float64
// reparsing, so round-trips do not drift.
//
// # Usage
//
//	reg := pwf.Anarede()
//	doc, diags := pwf.Parse(input, reg)
//	out, err := pwf.Serialize(doc, reg)
package pwf
