// pwf - ANAREDE network file tool
//
// Usage:
//
//	pwf parse [-mapping file] [-format json|yaml] [-o out] [-q] [file]
//	pwf roundtrip [-mapping file] [-o out] [-q] [file]
//	pwf version
//
// parse decodes a PWF file and writes the record model as JSON (default)
// or YAML. roundtrip re-serializes the parsed document to canonical
// fixed-width text. Gzip-compressed input (.pwf.gz) is decompressed
// transparently. If no file is given, reads from stdin.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/voltlab/pwf/mapping"
	"github.com/voltlab/pwf/pwf"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "version" {
		fmt.Printf("pwf %s\n", version)
		return
	}
	if cmd != "parse" && cmd != "roundtrip" {
		fmt.Fprintf(os.Stderr, "pwf: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	format := "json"
	mappingPath := ""
	outPath := ""
	quiet := false
	fileArg := ""
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-q":
			quiet = true
		case arg == "-format" || arg == "-o" || arg == "-mapping":
			if i+1 >= len(args) {
				fatal("%s requires a value", arg)
			}
			i++
			switch arg {
			case "-format":
				format = args[i]
			case "-o":
				outPath = args[i]
			case "-mapping":
				mappingPath = args[i]
			}
		case strings.HasPrefix(arg, "-"):
			fatal("unknown flag: %s", arg)
		default:
			fileArg = arg
		}
	}
	if format != "json" && format != "yaml" {
		fatal("unsupported format: %s (want json or yaml)", format)
	}

	reg := pwf.Anarede()
	if mappingPath != "" {
		var err error
		reg, err = loadMapping(mappingPath)
		if err != nil {
			fatal("%v", err)
		}
	}

	input, name, err := readInput(fileArg)
	if err != nil {
		fatal("read input: %v", err)
	}

	doc, diags := pwf.Parse(input, reg)
	if !quiet {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
	}

	var out []byte
	switch cmd {
	case "parse":
		doc, idiags := pwf.IntegrateShunts(doc)
		if !quiet {
			for _, d := range idiags {
				fmt.Fprintln(os.Stderr, d.String())
			}
		}
		out, err = renderModel(doc, name, format)
		if err != nil {
			fatal("render output: %v", err)
		}
	case "roundtrip":
		text, serr := pwf.Serialize(doc, reg)
		if serr != nil {
			fatal("serialize: %v", serr)
		}
		out = []byte(text)
	}

	if outPath == "" {
		os.Stdout.Write(out)
	} else if err := os.WriteFile(outPath, out, 0o644); err != nil {
		fatal("write output: %v", err)
	}

	if hasErrors(diags) {
		os.Exit(2)
	}
}

// readInput reads the whole input, decompressing gzip when the stream
// starts with the gzip magic bytes.
func readInput(path string) (string, string, error) {
	var r io.Reader = os.Stdin
	name := "stdin"
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		r = f
		name = path
	}
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return "", "", err
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		return string(data), name, err
	}
	data, err := io.ReadAll(br)
	return string(data), name, err
}

func loadMapping(path string) (*pwf.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return mapping.FromYAML(data)
	}
	return mapping.FromJSON(data)
}

// renderModel converts the document into the export shape: one list of
// field maps per record type, plus file metadata.
func renderModel(doc *pwf.Document, source, format string) ([]byte, error) {
	model := make(map[string]any, doc.Len()+1)
	meta := map[string]any{"file_path": source, "status": "parsed"}
	for _, typ := range doc.Types() {
		var rows []map[string]any
		for _, rec := range doc.Records(typ) {
			rows = append(rows, recordToMap(rec))
		}
		model[typ] = rows
		if typ == "TITU" && len(rows) > 0 {
			var titles []string
			for _, row := range rows {
				if s, ok := row["title"].(string); ok {
					titles = append(titles, strings.TrimSpace(s))
				}
			}
			meta["title"] = strings.Join(titles, " ")
		}
	}
	model["metadata"] = meta
	if format == "yaml" {
		return yaml.Marshal(model)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(model); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordToMap(rec *pwf.Record) map[string]any {
	out := make(map[string]any, len(rec.Names()))
	for _, name := range rec.Names() {
		v, _ := rec.Get(name)
		out[name] = valueToAny(v)
	}
	return out
}

func valueToAny(v pwf.Value) any {
	switch {
	case v.IsList():
		rows := make([]any, 0, len(v.List()))
		for _, e := range v.List() {
			rows = append(rows, valueToAny(e))
		}
		return rows
	case v.IsGroup():
		m := make(map[string]any, len(v.Entries()))
		for _, e := range v.Entries() {
			m[e.Name] = valueToAny(e.Value)
		}
		return m
	}
	switch v.Kind() {
	case pwf.KindInt:
		return v.Int64()
	case pwf.KindDecimal, pwf.KindFixed:
		return v.Float64()
	case pwf.KindFlag:
		return v.Bool()
	default:
		return v.Str()
	}
}

func hasErrors(diags []pwf.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == pwf.SeverityError {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `pwf - ANAREDE network file tool

Usage:
  pwf parse [-mapping file] [-format json|yaml] [-o out] [-q] [file]
  pwf roundtrip [-mapping file] [-o out] [-q] [file]
  pwf version

Reads stdin when no file is given. Gzip input is detected automatically.`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "pwf: "+format+"\n", args...)
	os.Exit(1)
}
