package aidl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

// LoadPreprocessedFile registers the declarations listed in a preprocessed
// file. See LoadPreprocessed for the format.
func LoadPreprocessedFile(reg *Registry, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		var diags diagnostics.List
		diags.Addf(diagnostics.PreprocessedFileUnreadable, filename, 0, "can't open preprocessed file: %v", err)
		return diags.Err()
	}
	defer f.Close()
	return LoadPreprocessed(reg, filename, f)
}

// LoadPreprocessed reads one declaration per line, "<kind> <qualified.name>;"
// where kind is parcelable or interface, and gathers each into reg. Blank
// lines and lines starting with "//" are skipped. A bad kind stops loading.
func LoadPreprocessed(reg *Registry, filename string, r io.Reader) error {
	var diags diagnostics.List
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		item, ok := parsePreprocessedLine(trimmed, lineno)
		if !ok {
			diags.Addf(diagnostics.MalformedPreprocessedEntry, filename, lineno, "bad type in line: %s", line)
			return diags.Err()
		}
		doc := &ast.Document{Path: filename, Items: []ast.Declaration{item}}
		diags.Merge(GatherTypes(reg, filename, doc))
	}
	if err := scanner.Err(); err != nil {
		diags.Addf(diagnostics.PreprocessedFileUnreadable, filename, lineno, "error reading file: %v", err)
	}
	return diags.Err()
}

func parsePreprocessedLine(line string, lineno int) (ast.Declaration, bool) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, false
	}
	kind, fullname := fields[len(fields)-2], fields[len(fields)-1]

	pkg, name := "", fullname
	if i := strings.LastIndexByte(fullname, '.'); i >= 0 {
		pkg, name = fullname[:i], fullname[i+1:]
	}
	if name == "" {
		return nil, false
	}
	pos := ast.Position{Line: lineno, Column: 1}

	switch kind {
	case "parcelable":
		return &ast.Parcelable{Position: pos, Package: pkg, Name: name}, true
	case "interface":
		return &ast.Interface{Position: pos, Package: pkg, Name: name}, true
	}
	return nil, false
}

// Preprocess parses every file and writes one preprocessed line per
// declaration, in input order.
func Preprocess(parser Parser, files []string, w io.Writer) error {
	var lines []string
	for _, file := range files {
		doc, err := parser.ParseFile(file)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("%s: parser returned no document", file)
		}
		for _, item := range doc.Items {
			kind := "parcelable"
			if _, ok := item.(*ast.Interface); ok {
				kind = "interface"
			}
			lines = append(lines, fmt.Sprintf("%s %s;\n", kind, item.QualifiedName()))
		}
	}
	for _, l := range lines {
		if _, err := io.WriteString(w, l); err != nil {
			return err
		}
	}
	return nil
}
