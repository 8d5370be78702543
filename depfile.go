package aidl

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputFileName builds "<baseDir>/<package as dirs>/<name>.<ext>", where name
// is the type name up to its first '.'.
func OutputFileName(baseDir, pkg, typeName, ext string) string {
	name := typeName
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	parts := []string{baseDir}
	if pkg != "" {
		parts = append(parts, strings.Split(pkg, ".")...)
	}
	parts = append(parts, name+"."+strings.TrimPrefix(ext, "."))
	return filepath.Join(parts...)
}

// WriteDepFile writes a make rule stating that output depends on input and
// every import file, followed by an empty rule per dependency so make keeps
// working when one of them is deleted or renamed. An empty output yields a
// rule without target, as for parcelable-only inputs.
func WriteDepFile(w io.Writer, output, input string, imports []string) error {
	bw := bufio.NewWriter(w)

	slash := "\\"
	if len(imports) == 0 {
		slash = ""
	}
	if output != "" {
		bw.WriteString(output + ": \\\n")
	} else {
		bw.WriteString(" : \\\n")
	}
	bw.WriteString("  " + input + " " + slash + "\n")
	for i, imp := range imports {
		if i == len(imports)-1 {
			slash = ""
		}
		bw.WriteString("  " + imp + " " + slash + "\n")
	}
	bw.WriteString("\n")

	bw.WriteString(input + " :\n")
	for _, imp := range imports {
		bw.WriteString(imp + " :\n")
	}
	return bw.Flush()
}

// WriteDepFileTo creates path and writes the dependency rule for unit into it.
func WriteDepFileTo(path, output string, unit *Unit) error {
	if err := EnsureOutputDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDepFile(f, output, unit.InputFile, unit.ImportFiles()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
