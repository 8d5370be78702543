package aidl

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

// Linux file systems are treated as case-sensitive, everything else as
// case-insensitive.
var caseSensitivePaths = runtime.GOOS == "linux"

// ExpectedFilename returns the path suffix a declaration must live at:
// package components as directories, then the type name up to its first
// '.', then ".aidl".
func ExpectedFilename(pkg, typeName string) string {
	name := typeName
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	var b strings.Builder
	if pkg != "" {
		b.WriteString(strings.ReplaceAll(pkg, ".", string(filepath.Separator)))
		b.WriteByte(filepath.Separator)
	}
	b.WriteString(name)
	b.WriteString(".aidl")
	return b.String()
}

// CheckFilename reports whether actualPath ends with the path implied by pkg
// and typeName. Relative paths are resolved against the working directory.
func CheckFilename(actualPath, pkg, typeName string) bool {
	return filenameMatches(absolutePath(actualPath), ExpectedFilename(pkg, typeName), caseSensitivePaths)
}

func absolutePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	return filepath.Join(cwd, p)
}

func filenameMatches(actual, expected string, caseSensitive bool) bool {
	actual = normalizeSeparators(actual)
	expected = normalizeSeparators(expected)
	if len(actual) < len(expected) {
		return false
	}
	tail := actual[len(actual)-len(expected):]
	if caseSensitive {
		return tail == expected
	}
	return strings.EqualFold(tail, expected)
}

func normalizeSeparators(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// checkFilenames runs CheckFilename for every declaration of doc.
func checkFilenames(filename string, doc *ast.Document) error {
	var diags diagnostics.List
	for _, item := range doc.Items {
		if CheckFilename(filename, item.PackageName(), item.DeclName()) {
			continue
		}
		diags.Addf(diagnostics.FilenamePackageMismatch, filename, item.Pos().Line,
			"%s %s should be declared in a file called %s.",
			strings.ToLower(item.Kind()), item.DeclName(), ExpectedFilename(item.PackageName(), item.DeclName()))
	}
	return diags.Err()
}
