package aidl

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

// SearchPath is an ordered list of import roots.
type SearchPath []string

// Find maps a qualified class name to the first existing file
// "<root>/<class with '.' as separator>.aidl". It returns "" when no root
// holds the class.
func (sp SearchPath) Find(neededClass string) string {
	rel := strings.ReplaceAll(neededClass, ".", string(filepath.Separator)) + ".aidl"
	for _, root := range sp {
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}
	return ""
}

type importResolver struct {
	reg      *Registry
	parser   Parser
	paths    SearchPath
	logger   *slog.Logger
	diags    diagnostics.List
	resolved map[string]*ast.Document
}

// ResolveImports locates, parses, checks and gathers every import of doc
// whose class is not already registered. Imports are handled in source order
// and each is resolved at most once.
func ResolveImports(reg *Registry, parser Parser, paths SearchPath, doc *ast.Document, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	r := &importResolver{
		reg:      reg,
		parser:   parser,
		paths:    paths,
		logger:   logger,
		resolved: make(map[string]*ast.Document),
	}
	for _, imp := range doc.Imports {
		r.resolve(imp)
	}
	return r.diags.Err()
}

func (r *importResolver) resolve(imp *ast.Import) {
	if imp.Resolved() {
		return
	}
	if t := r.reg.Find(imp.NeededClass); t != nil {
		r.logger.Debug("import already known", "class", imp.NeededClass, "kind", t.Kind.String())
		return
	}

	filename := r.paths.Find(imp.NeededClass)
	if filename == "" {
		r.diags.Addf(diagnostics.ImportNotFound, imp.From, imp.Position.Line,
			"couldn't find import for class %s", imp.NeededClass)
		return
	}
	imp.Filename = filename

	if doc, ok := r.resolved[filename]; ok {
		imp.Document = doc
		return
	}

	doc, err := r.parser.ParseFile(filename)
	if err != nil || doc == nil || len(doc.Items) == 0 {
		d := diagnostics.Newf(diagnostics.ImportParseFailure, imp.From, imp.Position.Line,
			"error while parsing import for class %s", imp.NeededClass)
		if err != nil {
			d = d.WithNote(filename, 0, "%v", err)
		}
		r.diags.Add(d)
		return
	}
	imp.Document = doc
	r.resolved[filename] = doc
	r.logger.Debug("resolved import", "class", imp.NeededClass, "file", filename)

	r.diags.Merge(checkFilenames(filename, doc))
	r.diags.Merge(GatherTypes(r.reg, filename, doc))
}
