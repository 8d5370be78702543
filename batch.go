package aidl

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/gobwas/glob"
)

// DefaultBatchInclude selects every .aidl file below the batch root.
var DefaultBatchInclude = []string{"**.aidl"}

// BatchResult is the outcome of compiling one file of a batch.
type BatchResult struct {
	File string
	Unit *Unit
	Err  error
}

// Failed counts the results that carry an error.
func Failed(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// CompileTree compiles every interface file below root whose slash separated
// path relative to root matches an include pattern and no exclude pattern.
// Files declaring only parcelables are skipped. Every file gets its own
// Registry, so diagnostics of one unit never leak into another.
func CompileTree(root string, include, exclude []string, opts Options) ([]BatchResult, error) {
	if len(include) == 0 {
		include = DefaultBatchInclude
	}
	inc, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}
	exc, err := compileGlobs(exclude)
	if err != nil {
		return nil, err
	}
	parser := opts.Parser
	if parser == nil {
		parser = NewParser()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var results []BatchResult
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(inc, rel) || matchAny(exc, rel) {
			return nil
		}

		doc, perr := parser.ParseFile(path)
		if perr == nil && len(doc.Interfaces()) == 0 {
			logger.Debug("skipping file without interface", "file", path)
			return nil
		}

		unitOpts := opts
		unitOpts.InputFile = path
		unitOpts.Parser = parser
		unit, cerr := Compile(unitOpts, nil, "")
		results = append(results, BatchResult{File: path, Unit: unit, Err: cerr})
		return nil
	})
	return results, err
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, s string) bool {
	for _, g := range globs {
		if g.Match(s) {
			return true
		}
	}
	return false
}
