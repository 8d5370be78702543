// Package aidl is the semantic core of the AIDL compiler: it builds the type
// registry of one compilation unit, resolves imports, validates every method
// signature against the marshalling rules, assigns transaction ids and checks
// that files are named after the types they declare.
package aidl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

// Options configures one compilation.
type Options struct {
	InputFile         string
	ImportPaths       []string
	PreprocessedFiles []string
	// Parser defaults to NewParser().
	Parser Parser
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Unit is the outcome of a successful compilation: a validated interface
// with every method id assigned, plus what it took to get there.
type Unit struct {
	InputFile string
	Document  *ast.Document
	Interface *ast.Interface
	Imports   []*ast.Import
	Registry  *Registry
}

// ImportFiles returns the resolved file of every import, in import order.
func (u *Unit) ImportFiles() []string {
	var files []string
	for _, imp := range u.Imports {
		if imp.Filename != "" {
			files = append(files, imp.Filename)
		}
	}
	return files
}

// Generator is the code generation backend. It only ever sees units that
// passed validation.
type Generator interface {
	Extension() string
	Generate(unit *Unit, w io.Writer) error
}

type Frontend interface {
	Run() (*Unit, error)
}

type frontend struct {
	opts   Options
	parser Parser
	logger *slog.Logger
}

func New(opts Options) (Frontend, error) {
	if opts.InputFile == "" {
		return nil, errors.New("no input file")
	}
	stat, err := os.Stat(opts.InputFile)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", opts.InputFile)
	}
	f := &frontend{opts: opts, parser: opts.Parser, logger: opts.Logger}
	if f.parser == nil {
		f.parser = NewParser()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f, nil
}

// Run executes the pipeline. Loading and import problems stop the run before
// validation; validation and id problems are reported together.
func (f *frontend) Run() (*Unit, error) {
	input := f.opts.InputFile
	reg := NewRegistry()
	log := f.logger.With("input", input)

	var diags diagnostics.List
	for _, pre := range f.opts.PreprocessedFiles {
		diags.Merge(LoadPreprocessedFile(reg, pre))
	}
	if len(diags) > 0 {
		return nil, diags.Err()
	}
	log.Debug("registry seeded", "types", reg.Len(), "preprocessed", len(f.opts.PreprocessedFiles))

	doc, err := f.parser.ParseFile(input)
	if err != nil {
		return nil, err
	}
	if doc == nil || len(doc.Items) != 1 || len(doc.Interfaces()) != 1 {
		diags.Addf(diagnostics.InvalidDocument, input, 0, "aidl expects exactly one interface per input file")
		return nil, diags.Err()
	}
	iface := doc.Interfaces()[0]

	diags.Merge(checkFilenames(input, doc))
	diags.Merge(GatherTypes(reg, input, doc))
	diags.Merge(ResolveImports(reg, f.parser, SearchPath(f.opts.ImportPaths), doc, log))
	if len(diags) > 0 {
		return nil, diags.Err()
	}
	log.Debug("types gathered", "types", reg.Len(), "imports", len(doc.Imports))

	diags.Merge(CheckTypes(reg, input, doc))
	diags.Merge(AssignMethodIDs(input, iface))
	if len(diags) > 0 {
		return nil, diags.Err()
	}
	log.Debug("interface validated", "interface", iface.QualifiedName(), "methods", len(iface.Methods))

	return &Unit{
		InputFile: input,
		Document:  doc,
		Interface: iface,
		Imports:   doc.Imports,
		Registry:  reg,
	}, nil
}

// Compile runs the frontend for opts and, when gen is not nil, writes the
// generated output to outputFile, creating its directory.
func Compile(opts Options, gen Generator, outputFile string) (*Unit, error) {
	fe, err := New(opts)
	if err != nil {
		return nil, err
	}
	unit, err := fe.Run()
	if err != nil {
		return nil, err
	}
	if gen == nil || outputFile == "" {
		return unit, nil
	}
	return unit, WriteOutput(gen, unit, outputFile)
}

// WriteOutput runs gen for unit into outputFile, creating its directory.
func WriteOutput(gen Generator, unit *Unit, outputFile string) error {
	if err := EnsureOutputDir(outputFile); err != nil {
		return err
	}
	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	if err := gen.Generate(unit, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// EnsureOutputDir creates the parent directories of path.
func EnsureOutputDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
