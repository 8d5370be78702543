package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	aidl "github.com/DennissimOS/platform-system-tools-aidl"
	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/config"
	"github.com/DennissimOS/platform-system-tools-aidl/describe"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
	"github.com/DennissimOS/platform-system-tools-aidl/internal/watcher"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWithArgs(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type cli struct {
	cfg     *config.Config
	opts    aidl.Options
	gen     aidl.Generator
	printer *diagnostics.Printer
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer

	outputDir string
	depFile   string
	autoDep   bool
	printAST  bool
}

func runWithArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aidl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var imports, preprocessed stringList
	fs.Var(&imports, "I", "add an import search path (repeatable)")
	fs.Var(&preprocessed, "p", "load declarations from a preprocessed file (repeatable)")
	depFile := fs.String("d", "", "write a make dependency file")
	autoDep := fs.Bool("a", false, "write a dependency file next to the output, named <output>.d")
	outputDir := fs.String("o", "", "base directory for generated files")
	configPath := fs.String("config", "", "path to the project file (default "+config.DefaultFile+" when present)")
	preprocess := fs.Bool("preprocess", false, "write a preprocessed file: -preprocess OUTPUT INPUT...")
	batch := fs.Bool("batch", false, "compile every interface below ROOT")
	watch := fs.Bool("watch", false, "recompile INPUT when it or one of its imports changes")
	printAST := fs.Bool("print-ast", false, "print the parsed document to stdout")
	verbose := fs.Bool("v", false, "log pipeline stages")
	color := fs.String("color", "", "colorize diagnostics: auto, always or never")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: aidl [options] INPUT [OUTPUT]\n")
		fmt.Fprintf(stderr, "       aidl -preprocess OUTPUT INPUT...\n")
		fmt.Fprintf(stderr, "       aidl -batch [options] ROOT\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	colorMode := cfg.Color
	if *color != "" {
		colorMode = *color
	}
	mode, err := diagnostics.ParseColorMode(colorMode)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	c := &cli{
		cfg:       cfg,
		gen:       describe.Generator{},
		printer:   diagnostics.NewPrinter(stderr, mode),
		logger:    logger,
		stdout:    stdout,
		stderr:    stderr,
		outputDir: firstNonEmpty(*outputDir, cfg.OutputDir),
		depFile:   firstNonEmpty(*depFile, cfg.DepFile),
		autoDep:   *autoDep || cfg.AutoDepFile,
		printAST:  *printAST,
	}
	c.opts = aidl.Options{
		ImportPaths:       overrideList(imports, cfg.ImportPaths),
		PreprocessedFiles: overrideList(preprocessed, cfg.Preprocessed),
		Logger:            logger,
	}

	rest := fs.Args()
	switch {
	case *preprocess:
		if len(rest) < 2 {
			fmt.Fprintln(stderr, "error: -preprocess needs OUTPUT and at least one INPUT")
			fs.Usage()
			return 2
		}
		return c.preprocess(rest[0], rest[1:])
	case *batch:
		if len(rest) != 1 {
			fmt.Fprintln(stderr, "error: -batch needs exactly one ROOT")
			fs.Usage()
			return 2
		}
		return c.batch(rest[0])
	}

	if len(rest) < 1 || len(rest) > 2 {
		fmt.Fprintln(stderr, "error: expected INPUT [OUTPUT]")
		fs.Usage()
		return 2
	}
	input, output := rest[0], ""
	if len(rest) == 2 {
		output = rest[1]
	}
	if *watch {
		return c.watch(ctx, input, output)
	}
	code, _ := c.compile(input, output)
	return code
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOptional(config.DefaultFile)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func overrideList(flagValues, configValues []string) []string {
	if len(flagValues) > 0 {
		return flagValues
	}
	return configValues
}

// report prints err and returns the exit status it maps to.
func (c *cli) report(err error) int {
	if err == nil {
		return 0
	}
	if _, perr := c.printer.PrintErr(err); perr != nil {
		fmt.Fprintf(c.stderr, "error: %v\n", err)
	}
	return 1
}

func (c *cli) outputFor(unit *aidl.Unit, explicit string) string {
	if explicit != "" {
		return explicit
	}
	iface := unit.Interface
	return aidl.OutputFileName(c.outputDir, iface.Package, iface.Name, c.gen.Extension())
}

// compile runs one input through the pipeline and returns the exit status
// with the unit, which is nil when compilation failed.
func (c *cli) compile(input, output string) (int, *aidl.Unit) {
	opts := c.opts
	opts.InputFile = input
	fe, err := aidl.New(opts)
	if err != nil {
		return c.report(err), nil
	}
	unit, err := fe.Run()
	if err != nil {
		return c.report(err), nil
	}
	if c.printAST {
		if err := ast.Fprint(c.stdout, unit.Document); err != nil {
			return c.report(err), unit
		}
	}

	output = c.outputFor(unit, output)
	if err := aidl.WriteOutput(c.gen, unit, output); err != nil {
		return c.report(err), unit
	}
	c.logger.Info("generated", "input", input, "output", output)

	depFile := c.depFile
	if c.autoDep {
		depFile = output + ".d"
	}
	if depFile != "" {
		if err := aidl.WriteDepFileTo(depFile, output, unit); err != nil {
			return c.report(err), unit
		}
	}
	return 0, unit
}

func (c *cli) preprocess(output string, inputs []string) int {
	if err := aidl.EnsureOutputDir(output); err != nil {
		return c.report(err)
	}
	f, err := os.Create(output)
	if err != nil {
		return c.report(err)
	}
	if err := aidl.Preprocess(aidl.NewParser(), inputs, f); err != nil {
		f.Close()
		return c.report(err)
	}
	return c.report(f.Close())
}

func (c *cli) batch(root string) int {
	results, err := aidl.CompileTree(root, c.cfg.Batch.Include, c.cfg.Batch.Exclude, c.opts)
	if err != nil {
		return c.report(err)
	}
	status := 0
	for _, r := range results {
		if r.Err != nil {
			c.report(r.Err)
			status = 1
			continue
		}
		output := c.outputFor(r.Unit, "")
		if err := aidl.WriteOutput(c.gen, r.Unit, output); err != nil {
			c.report(err)
			status = 1
		}
	}
	c.logger.Info("batch finished", "root", root, "units", len(results), "failed", aidl.Failed(results))
	return status
}

func (c *cli) watch(ctx context.Context, input, output string) int {
	var w *watcher.Watcher
	recompile := func() {
		code, unit := c.compile(input, output)
		if code == 0 {
			fmt.Fprintf(c.stdout, "%s: ok\n", input)
		}
		if err := w.SetFiles(watchedFiles(input, unit)); err != nil {
			c.logger.Warn("failed to update watched files", "error", err)
		}
	}

	w, err := watcher.New(c.cfg.Watch.Debounce, c.cfg.Watch.Exclude, c.logger, func(paths []string) {
		c.logger.Info("change detected", "files", paths)
		recompile()
	})
	if err != nil {
		return c.report(err)
	}
	defer w.Close()

	recompile()
	<-ctx.Done()
	return 0
}

// watchedFiles is the input plus every import the last successful compile
// resolved. After a failed compile only the input is known.
func watchedFiles(input string, unit *aidl.Unit) []string {
	files := []string{input}
	if unit != nil {
		files = append(files, unit.ImportFiles()...)
	}
	return files
}
