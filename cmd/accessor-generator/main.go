// Package main provides the CLI entrypoint for accessor-generator.
//
// accessor-generator reads declaration structs whose placeholder fields carry
// a name prefix and an unset tag marker, and writes a target struct with a
// getter and a chainable setter for every placeholder.
//
// Typical use from the package holding the declaration:
//
//	//go:generate go run accessor-generator/cmd/accessor-generator -prefix _special_ -type hashtableDecl=Hashtable
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/afero"

	"accessor-generator/internal/analyze"
	"accessor-generator/internal/config"
	"accessor-generator/internal/diagnostic"
	"accessor-generator/internal/gen"
	"accessor-generator/internal/plan"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var errInvalidInput = errors.New("invalid input")

// typeFlags collects repeated -type values.
type typeFlags []config.TypeSpec

func (t *typeFlags) String() string {
	parts := make([]string, 0, len(*t))
	for _, spec := range *t {
		parts = append(parts, spec.String())
	}

	return strings.Join(parts, ",")
}

func (t *typeFlags) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		spec, err := config.ParseTypeSpec(part)
		if err != nil {
			return err
		}

		*t = append(*t, spec)
	}

	return nil
}

type options struct {
	pkg          string
	dir          string
	configPath   string
	writeConfig  string
	prefix       string
	types        typeFlags
	output       string
	outputDir    string
	tagKey       string
	marker       string
	getterPrefix string
	setterPrefix string
	skipSupport  bool
	noComments   bool
	strict       bool
	dryRun       bool
	dump         bool
	verbose      bool
	showVersion  bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("accessor-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.pkg, "pkg", ".", "Package pattern holding the declaration structs")
	fs.StringVar(&opts.dir, "dir", "", "Directory to resolve -pkg from (default: working directory)")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.writeConfig, "write-config", "", "Write the effective configuration to this file and exit")
	fs.StringVar(&opts.prefix, "prefix", "", "Placeholder field name prefix, e.g. _special_")
	fs.Var(&opts.types, "type", "Declaration to generate, as source[=target] (repeatable)")
	fs.StringVar(&opts.output, "output", "", "Generated file name inside the package directory")
	fs.StringVar(&opts.outputDir, "output-dir", "", "Write generated files to this directory instead")
	fs.StringVar(&opts.tagKey, "tag-key", "", "Struct tag key of the unset marker")
	fs.StringVar(&opts.marker, "marker", "", "Struct tag value that marks a placeholder")
	fs.StringVar(&opts.getterPrefix, "getter-prefix", "", "Getter name prefix")
	fs.StringVar(&opts.setterPrefix, "setter-prefix", "", "Setter name prefix")
	fs.BoolVar(&opts.skipSupport, "skip-support", false, "Do not emit the AttributeMissingError support code")
	fs.BoolVar(&opts.noComments, "no-comments", false, "Omit doc comments on generated declarations")
	fs.BoolVar(&opts.strict, "strict", false, "Treat warnings as errors")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print generated code to stdout instead of writing files")
	fs.BoolVar(&opts.dump, "dump", false, "Print the resolved plan")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose logging to stderr")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, "Usage: accessor-generator [flags]\n\n")
		_, _ = fmt.Fprint(stderr, "Flags override values from -config.\n\n")
		fs.PrintDefaults()
	}

	return fs
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, afero.NewOsFs()); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, fs afero.Fs) error {
	var opts options

	flags := newFlagSet(&opts, stderr)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if opts.showVersion {
		_, _ = fmt.Fprintln(stdout, "accessor-generator "+version)

		return nil
	}

	logger := log.New(io.Discard, "accessor-generator: ", 0)
	if opts.verbose {
		logger.SetOutput(stderr)
	}

	file, err := loadConfig(fs, &opts, logger)
	if err != nil {
		return err
	}

	if diags := config.Validate(file); diags.HasErrors() {
		printDiagnostics(stderr, diags)

		return fmt.Errorf("%w: %d configuration error(s)", errInvalidInput, len(diags.Errors))
	}

	if opts.writeConfig != "" {
		if err := config.WriteFile(fs, file, opts.writeConfig); err != nil {
			return err
		}

		logger.Printf("wrote %s", opts.writeConfig)

		return nil
	}

	logger.Printf("loading %s", opts.pkg)

	graph, err := analyze.NewAnalyzerIn(opts.dir).SkipFile(file.Output).LoadPackages(opts.pkg)
	if err != nil {
		return err
	}

	logger.Printf("loaded %d package(s), %d type(s)", len(graph.Packages), len(graph.Types))

	for _, path := range graph.PackagePaths() {
		for _, msg := range graph.Packages[path].TypeErrors {
			logger.Printf("ignoring type error: %s", msg)
		}
	}

	resolution := plan.DefaultConfig()
	resolution.StrictMode = opts.strict

	p, err := plan.NewResolver(graph, file, resolution).Resolve()
	printDiagnostics(stderr, &p.Diagnostics)

	if opts.dump {
		_, _ = fmt.Fprintln(stdout, p.Dump())
	}

	if err != nil {
		return fmt.Errorf("%w: %d resolution error(s)", errInvalidInput, len(p.Diagnostics.Errors))
	}

	genCfg := gen.DefaultGeneratorConfig()
	genCfg.OutputDir = opts.outputDir
	genCfg.GenerateComments = !opts.noComments
	genCfg.DebugFs = fs

	files, err := gen.NewGenerator(genCfg).Generate(p)
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, f := range files {
			_, _ = fmt.Fprintf(stdout, "// === %s ===\n%s", f.Path(), f.Content)
		}

		return nil
	}

	if err := gen.WriteFiles(fs, files); err != nil {
		return err
	}

	for _, f := range files {
		logger.Printf("wrote %s", f.Path())
	}

	return nil
}

// loadConfig reads -config when given, applies flag overrides and derives
// missing targets.
func loadConfig(fs afero.Fs, opts *options, logger *log.Logger) (*config.File, error) {
	file := config.Default()

	if opts.configPath != "" {
		loaded, err := config.LoadFile(fs, opts.configPath)
		if err != nil {
			return nil, err
		}

		logger.Printf("loaded config %s", opts.configPath)

		file = loaded
	}

	override(&file.Prefix, opts.prefix)
	override(&file.Output, opts.output)
	override(&file.TagKey, opts.tagKey)
	override(&file.Marker, opts.marker)
	override(&file.GetterPrefix, opts.getterPrefix)
	override(&file.SetterPrefix, opts.setterPrefix)

	if opts.skipSupport {
		file.SkipSupport = true
	}

	if len(opts.types) > 0 {
		file.Types = opts.types
	}

	config.Normalize(file)

	return file, nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		_, _ = fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
