package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"accessor-generator/internal/plan"
	"accessor-generator/internal/synth"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// OutputDir overrides the package directory as the destination of every file.
	OutputDir string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
	// DebugFs receives an unformatted sidecar file when formatting fails.
	// Nil disables the sidecar.
	DebugFs afero.Fs
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		GenerateComments: true,
	}
}

// Generator generates Go code from an accessor plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory the file belongs in.
	Dir string
	// Filename is the name of the file (e.g., "hashtable_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the full path of the file.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generate generates one Go source file per package of the plan.
func (g *Generator) Generate(p *plan.AccessorPlan) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for i := range p.Packages {
		file, err := g.generatePackage(&p.Packages[i])
		if err != nil {
			return files, fmt.Errorf("generating %s: %w", p.Packages[i].Path, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// templateData holds all data needed for the accessor template.
type templateData struct {
	PackageName      string
	Imports          []importSpec
	Classes          []classData
	EmitSupport      bool
	GenerateComments bool
	ErrorsPkg        string
	FmtPkg           string
}

type importSpec struct {
	Alias string
	Path  string
}

type classData struct {
	Source    string
	Target    string
	Recv      string
	Fields    []fieldData
	Storage   []fieldData
	Accessors []accessorData
}

type fieldData struct {
	Name     string
	Type     string
	Tag      string // Tag literal including quotes, empty if none
	Embedded bool
}

type accessorData struct {
	Field  string
	Type   string
	Getter string
	Setter string
}

func (g *Generator) generatePackage(pkg *plan.PackagePlan) (*GeneratedFile, error) {
	dir := pkg.Dir
	if g.config.OutputDir != "" {
		dir = g.config.OutputDir
	}

	data := &templateData{
		PackageName:      pkg.Name,
		EmitSupport:      pkg.EmitSupport,
		GenerateComments: g.config.GenerateComments,
		ErrorsPkg:        "errors",
		FmtPkg:           "fmt",
	}

	imports, err := g.buildImports(pkg, data)
	if err != nil {
		return nil, err
	}

	data.Imports = imports

	for _, cp := range pkg.Classes {
		data.Classes = append(data.Classes, buildClassData(cp))
	}

	var buf bytes.Buffer
	if err := accessorTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(g.config.DebugFs, dir, pkg.Output, buf.Bytes())

		return &GeneratedFile{
			Dir:      dir,
			Filename: pkg.Output,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Dir:      dir,
		Filename: pkg.Output,
		Content:  formatted,
	}, nil
}

// buildImports merges the class imports of a package and adds the standard
// library packages needed by the support code, aliasing them when a field
// type already uses their name.
func (g *Generator) buildImports(pkg *plan.PackagePlan, data *templateData) ([]importSpec, error) {
	byName := make(map[string]string)
	byPath := make(map[string]importSpec)

	for _, cp := range pkg.Classes {
		for _, imp := range cp.Imports {
			if prev, ok := byName[imp.Name]; ok && prev != imp.Path {
				return nil, fmt.Errorf("packages %s and %s are both referred to as %s", prev, imp.Path, imp.Name)
			}

			byName[imp.Name] = imp.Path
			byPath[imp.Path] = importSpec{Alias: imp.Alias, Path: imp.Path}
		}
	}

	if data.EmitSupport {
		data.ErrorsPkg = stdImport(byName, byPath, "errors")
		data.FmtPkg = stdImport(byName, byPath, "fmt")
	}

	imports := make([]importSpec, 0, len(byPath))
	for _, imp := range byPath {
		imports = append(imports, imp)
	}

	slices.SortFunc(imports, func(a, b importSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	return imports, nil
}

// stdImport registers the standard library package path and returns the
// name the generated code should use for it.
func stdImport(byName map[string]string, byPath map[string]importSpec, path string) string {
	if imp, ok := byPath[path]; ok {
		if imp.Alias != "" {
			return imp.Alias
		}

		return path
	}

	name := path
	alias := ""

	if _, taken := byName[name]; taken {
		name = "std" + path
		alias = name
	}

	byName[name] = path
	byPath[path] = importSpec{Alias: alias, Path: path}

	return name
}

func buildClassData(cp plan.ClassPlan) classData {
	cd := classData{
		Source: cp.Source.Name,
		Target: cp.Target,
		Recv:   receiverName(cp.Target, cp.Class.Accessors),
	}

	for _, a := range cp.Class.Attributes {
		cd.Fields = append(cd.Fields, fieldData{
			Name:     a.Name,
			Type:     a.Type,
			Tag:      tagLiteral(a.Tag),
			Embedded: a.Embedded,
		})
	}

	for _, p := range cp.Class.Accessors {
		cd.Storage = append(cd.Storage, fieldData{Name: p.Field, Type: p.Type})
		cd.Accessors = append(cd.Accessors, accessorData{
			Field:  p.Field,
			Type:   p.Type,
			Getter: p.Getter,
			Setter: p.Setter,
		})
	}

	return cd
}

// receiverName returns a short receiver for typeName that no identifier in
// the accessor bodies refers to: the lower-cased first rune, then the first
// two runes, then "recv" with a numeric suffix.
func receiverName(typeName string, accessors []synth.AccessorPair) string {
	used := map[string]bool{"value": true, "zero": true}
	for _, p := range accessors {
		for _, ident := range identifiers(p.Type) {
			used[ident] = true
		}
	}

	runes := []rune(strings.ToLower(typeName))

	var candidates []string
	if len(runes) > 0 {
		candidates = append(candidates, string(runes[0]))
	}

	if len(runes) > 1 {
		candidates = append(candidates, string(runes[:2]))
	}

	candidates = append(candidates, "recv")

	for _, c := range candidates {
		if token.IsIdentifier(c) && !used[c] {
			return c
		}
	}

	for i := 1; ; i++ {
		if c := "recv" + strconv.Itoa(i); !used[c] {
			return c
		}
	}
}

// identifiers splits a type expression into the names it mentions.
func identifiers(typeExpr string) []string {
	return strings.FieldsFunc(typeExpr, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tagLiteral(tag string) string {
	if tag == "" {
		return ""
	}

	if strings.ContainsRune(tag, '`') {
		return strconv.Quote(tag)
	}

	return "`" + tag + "`"
}
