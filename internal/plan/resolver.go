package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"accessor-generator/internal/analyze"
	"accessor-generator/internal/common"
	"accessor-generator/internal/config"
	"accessor-generator/internal/diagnostic"
	"accessor-generator/internal/match"
	"accessor-generator/internal/synth"
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// MaxSuggestions is the maximum number of close matches offered for an
	// unknown declaration type.
	MaxSuggestions int
	// StrictMode turns warnings into errors.
	StrictMode bool
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		MaxSuggestions: 3,
		StrictMode:     false,
	}
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	graph  *analyze.TypeGraph
	file   *config.File
	config ResolutionConfig
}

// NewResolver creates a new Resolver. file is expected to be normalized
// and validated.
func NewResolver(graph *analyze.TypeGraph, file *config.File, cfg ResolutionConfig) *Resolver {
	return &Resolver{
		graph:  graph,
		file:   file,
		config: cfg,
	}
}

// Resolve runs the full resolution pipeline and returns an AccessorPlan.
// The plan is returned even on error so its diagnostics can be reported.
func (r *Resolver) Resolve() (*AccessorPlan, error) {
	p := &AccessorPlan{}

	if r.graph == nil || r.file == nil {
		p.Diagnostics.AddError(diagnostic.CodeInvalidConfig, "resolver needs a type graph and a config", "", "")
		return p, p.Diagnostics.Error()
	}

	byPkg := make(map[string]*PackagePlan)
	targets := make(map[analyze.TypeID]string)

	for _, spec := range r.file.Types {
		cp, ok := r.resolveType(spec, &p.Diagnostics)
		if !ok {
			continue
		}

		targetID := analyze.TypeID{PkgPath: cp.Source.PkgPath, Name: cp.Target}
		if prev, dup := targets[targetID]; dup {
			p.Diagnostics.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("target %s is also generated from %s", targetID, prev), spec.Source, "")

			continue
		}

		targets[targetID] = spec.Source

		pkg, ok := byPkg[cp.Source.PkgPath]
		if !ok {
			info := r.graph.Packages[cp.Source.PkgPath]
			pkg = &PackagePlan{
				Path:        info.Path,
				Name:        info.Name,
				Dir:         info.Dir,
				Output:      r.file.Output,
				EmitSupport: !r.file.SkipSupport,
			}
			byPkg[cp.Source.PkgPath] = pkg
		}

		pkg.Classes = append(pkg.Classes, *cp)
	}

	for _, path := range r.graph.PackagePaths() {
		if pkg, ok := byPkg[path]; ok {
			p.Packages = append(p.Packages, *pkg)
		}
	}

	if r.config.StrictMode && len(p.Diagnostics.Warnings) > 0 {
		p.Diagnostics.Errors = append(p.Diagnostics.Errors, p.Diagnostics.Warnings...)
		p.Diagnostics.Warnings = nil
	}

	return p, p.Diagnostics.Error()
}

// resolveType finds, converts and synthesizes one configured declaration.
func (r *Resolver) resolveType(spec config.TypeSpec, diags *diagnostic.Diagnostics) (*ClassPlan, bool) {
	candidates := r.graph.FindByName(spec.Source)

	switch {
	case common.IsEmpty(candidates):
		diags.AddError(diagnostic.CodeTypeNotFound,
			fmt.Sprintf("type %q not found in the loaded packages", spec.Source), spec.Source, "",
			match.Suggest(spec.Source, r.graph.TypeNames(), r.config.MaxSuggestions)...)

		return nil, false

	case common.IsMultiple(candidates):
		var where []string
		for _, c := range candidates {
			where = append(where, c.ID.String())
		}

		diags.AddError(diagnostic.CodeAmbiguousType,
			fmt.Sprintf("type %q is declared in several packages", spec.Source), spec.Source, "", where...)

		return nil, false
	}

	info, _ := common.First(candidates)

	target := spec.Target
	if target == "" {
		derived, err := config.DeriveTarget(spec.Source)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidConfig, err.Error(), spec.Source, "")
			return nil, false
		}

		target = derived
	}

	if !r.targetAvailable(info.ID.PkgPath, target, diags, spec.Source) {
		return nil, false
	}

	marker := analyze.Marker{TagKey: r.file.TagKey, Value: r.file.Marker}

	class, err := analyze.ToClass(info, marker)
	if err != nil {
		diags.AddError(diagnostic.CodeNotStruct, err.Error(), spec.Source, "")
		return nil, false
	}

	class.Reserved = r.handwrittenMethods(info.ID.PkgPath, target)

	r.reviewFields(class, diags)

	if _, err := synth.Synthesize(class, r.file.Prefix, r.file.SynthOptions()); err != nil {
		for _, e := range flatten(err) {
			field := ""

			var se *synth.Error
			if errors.As(e, &se) {
				field = se.Attribute
			}

			diags.AddError(diagnostic.CodeSynthesis, e.Error(), spec.Source, field)
		}

		return nil, false
	}

	if len(class.Accessors) == 0 {
		diags.AddWarning(diagnostic.CodeNoPlaceholders,
			fmt.Sprintf("no field starts with %q and carries `%s:%q`", r.file.Prefix, r.file.TagKey, r.file.Marker),
			spec.Source, "")
	}

	return &ClassPlan{
		Source:  info.ID,
		Target:  target,
		Class:   class,
		Imports: collectImports(info),
	}, true
}

// targetAvailable reports whether target may be (re)generated in pkgPath.
// A type of that name is only acceptable when it lives in the output file
// of an earlier run.
func (r *Resolver) targetAvailable(pkgPath, target string, diags *diagnostic.Diagnostics, source string) bool {
	existing := r.graph.GetType(analyze.TypeID{PkgPath: pkgPath, Name: target})
	if existing == nil {
		return true
	}

	if existing.File != "" && filepath.Base(existing.File) == r.file.Output {
		return true
	}

	diags.AddError(diagnostic.CodeTargetExists,
		fmt.Sprintf("type %s already exists outside %s", existing.ID, r.file.Output), source, "")

	return false
}

// handwrittenMethods returns the methods declared on target outside the
// output file. Fields and methods share a namespace, so generated members
// must not reuse these names.
func (r *Resolver) handwrittenMethods(pkgPath, target string) []string {
	pkg := r.graph.Packages[pkgPath]
	if pkg == nil {
		return nil
	}

	var names []string

	for _, m := range pkg.MethodsOf(target) {
		if filepath.Base(m.File) == r.file.Output {
			continue
		}

		names = append(names, m.Name)
	}

	return names
}

// reviewFields reports fields that look like placeholders but are not.
func (r *Resolver) reviewFields(class *synth.Class, diags *diagnostic.Diagnostics) {
	for _, a := range class.Attributes {
		hasPrefix := strings.HasPrefix(a.Name, r.file.Prefix)

		switch {
		case a.Unset && !hasPrefix:
			diags.AddWarning(diagnostic.CodeMarkerWithoutPrefix,
				fmt.Sprintf("field is marked %q but does not start with %q; it is kept as is", r.file.Marker, r.file.Prefix),
				class.Name, a.Name)
		case a.Unset && a.Embedded:
			diags.AddWarning(diagnostic.CodeMarkerWithoutPrefix,
				"embedded fields are never placeholders; it is kept as is", class.Name, a.Name)
		case hasPrefix && !a.Unset:
			diags.AddInfo(diagnostic.CodePrefixWithoutMarker,
				fmt.Sprintf("field has the prefix but no %q marker; it is kept as is", r.file.Marker),
				class.Name, a.Name)
		}
	}
}

// collectImports merges the imports of every field, sorted by path.
func collectImports(info *analyze.TypeInfo) []analyze.ImportSpec {
	seen := make(map[string]bool)

	var imports []analyze.ImportSpec

	for _, f := range info.Fields {
		for _, imp := range f.Imports {
			if seen[imp.Path] {
				continue
			}

			seen[imp.Path] = true
			imports = append(imports, imp)
		}
	}

	slices.SortFunc(imports, func(a, b analyze.ImportSpec) int {
		return strings.Compare(a.Path, b.Path)
	})

	return imports
}

// flatten unpacks an errors.Join result.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	return []error{err}
}
