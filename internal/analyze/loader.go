package analyze

import (
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"reflect"

	"golang.org/x/tools/go/packages"

	"accessor-generator/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	dir       string
	skipFile  string
}

// NewAnalyzer creates a new Analyzer resolving patterns from the working directory.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerIn("")
}

// NewAnalyzerIn creates a new Analyzer resolving patterns relative to dir.
func NewAnalyzerIn(dir string) *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		dir:       dir,
	}
}

// SkipFile makes LoadPackages read files with the given base name as empty
// files of their package whenever the packages do not load cleanly, so a
// missing, stale or broken generated file does not block regeneration.
func (a *Analyzer) SkipFile(name string) *Analyzer {
	a.skipFile = name
	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., ".", "accessor-generator/examples/hashtable").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if overlay := a.skipOverlay(pkgs); len(overlay) > 0 && hasErrors(pkgs) {
		cfg.Overlay = overlay

		pkgs, err = packages.Load(cfg, patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to load packages: %w", err)
		}
	}

	// Type errors are expected while the generated file is missing or stale:
	// code next to the declaration may use the target type. The declarations
	// are still type-checked, so only listing and parsing failures are fatal.
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind != packages.TypeError {
				errs = append(errs, e)
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register every package first so external types are told apart
	// regardless of load order.
	for _, pkg := range pkgs {
		info := &PackageInfo{
			Path:    pkg.PkgPath,
			Name:    pkg.Name,
			Dir:     packageDir(pkg),
			Methods: declaredMethods(pkg),
		}

		for _, e := range pkg.Errors {
			info.TypeErrors = append(info.TypeErrors, e.Error())
		}

		a.graph.Packages[pkg.PkgPath] = info
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// skipOverlay replaces every file named a.skipFile with a bare package clause.
func (a *Analyzer) skipOverlay(pkgs []*packages.Package) map[string][]byte {
	if a.skipFile == "" {
		return nil
	}

	overlay := make(map[string][]byte)

	for _, pkg := range pkgs {
		if pkg.Name == "" {
			continue
		}

		for _, f := range pkg.GoFiles {
			if filepath.Base(f) == a.skipFile {
				overlay[f] = []byte("package " + pkg.Name + "\n")
			}
		}
	}

	return overlay
}

func hasErrors(pkgs []*packages.Package) bool {
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return true
		}
	}

	return false
}

// declaredMethods lists the methods declared in the package source, keyed by
// receiver type name. It reads the syntax so methods on a type that does not
// exist yet are found too.
func declaredMethods(pkg *packages.Package) map[string][]MethodInfo {
	methods := make(map[string][]MethodInfo)

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}

			recv := receiverTypeName(fn.Recv.List[0].Type)
			if recv == "" {
				continue
			}

			m := MethodInfo{Name: fn.Name.Name}
			if pkg.Fset != nil {
				m.File = pkg.Fset.Position(fn.Pos()).Filename
			}

			methods[recv] = append(methods[recv], m)
		}
	}

	return methods
}

// receiverTypeName unwraps T, *T, T[P] and *T[P, Q] to T.
func receiverTypeName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) == 0 {
		return ""
	}

	return filepath.Dir(pkg.GoFiles[0])
}

// processPackage extracts named types from a loaded package.
// Unexported types are kept: declaration structs are usually unexported.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	if pkg.Types == nil {
		return fmt.Errorf("no type information")
	}

	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		typeID := TypeID{
			PkgPath: pkg.PkgPath,
			Name:    name,
		}

		typeInfo := a.analyzeType(typeName.Type())
		typeInfo.ID = typeID

		if pkg.Fset != nil {
			typeInfo.File = pkg.Fset.Position(typeName.Pos()).Filename
		}

		a.graph.Types[typeID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeID)
	}

	return nil
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Alias:
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(types.Unalias(tt))

	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info, nil)

	default:
		// Channels, funcs, type parameters
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	info.Generic = named.TypeParams().Len() > 0

	// Predeclared types such as error have no package.
	if obj.Pkg() == nil {
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindInterface

		return
	}

	info.ID = TypeID{
		PkgPath: obj.Pkg().Path(),
		Name:    obj.Name(),
	}

	if a.isExternalPackage(obj.Pkg().Path()) {
		info.Kind = TypeKindExternal
		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info, obj.Pkg())

	default:
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts all fields, exported or not, in declaration order.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo, from *types.Package) {
	for i := range st.NumFields() {
		field := st.Field(i)

		home := from
		if home == nil {
			home = field.Pkg()
		}

		expr, imports := typeExpr(field.Type(), home)

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			TypeExpr: expr,
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
			Imports:  imports,
		})
	}
}

// typeExpr renders t the way it is spelled from inside package from and
// reports the packages the spelling refers to.
func typeExpr(t types.Type, from *types.Package) (string, []ImportSpec) {
	var imports []ImportSpec

	seen := make(map[string]bool)
	qualifier := func(p *types.Package) string {
		if from != nil && p.Path() == from.Path() {
			return ""
		}

		if !seen[p.Path()] {
			seen[p.Path()] = true

			spec := ImportSpec{Path: p.Path(), Name: p.Name()}
			if p.Name() != common.PkgAlias(p.Path()) {
				spec.Alias = p.Name()
			}

			imports = append(imports, spec)
		}

		return p.Name()
	}

	return types.TypeString(t, qualifier), imports
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	return a.graph.GetStruct(pkgPath, typeName)
}

// GetStruct returns the TypeInfo for a named struct declared in pkgPath.
func (g *TypeGraph) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	info := g.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}

	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}

	return info, nil
}
