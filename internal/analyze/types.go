package analyze

import (
	"go/types"
	"reflect"
	"slices"
	"strings"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "accessor-generator/examples/hashtable"
	Name    string // e.g., "hashtableDecl"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

//go:generate go tool stringer -type=TypeKind -trimprefix=TypeKind -output=kind_string.go

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindAlias              // named type wrapping another
	TypeKindExternal           // named type from a package outside the loaded set
	TypeKindInterface          // interface type
)

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	Fields     []FieldInfo // For structs, the list of fields in declaration order
	GoType     types.Type  // The original go/types.Type
	Generic    bool        // Declared with type parameters
	File       string      // File holding the declaration, for named types
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// FieldNames returns the names of all fields in declaration order.
func (t *TypeInfo) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}

	return names
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	TypeExpr string            // Type as written from inside the declaring package
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
	Imports  []ImportSpec      // Packages referenced by TypeExpr
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// TagHas reports whether the comma-separated tag value under key contains
// option, e.g. TagHas("accessor", "unset") for `accessor:"unset,omitempty"`.
func (f *FieldInfo) TagHas(key, option string) bool {
	return slices.Contains(strings.Split(f.Tag.Get(key), ","), option)
}

// ImportSpec is a package referenced by a field type.
type ImportSpec struct {
	Path  string // Import path
	Alias string // Explicit alias, empty when the package name matches the path base
	Name  string // Name the package is referred to by in type expressions
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// FindByName returns every loaded named type called name, ordered by package path.
func (g *TypeGraph) FindByName(name string) []*TypeInfo {
	var found []*TypeInfo

	for _, pkgPath := range g.PackagePaths() {
		if info := g.Types[TypeID{PkgPath: pkgPath, Name: name}]; info != nil {
			found = append(found, info)
		}
	}

	return found
}

// PackagePaths returns the loaded package paths in sorted order.
func (g *TypeGraph) PackagePaths() []string {
	paths := make([]string, 0, len(g.Packages))
	for p := range g.Packages {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	return paths
}

// TypeNames returns the names of all named types in the loaded packages.
func (g *TypeGraph) TypeNames() []string {
	var names []string

	for _, pkgPath := range g.PackagePaths() {
		for _, id := range g.Packages[pkgPath].Types {
			names = append(names, id.Name)
		}
	}

	return names
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources
	Types []TypeID // Named types defined in this package
	// Methods declared in the package source, keyed by receiver type name.
	Methods map[string][]MethodInfo
	// TypeErrors are the type-checking errors tolerated while loading.
	TypeErrors []string
}

// MethodInfo is a method declared in source.
type MethodInfo struct {
	Name string
	File string // File holding the declaration
}

// MethodsOf returns the methods declared on typeName, in source order.
func (p *PackageInfo) MethodsOf(typeName string) []MethodInfo {
	return p.Methods[typeName]
}
