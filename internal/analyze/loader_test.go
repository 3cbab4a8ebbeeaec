package analyze

import (
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hashtablePkg = "accessor-generator/examples/hashtable"

func loadHashtable(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(hashtablePkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadHashtable(t)

	require.Contains(t, graph.Packages, hashtablePkg)

	pkg := graph.Packages[hashtablePkg]
	assert.Equal(t, "hashtable", pkg.Name)
	assert.Equal(t, "hashtable", filepath.Base(pkg.Dir))

	// Unexported declarations are kept alongside exported ones.
	assert.Contains(t, graph.Types, TypeID{PkgPath: hashtablePkg, Name: "hashtableDecl"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: hashtablePkg, Name: "Hashtable"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: hashtablePkg, Name: "entry"})
	assert.Contains(t, graph.TypeNames(), "AttributeMissingError")
}

func TestAnalyzer_DeclarationFields(t *testing.T) {
	graph := loadHashtable(t)

	decl, err := graph.GetStruct(hashtablePkg, "hashtableDecl")
	require.NoError(t, err)

	assert.Equal(t, TypeKindStruct, decl.Kind)
	assert.Equal(t, "decl.go", filepath.Base(decl.File))
	assert.False(t, decl.Generic)
	assert.Equal(t, []string{
		"_special_expandRate",
		"_special_expandThreshold",
		"_special_metadata",
		"_special_label",
		"buckets",
		"count",
	}, decl.FieldNames())

	rate := decl.Fields[0]
	assert.False(t, rate.Exported)
	assert.Equal(t, "int", rate.TypeExpr)
	assert.Equal(t, TypeKindBasic, rate.Type.Kind)
	assert.True(t, rate.HasTag("accessor"))
	assert.Equal(t, "unset", rate.GetTag("accessor"))
	assert.Empty(t, rate.Imports)

	assert.Equal(t, "any", decl.Fields[2].TypeExpr)

	label := decl.Fields[3]
	assert.False(t, label.HasTag("accessor"))
	assert.Equal(t, "string", label.TypeExpr)

	buckets := decl.Fields[4]
	assert.Equal(t, "[][]entry", buckets.TypeExpr)
	assert.Equal(t, TypeKindSlice, buckets.Type.Kind)
	require.NotNil(t, buckets.Type.ElemType)
	assert.Equal(t, TypeKindSlice, buckets.Type.ElemType.Kind)
	assert.Equal(t, TypeKindStruct, buckets.Type.ElemType.ElemType.Kind)
	assert.Equal(t, 4, buckets.Index)
}

func TestAnalyzer_GeneratedStruct(t *testing.T) {
	graph := loadHashtable(t)

	target, err := graph.GetStruct(hashtablePkg, "Hashtable")
	require.NoError(t, err)

	assert.Equal(t, "hashtable_gen.go", filepath.Base(target.File))
	assert.Equal(t, []string{
		"_special_label",
		"buckets",
		"count",
		"expandRate",
		"expandThreshold",
		"metadata",
	}, target.FieldNames())

	rate := target.Fields[3]
	assert.Equal(t, "*int", rate.TypeExpr)
	assert.Equal(t, TypeKindPointer, rate.Type.Kind)
}

func TestAnalyzer_GetStructErrors(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.LoadPackages(hashtablePkg)
	require.NoError(t, err)

	_, err = a.GetStruct(hashtablePkg, "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	info, err := a.GetStruct(hashtablePkg, "entry")
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value"}, info.FieldNames())
}

func TestAnalyzer_LoadPackagesError(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("accessor-generator/does/not/exist")
	require.Error(t, err)
}

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	files["go.mod"] = "module scratch\n\ngo 1.25\n"

	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	return dir
}

func TestAnalyzer_ToleratesTypeErrors(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"decl.go": "package scratch\n\ntype widgetDecl struct {\n\t_p_size int `accessor:\"unset\"`\n}\n",
		"use.go":  "package scratch\n\nfunc (w *Widget) Size() int { return w.size }\n",
	})

	graph, err := NewAnalyzerIn(dir).LoadPackages(".")
	require.NoError(t, err)

	pkg := graph.Packages["scratch"]
	require.NotNil(t, pkg)
	assert.NotEmpty(t, pkg.TypeErrors)

	decl, err := graph.GetStruct("scratch", "widgetDecl")
	require.NoError(t, err)
	assert.Equal(t, []string{"_p_size"}, decl.FieldNames())

	methods := pkg.MethodsOf("Widget")
	require.Len(t, methods, 1)
	assert.Equal(t, "Size", methods[0].Name)
	assert.Equal(t, "use.go", filepath.Base(methods[0].File))
}

func TestAnalyzer_SkipFile(t *testing.T) {
	files := func() map[string]string {
		return map[string]string{
			"decl.go":       "package scratch\n\ntype widgetDecl struct{ size int }\n",
			"widget_gen.go": "package scratch\n\nfunc {\n",
		}
	}

	_, err := NewAnalyzerIn(writeModule(t, files())).LoadPackages(".")
	require.Error(t, err)

	graph, err := NewAnalyzerIn(writeModule(t, files())).SkipFile("widget_gen.go").LoadPackages(".")
	require.NoError(t, err)
	assert.Contains(t, graph.Types, TypeID{PkgPath: "scratch", Name: "widgetDecl"})
}

func TestAnalyzer_DeclaredMethods(t *testing.T) {
	graph := loadHashtable(t)

	var names []string
	for _, m := range graph.Packages[hashtablePkg].MethodsOf("Hashtable") {
		names = append(names, m.Name)
	}

	assert.Contains(t, names, "Put")
	assert.Contains(t, names, "GetExpandRate")
	assert.Empty(t, graph.Packages[hashtablePkg].MethodsOf("hashtableDecl"))
}

func TestReceiverTypeName(t *testing.T) {
	tests := map[string]string{
		"T":        "T",
		"*T":       "T",
		"(*T)":     "T",
		"T[K]":     "T",
		"*T[K, V]": "T",
		"[]T":      "",
		"pkg.T":    "",
	}

	for src, want := range tests {
		expr, err := parser.ParseExpr(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, receiverTypeName(expr), src)
	}
}

func TestTypeExpr(t *testing.T) {
	home := types.NewPackage("example.com/app", "app")
	clock := types.NewPackage("time", "time")
	logs := types.NewPackage("example.com/log/v2", "slogx")

	named := func(pkg *types.Package, name string) *types.Named {
		return types.NewNamed(types.NewTypeName(token.NoPos, pkg, name, nil), types.NewStruct(nil, nil), nil)
	}

	typ := types.NewMap(named(clock, "Time"), types.NewSlice(types.NewPointer(named(logs, "Logger"))))

	expr, imports := typeExpr(typ, home)
	assert.Equal(t, "map[time.Time][]*slogx.Logger", expr)
	assert.Equal(t, []ImportSpec{
		{Path: "time", Name: "time"},
		{Path: "example.com/log/v2", Alias: "slogx", Name: "slogx"},
	}, imports)

	expr, imports = typeExpr(types.NewPointer(named(home, "Node")), home)
	assert.Equal(t, "*Node", expr)
	assert.Empty(t, imports)

	expr, imports = typeExpr(types.NewSlice(named(clock, "Duration")), clock)
	assert.Equal(t, "[]Duration", expr)
	assert.Empty(t, imports)
}

func TestTypeGraph_FindByName(t *testing.T) {
	g := NewTypeGraph()

	for _, path := range []string{"b/pkg", "a/pkg"} {
		id := TypeID{PkgPath: path, Name: "Decl"}
		g.Packages[path] = &PackageInfo{Path: path, Name: "pkg", Types: []TypeID{id}}
		g.Types[id] = &TypeInfo{ID: id, Kind: TypeKindStruct}
	}

	found := g.FindByName("Decl")
	require.Len(t, found, 2)
	assert.Equal(t, "a/pkg", found[0].ID.PkgPath)
	assert.Equal(t, "b/pkg", found[1].ID.PkgPath)

	assert.Empty(t, g.FindByName("Other"))
	assert.Equal(t, []string{"a/pkg", "b/pkg"}, g.PackagePaths())
	assert.Equal(t, []string{"Decl", "Decl"}, g.TypeNames())
}

func TestTypeGraph_GetStructNotStruct(t *testing.T) {
	g := NewTypeGraph()
	id := TypeID{PkgPath: "p", Name: "Status"}
	g.Types[id] = &TypeInfo{ID: id, Kind: TypeKindAlias}

	_, err := g.GetStruct("p", "Status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct (kind: Alias)")
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: hashtablePkg, Name: "hashtableDecl"}
	assert.Equal(t, "accessor-generator/examples/hashtable.hashtableDecl", id.String())

	// Empty package path
	idNoPkg := TypeID{Name: "int"}
	assert.Equal(t, "int", idNoPkg.String())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "Basic", TypeKindBasic.String())
	assert.Equal(t, "Struct", TypeKindStruct.String())
	assert.Equal(t, "Pointer", TypeKindPointer.String())
	assert.Equal(t, "Map", TypeKindMap.String())
	assert.Equal(t, "External", TypeKindExternal.String())
	assert.Equal(t, "Interface", TypeKindInterface.String())
	assert.Equal(t, "Unknown", TypeKindUnknown.String())
	assert.Equal(t, "TypeKind(42)", TypeKind(42).String())
}

func TestFieldInfo_TagHas(t *testing.T) {
	f := FieldInfo{Name: "_special_x", Tag: `json:"x" accessor:"unset,omitempty"`}

	assert.True(t, f.TagHas("accessor", "unset"))
	assert.True(t, f.TagHas("accessor", "omitempty"))
	assert.False(t, f.TagHas("accessor", "uns"))
	assert.False(t, f.TagHas("json", "unset"))
	assert.False(t, f.TagHas("yaml", "unset"))
}
