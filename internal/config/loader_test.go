package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessor-generator/internal/diagnostic"
)

func TestParse(t *testing.T) {
	t.Parallel()

	data := `
version: "1"
prefix: _special_
tag_key: acc
marker: placeholder
getter_prefix: get
setter_prefix: set
output: hashtable_gen.go
skip_support: true
types:
  - source: hashtableDecl
    target: Hashtable
  - source: bucketDecl
`

	f, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "_special_", f.Prefix)
	assert.Equal(t, "acc", f.TagKey)
	assert.Equal(t, "placeholder", f.Marker)
	assert.Equal(t, "get", f.GetterPrefix)
	assert.Equal(t, "set", f.SetterPrefix)
	assert.Equal(t, "hashtable_gen.go", f.Output)
	assert.True(t, f.SkipSupport)
	require.Len(t, f.Types, 2)
	assert.Equal(t, TypeSpec{Source: "hashtableDecl", Target: "Hashtable"}, f.Types[0])
	assert.Equal(t, TypeSpec{Source: "bucketDecl"}, f.Types[1])
}

func TestParseMinimal(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte("prefix: _special_\ntypes:\n  - source: hashtableDecl\n"))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "accessor", f.TagKey)
	assert.Equal(t, "unset", f.Marker)
	assert.Equal(t, "Get", f.GetterPrefix)
	assert.Equal(t, "Set", f.SetterPrefix)
	assert.Equal(t, "accessors_gen.go", f.Output)
	assert.False(t, f.SkipSupport)
}

func TestParseInvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("prefix: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	f := Default()
	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "accessor", f.TagKey)
	assert.Empty(t, f.Prefix)
	assert.Empty(t, f.Types)
}

func TestLoadAndWriteFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	orig := Default()
	orig.Prefix = "_special_"
	orig.Types = []TypeSpec{{Source: "hashtableDecl", Target: "Hashtable"}}

	require.NoError(t, WriteFile(fs, orig, "/cfg/accessors.yaml"))

	loaded, err := LoadFile(fs, "/cfg/accessors.yaml")
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nope.yaml")
}

func TestParseTypeSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    TypeSpec
		wantErr bool
	}{
		{in: "hashtableDecl=Hashtable", want: TypeSpec{Source: "hashtableDecl", Target: "Hashtable"}},
		{in: "hashtableDecl", want: TypeSpec{Source: "hashtableDecl"}},
		{in: " a = B ", want: TypeSpec{Source: "a", Target: "B"}},
		{in: "=B", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTypeSpec(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}

		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.want, mustParse(t, got.String()))
	}
}

func mustParse(t *testing.T, s string) TypeSpec {
	t.Helper()

	spec, err := ParseTypeSpec(s)
	require.NoError(t, err)

	return spec
}

func TestDeriveTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source  string
		want    string
		wantErr bool
	}{
		{source: "hashtableDecl", want: "Hashtable"},
		{source: "hashtable", want: "Hashtable"},
		{source: "HashtableDecl", want: "Hashtable"},
		{source: "Hashtable", wantErr: true},
		{source: "Decl", wantErr: true},
	}

	for _, tt := range tests {
		got, err := DeriveTarget(tt.source)
		if tt.wantErr {
			assert.Error(t, err, tt.source)
			continue
		}

		require.NoError(t, err, tt.source)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	f := Default()
	f.Types = []TypeSpec{
		{Source: "hashtableDecl"},
		{Source: "Plain"},
		{Source: "bucketDecl", Target: "Bucket"},
	}

	Normalize(f)

	assert.Equal(t, "Hashtable", f.Types[0].Target)
	assert.Empty(t, f.Types[1].Target)
	assert.Equal(t, "Bucket", f.Types[2].Target)
}

func validFile() *File {
	f := Default()
	f.Prefix = "_special_"
	f.Types = []TypeSpec{{Source: "hashtableDecl", Target: "Hashtable"}}

	return f
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(f *File)
		wantField string
		wantCode  string
	}{
		{name: "missing prefix", mutate: func(f *File) { f.Prefix = "" }, wantField: "prefix"},
		{name: "prefix not identifier", mutate: func(f *File) { f.Prefix = "9x" }, wantField: "prefix"},
		{name: "no types", mutate: func(f *File) { f.Types = nil }, wantField: "types"},
		{name: "bad version", mutate: func(f *File) { f.Version = "2" }, wantField: "version"},
		{name: "tag key with colon", mutate: func(f *File) { f.TagKey = "a:b" }, wantField: "tag_key"},
		{name: "marker with comma", mutate: func(f *File) { f.Marker = "un,set" }, wantField: "marker"},
		{name: "same accessor prefixes", mutate: func(f *File) { f.SetterPrefix = f.GetterPrefix }, wantField: "setter_prefix"},
		{name: "output not go", mutate: func(f *File) { f.Output = "gen.txt" }, wantField: "output"},
		{name: "output in subdir", mutate: func(f *File) { f.Output = "sub/gen.go" }, wantField: "output"},
		{
			name:      "source not identifier",
			mutate:    func(f *File) { f.Types[0].Source = "pkg.Decl" },
			wantField: "types[0].source",
		},
		{
			name:      "target equals source",
			mutate:    func(f *File) { f.Types[0].Target = f.Types[0].Source },
			wantField: "types[0].target",
		},
		{
			name:      "underivable target",
			mutate:    func(f *File) { f.Types = []TypeSpec{{Source: "Hashtable"}} },
			wantField: "target",
		},
		{
			name: "duplicate target",
			mutate: func(f *File) {
				f.Types = append(f.Types, TypeSpec{Source: "otherDecl", Target: "Hashtable"})
			},
			wantField: "target",
			wantCode:  diagnostic.CodeDuplicateTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := validFile()
			tt.mutate(f)

			res := Validate(f)
			require.True(t, res.HasErrors())

			code := tt.wantCode
			if code == "" {
				code = diagnostic.CodeInvalidConfig
			}

			var fields []string
			for _, d := range res.Errors {
				fields = append(fields, d.Field)
				assert.Equal(t, code, d.Code)
			}

			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	res := Validate(validFile())
	assert.False(t, res.HasErrors(), "%v", res.Error())
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(nil).HasErrors())
}
