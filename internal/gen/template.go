package gen

import "text/template"

// accessorTemplate relies on go/format to collapse the extra blank lines.
var accessorTemplate = template.Must(template.New("accessors").Parse(`// Code generated by accessor-generator. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Classes}}{{$c := .}}
{{if $.GenerateComments}}// {{.Target}} is generated from {{.Source}}.
{{end}}type {{.Target}} struct {
{{range .Fields}}	{{if not .Embedded}}{{.Name}} {{end}}{{.Type}}{{if .Tag}} {{.Tag}}{{end}}
{{end}}{{if and .Fields .Storage}}
{{end}}{{range .Storage}}	{{.Name}} *{{.Type}}
{{end}}}
{{range .Accessors}}
{{if $.GenerateComments}}// {{.Getter}} returns {{.Field}}, or an *AttributeMissingError if it was never set.
{{end}}func ({{$c.Recv}} *{{$c.Target}}) {{.Getter}}() ({{.Type}}, error) {
	if {{$c.Recv}}.{{.Field}} == nil {
		var zero {{.Type}}
		return zero, &AttributeMissingError{Type: "{{$c.Target}}", Field: "{{.Field}}"}
	}

	return *{{$c.Recv}}.{{.Field}}, nil
}

{{if $.GenerateComments}}// {{.Setter}} sets {{.Field}} and returns {{$c.Recv}} for chaining.
{{end}}func ({{$c.Recv}} *{{$c.Target}}) {{.Setter}}(value {{.Type}}) *{{$c.Target}} {
	{{$c.Recv}}.{{.Field}} = &value
	return {{$c.Recv}}
}
{{end}}{{end}}
{{if .EmitSupport}}
// ErrAttributeMissing is matched by every *AttributeMissingError.
var ErrAttributeMissing = {{.ErrorsPkg}}.New("attribute missing")

// AttributeMissingError is returned by a getter whose field was never set.
type AttributeMissingError struct {
	Type  string
	Field string
}

func (e *AttributeMissingError) Error() string {
	return {{.FmtPkg}}.Sprintf("%s.%s: %v", e.Type, e.Field, ErrAttributeMissing)
}

// Is reports whether target is ErrAttributeMissing.
func (e *AttributeMissingError) Is(target error) bool {
	return target == ErrAttributeMissing
}
{{end}}`))
