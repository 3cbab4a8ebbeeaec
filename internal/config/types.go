package config

import (
	"fmt"
	"strings"

	"accessor-generator/internal/synth"
)

// DeclSuffix is trimmed from a source name when its target is derived.
const DeclSuffix = "Decl"

// File is the accessor generator configuration.
type File struct {
	Version      string     `yaml:"version" default:"1" validate:"oneof=1"`
	Prefix       string     `yaml:"prefix" validate:"required,goident"`
	TagKey       string     `yaml:"tag_key,omitempty" default:"accessor" validate:"required,tagkey"`
	Marker       string     `yaml:"marker,omitempty" default:"unset" validate:"required,tagopt"`
	GetterPrefix string     `yaml:"getter_prefix,omitempty" default:"Get" validate:"required,goident"`
	SetterPrefix string     `yaml:"setter_prefix,omitempty" default:"Set" validate:"required,goident,nefield=GetterPrefix"`
	Output       string     `yaml:"output,omitempty" default:"accessors_gen.go" validate:"required,endswith=.go,excludes=/"`
	SkipSupport  bool       `yaml:"skip_support,omitempty"`
	Types        []TypeSpec `yaml:"types" validate:"required,min=1,dive"`
}

// TypeSpec names a declaration struct and the type generated from it.
type TypeSpec struct {
	Source string `yaml:"source" validate:"required,goident"`
	Target string `yaml:"target,omitempty" validate:"omitempty,goident,nefield=Source"`
}

// String returns "source=target".
func (t TypeSpec) String() string {
	if t.Target == "" {
		return t.Source
	}

	return t.Source + "=" + t.Target
}

// SynthOptions returns the accessor naming options of the file.
func (f *File) SynthOptions() synth.Options {
	return synth.Options{
		GetterPrefix: f.GetterPrefix,
		SetterPrefix: f.SetterPrefix,
	}
}

// ParseTypeSpec parses the command line form "source[=target]".
func ParseTypeSpec(s string) (TypeSpec, error) {
	source, target, _ := strings.Cut(strings.TrimSpace(s), "=")

	spec := TypeSpec{
		Source: strings.TrimSpace(source),
		Target: strings.TrimSpace(target),
	}
	if spec.Source == "" {
		return TypeSpec{}, fmt.Errorf("type spec %q has no source", s)
	}

	return spec, nil
}

// DeriveTarget returns the generated type name for a declaration called source.
func DeriveTarget(source string) (string, error) {
	target := source
	if trimmed := strings.TrimSuffix(source, DeclSuffix); trimmed != "" {
		target = trimmed
	}

	target = synth.UpperFirst(target)
	if target == source {
		return "", fmt.Errorf("cannot derive a target name from %q; set one explicitly", source)
	}

	return target, nil
}
