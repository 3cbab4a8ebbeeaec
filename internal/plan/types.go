package plan

import (
	"accessor-generator/internal/analyze"
	"accessor-generator/internal/diagnostic"
	"accessor-generator/internal/synth"
)

// AccessorPlan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type AccessorPlan struct {
	// Packages holds one entry per package receiving generated code,
	// ordered by import path.
	Packages []PackagePlan
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Classes returns every resolved class across all packages.
func (p *AccessorPlan) Classes() []ClassPlan {
	var all []ClassPlan
	for _, pkg := range p.Packages {
		all = append(all, pkg.Classes...)
	}

	return all
}

// PackagePlan is the generated output of one package.
type PackagePlan struct {
	Path   string // Import path
	Name   string // Package name
	Dir    string // Directory the output file is written to
	Output string // Output file name
	// EmitSupport adds the AttributeMissingError support code to the output.
	EmitSupport bool
	// Classes in configuration order.
	Classes []ClassPlan
}

// ClassPlan is one declaration struct after accessor synthesis.
type ClassPlan struct {
	// Source is the declaration struct.
	Source analyze.TypeID
	// Target is the name of the generated struct.
	Target string
	// Class holds the surviving attributes and the attached accessor pairs.
	Class *synth.Class
	// Imports are the packages referenced by the field types, sorted by path.
	Imports []analyze.ImportSpec
}
