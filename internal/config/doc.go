// Package config provides the YAML configuration of the accessor generator.
//
// The file has the following structure:
//
//	version: "1"
//	prefix: _special_        # required, matched literally against field names
//	tag_key: accessor        # struct tag key holding the unset marker
//	marker: unset            # marker option, e.g. `accessor:"unset"`
//	getter_prefix: Get       # Get<Suffix>() (T, error)
//	setter_prefix: Set       # Set<Suffix>(T) *Target
//	output: accessors_gen.go # generated file, one per package
//	skip_support: false      # do not emit AttributeMissingError support code
//	types:
//	  - source: hashtableDecl
//	    target: Hashtable    # optional, derived from source
//
// Unset keys take the defaults shown. When a target is omitted it is derived
// from the source by trimming a "Decl" suffix and upper-casing the first rune.
package config
