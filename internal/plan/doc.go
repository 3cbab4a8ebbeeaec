// Package plan provides the resolution pipeline that produces the
// AccessorPlan consumed by code generation.
//
// Resolution pipeline:
//  1. Analyze packages → type graph
//  2. Load YAML and flags → validate
//  3. For each configured declaration:
//     - find the struct in the loaded packages
//     - convert it to a synth.Class and run accessor synthesis
//     - check the target name is free in its package
//  4. Group the synthesized classes by package for generation
//  5. Emit diagnostics (unknown types, collisions, unmarked prefixed fields)
package plan
