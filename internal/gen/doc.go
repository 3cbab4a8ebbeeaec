// Package gen provides deterministic Go code generation for accessor pairs.
//
// Generation approach uses text/template + go/format.
//
// For every resolved class the output file contains:
//   - the target struct: surviving attributes verbatim, then one pointer
//     storage field per accessor pair
//   - Get<Field>() (T, error), failing with *AttributeMissingError when unset
//   - Set<Field>(T) *Target, returning the receiver for chaining
//
// The AttributeMissingError support code is emitted once per package.
package gen
