// Package analyze loads Go packages and extracts the struct declarations the
// generator works from.
//
// It uses golang.org/x/tools/go/packages with go/types to build an in-memory
// model of every named type in the loaded packages, exported or not.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/external)
//   - FieldInfo: field name, type expression as written in the declaring
//     package, raw tag and the imports the expression needs
//
// ToClass turns a struct TypeInfo into the synth.Class consumed by
// accessor synthesis, flagging fields that carry the unset Marker.
package analyze
