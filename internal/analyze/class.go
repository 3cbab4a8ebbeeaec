package analyze

import (
	"fmt"

	"accessor-generator/internal/synth"
)

// Marker identifies the unset sentinel on a struct field: a tag key and the
// option that must appear in its comma-separated value.
type Marker struct {
	TagKey string
	Value  string
}

// IsSet reports whether f carries the marker.
func (m Marker) IsSet(f *FieldInfo) bool {
	return m.TagKey != "" && f.TagHas(m.TagKey, m.Value)
}

// ToClass converts a struct declaration into a class for synthesis.
func ToClass(info *TypeInfo, marker Marker) (*synth.Class, error) {
	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", info.ID, info.Kind)
	}

	if info.Generic {
		return nil, fmt.Errorf("type %s has type parameters", info.ID)
	}

	class := &synth.Class{
		Name:       info.ID.Name,
		Attributes: make([]synth.Attribute, 0, len(info.Fields)),
	}

	for i := range info.Fields {
		f := &info.Fields[i]

		class.Attributes = append(class.Attributes, synth.Attribute{
			Name:     f.Name,
			Type:     f.TypeExpr,
			Tag:      string(f.Tag),
			Embedded: f.Embedded,
			Unset:    marker.IsSet(f),
		})
	}

	return class, nil
}
