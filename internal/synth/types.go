package synth

import "slices"

// Attribute is a single declared member of a Class.
type Attribute struct {
	Name     string // Declared name, e.g. "_special_expandRate"
	Type     string // Go type expression as written in generated code
	Tag      string // Raw struct tag, without backquotes
	Embedded bool   // Embedded fields are never placeholders
	Unset    bool   // Carries the unset marker
}

// AccessorPair is the generated getter and setter for one placeholder.
type AccessorPair struct {
	Origin string // Placeholder name the pair replaced
	Field  string // Storage field name (prefix stripped)
	Type   string // Value type of the field
	Getter string
	Setter string
}

// Class is the declaration being transformed.
type Class struct {
	Name       string
	Attributes []Attribute
	Accessors  []AccessorPair
	// Reserved are member names declared outside the class body, such as
	// methods written by hand on the generated type.
	Reserved []string
}

// Attribute returns the attribute with the given name.
func (c *Class) Attribute(name string) (Attribute, bool) {
	i := c.attributeIndex(name)
	if i < 0 {
		return Attribute{}, false
	}

	return c.Attributes[i], true
}

// HasMember reports whether name is taken by an attribute, a storage field
// or an accessor method of the class.
func (c *Class) HasMember(name string) bool {
	if c.attributeIndex(name) >= 0 || slices.Contains(c.Reserved, name) {
		return true
	}

	for _, p := range c.Accessors {
		if p.Field == name || p.Getter == name || p.Setter == name {
			return true
		}
	}

	return false
}

// Accessor returns the accessor pair stored under field.
func (c *Class) Accessor(field string) (AccessorPair, bool) {
	for _, p := range c.Accessors {
		if p.Field == field {
			return p, true
		}
	}

	return AccessorPair{}, false
}

// Clone returns a deep copy of the class.
func (c *Class) Clone() *Class {
	return &Class{
		Name:       c.Name,
		Attributes: slices.Clone(c.Attributes),
		Accessors:  slices.Clone(c.Accessors),
		Reserved:   slices.Clone(c.Reserved),
	}
}

func (c *Class) attributeIndex(name string) int {
	return slices.IndexFunc(c.Attributes, func(a Attribute) bool {
		return a.Name == name
	})
}

func (c *Class) removeAttribute(name string) {
	if i := c.attributeIndex(name); i >= 0 {
		c.Attributes = slices.Delete(c.Attributes, i, i+1)
	}
}

// Options controls how accessor names are derived.
type Options struct {
	GetterPrefix string
	SetterPrefix string
}

// DefaultOptions returns exported Get/Set accessor naming.
func DefaultOptions() Options {
	return Options{
		GetterPrefix: "Get",
		SetterPrefix: "Set",
	}
}
