// Package synth turns placeholder attributes of a class declaration into
// getter/setter accessor pairs.
//
// A Class is an ordered list of declared attributes. An attribute is a
// placeholder when its name starts with the configured prefix and it carries
// the unset marker. For every placeholder, Synthesize:
//   - strips the prefix to obtain the storage field name (the suffix)
//   - attaches an AccessorPair named Get<Suffix>/Set<Suffix>
//   - removes the placeholder attribute from the class
//
// Synthesis validates the whole class before touching it, so a failed call
// leaves the class unchanged.
package synth
