package synth

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrEmptyPrefix is returned when synthesis is requested without a prefix.
	ErrEmptyPrefix = errors.New("prefix must not be empty")
	// ErrInvalidOptions is returned when an accessor prefix is not an identifier.
	ErrInvalidOptions = errors.New("accessor prefix must be a Go identifier")
	// ErrEmptySuffix is returned for a placeholder whose name equals the prefix.
	ErrEmptySuffix = errors.New("placeholder name has nothing after the prefix")
	// ErrInvalidSuffix is returned when the stripped name cannot name a field.
	ErrInvalidSuffix = errors.New("placeholder suffix is not a usable field name")
	// ErrNameCollision is returned when a derived name is already taken.
	ErrNameCollision = errors.New("derived name collides with an existing member")
)

// Error ties a synthesis failure to the class and attribute it came from.
type Error struct {
	Class     string
	Attribute string
	Detail    string
	Err       error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Class)

	if e.Attribute != "" {
		b.WriteString(".")
		b.WriteString(e.Attribute)
	}

	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Synthesize replaces every placeholder attribute of class with an accessor
// pair and returns the same class.
//
// Attributes that do not start with prefix, or that start with it but do not
// carry the unset marker, are left in place. On error the class is not
// modified; all problems found are joined into the returned error.
func Synthesize(class *Class, prefix string, opts Options) (*Class, error) {
	pairs, err := Plan(class, prefix, opts)
	if err != nil {
		return class, err
	}

	for _, p := range pairs {
		class.Accessors = append(class.Accessors, p)
		class.removeAttribute(p.Origin)
	}

	return class, nil
}

// Plan computes the accessor pairs Synthesize would attach, without
// modifying class.
func Plan(class *Class, prefix string, opts Options) ([]AccessorPair, error) {
	if prefix == "" {
		return nil, &Error{Class: class.Name, Err: ErrEmptyPrefix}
	}

	if !token.IsIdentifier(opts.GetterPrefix) || !token.IsIdentifier(opts.SetterPrefix) {
		return nil, &Error{
			Class:  class.Name,
			Detail: fmt.Sprintf("getter %q, setter %q", opts.GetterPrefix, opts.SetterPrefix),
			Err:    ErrInvalidOptions,
		}
	}

	// The loop below removes attributes, so walk a copy.
	snapshot := make([]Attribute, len(class.Attributes))
	copy(snapshot, class.Attributes)

	taken := make(map[string]string)

	for _, a := range snapshot {
		if !IsPlaceholder(a, prefix) {
			taken[a.Name] = "attribute " + a.Name
		}
	}

	for _, name := range class.Reserved {
		taken[name] = "method " + name
	}

	for _, p := range class.Accessors {
		owner := "accessor pair for " + p.Field
		taken[p.Field] = owner
		taken[p.Getter] = owner
		taken[p.Setter] = owner
	}

	var (
		pairs []AccessorPair
		errs  []error
	)

	for _, a := range snapshot {
		if !IsPlaceholder(a, prefix) {
			continue
		}

		suffix := strings.TrimPrefix(a.Name, prefix)

		switch {
		case suffix == "":
			errs = append(errs, &Error{Class: class.Name, Attribute: a.Name, Err: ErrEmptySuffix})

			continue
		case suffix == "_" || !token.IsIdentifier(suffix):
			errs = append(errs, &Error{
				Class:     class.Name,
				Attribute: a.Name,
				Detail:    fmt.Sprintf("suffix %q", suffix),
				Err:       ErrInvalidSuffix,
			})

			continue
		}

		getter, setter := AccessorNames(suffix, opts)
		pair := AccessorPair{
			Origin: a.Name,
			Field:  suffix,
			Type:   a.Type,
			Getter: getter,
			Setter: setter,
		}

		if clash := claim(taken, pair); clash != nil {
			clash.Class = class.Name
			clash.Attribute = a.Name
			errs = append(errs, clash)

			continue
		}

		pairs = append(pairs, pair)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return pairs, nil
}

// claim reserves the names of pair, or reports the first one already taken.
func claim(taken map[string]string, pair AccessorPair) *Error {
	names := []string{pair.Field, pair.Getter, pair.Setter}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return &Error{Detail: fmt.Sprintf("%q derived twice", n), Err: ErrNameCollision}
		}

		seen[n] = true

		if owner, ok := taken[n]; ok {
			return &Error{Detail: fmt.Sprintf("%q already used by %s", n, owner), Err: ErrNameCollision}
		}
	}

	owner := "accessor pair for " + pair.Field
	for _, n := range names {
		taken[n] = owner
	}

	return nil
}

// IsPlaceholder reports whether a is eligible for accessor synthesis.
func IsPlaceholder(a Attribute, prefix string) bool {
	return !a.Embedded && a.Unset && prefix != "" && strings.HasPrefix(a.Name, prefix)
}

// AccessorNames derives the getter and setter names for a storage field:
// the first rune of suffix is upper-cased and the configured prefixes are
// prepended.
func AccessorNames(suffix string, opts Options) (getter, setter string) {
	title := UpperFirst(suffix)

	return opts.GetterPrefix + title, opts.SetterPrefix + title
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
