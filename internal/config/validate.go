package config

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"accessor-generator/internal/diagnostic"
)

// NewValidator returns a validator with the identifier and tag checks
// used by File registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("tagkey", func(fl validator.FieldLevel) bool {
		return isTagText(fl.Field().String(), ":")
	})
	_ = v.RegisterValidation("tagopt", func(fl validator.FieldLevel) bool {
		return isTagText(fl.Field().String(), ",")
	})

	return v
}

// isTagText reports whether s can appear in a struct tag without quoting
// and contains none of the extra separators.
func isTagText(s, separators string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r == '"' || unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(separators, r) {
			return false
		}
	}

	return true
}

// Validate checks f and reports every problem as an error diagnostic.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeInvalidConfig, "config is nil", "", "")
		return res
	}

	err := NewValidator().Struct(f)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			res.AddError(diagnostic.CodeInvalidConfig, describe(fe), "", fieldPath(fe))
		}
	} else if err != nil {
		res.AddError(diagnostic.CodeInvalidConfig, err.Error(), "", "")
	}

	seen := make(map[string]string)

	for _, t := range f.Types {
		if t.Target == "" {
			if _, derr := DeriveTarget(t.Source); derr != nil {
				res.AddError(diagnostic.CodeInvalidConfig, derr.Error(), t.Source, "target")
			}

			continue
		}

		if prev, ok := seen[t.Target]; ok {
			res.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("target %q is also generated from %q", t.Target, prev), t.Source, "target")

			continue
		}

		seen[t.Target] = t.Source
	}

	return res
}

// fieldPath drops the root struct name from the validator namespace,
// e.g. "File.types[0].source" -> "types[0].source".
func fieldPath(fe validator.FieldError) string {
	_, rest, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}

	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "goident":
		return fmt.Sprintf("%q is not a Go identifier", fe.Value())
	case "tagkey", "tagopt":
		return fmt.Sprintf("%q cannot be used in a struct tag", fe.Value())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not one of [%s]", fe.Value(), fe.Param())
	case "endswith":
		return fmt.Sprintf("%q must end with %s", fe.Value(), fe.Param())
	case "excludes":
		return fmt.Sprintf("%q must not contain %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
