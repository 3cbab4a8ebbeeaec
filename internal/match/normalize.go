package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy comparison: lower case, with
// '_' and '-' separators removed. "hashtable_decl", "HashtableDecl" and
// "hashtableDecl" all normalize to "hashtabledecl".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == '_' || r == '-' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
