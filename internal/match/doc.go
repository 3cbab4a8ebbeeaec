// Package match provides identifier normalization, Levenshtein distance and
// close-match suggestions for diagnostics.
//
// Key functions:
//   - NormalizeIdent: folds identifiers for fuzzy comparison
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names against a misspelled one
package match
