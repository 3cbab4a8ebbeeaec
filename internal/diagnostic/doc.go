// Package diagnostic provides structured errors, warnings and infos for
// configuration validation and accessor resolution.
//
// Key capabilities:
//   - Unknown or ambiguous declaration types, with close-match suggestions
//   - Synthesis failures (empty suffix, name collisions)
//   - Warnings for marked fields that miss the prefix
package diagnostic
