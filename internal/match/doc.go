// Package match ranks near-miss member names.
//
// The planner matches members by exact (case-insensitive) name only. When a
// destination member or constructor parameter stays unmapped, this package
// scores the unused source members against it so diagnostics can say
// "did you mean ...".
//
// Key functions:
//   - Normalize: folds an identifier to lowercase, separator-free form
//   - Distance / Similarity: rune-based edit distance and its 0..1 score
//   - Compatibility: compares two analyze.TypeRef values
//   - Rank / Suggest: orders candidate members for a target
package match
