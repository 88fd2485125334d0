// Package pipeline plans every mapper of a registry snapshot.
//
// For a definition mapping S to D, three plans are built:
//   - projection: S -> D
//   - creation: D -> S
//   - modification: D -> S
//
// Mappers are planned concurrently on a bounded worker pool. A fault while
// planning one mapper is reported as an unexpected-error diagnostic scoped to
// that mapper; the other mappers are unaffected. Reports list mappers in
// registry order regardless of scheduling.
package pipeline
