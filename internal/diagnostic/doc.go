// Package diagnostic provides structured, severity-tagged outcomes of
// mapper planning.
//
// Every diagnostic is created from a Kind carrying a stable code and message
// template:
//   - PR0001 unexpected fault while planning one mapper
//   - PR0002 mapper generation failed (reserved)
//   - PR0003 no valid creation method
//   - PR0004 unmappable constructor parameter
//   - PR0005 unmapped destination member
package diagnostic
