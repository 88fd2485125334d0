// Package registry holds the mapper definitions of a run.
//
// A Builder collects explicit definitions, validates them against the
// shape catalog and synthesizes implicit placeholder mappers for DTO shapes.
// Build returns an immutable Snapshot that the planner queries to decide
// whether two types are bridged by a mapper.
package registry
