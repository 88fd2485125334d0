// Package plan computes mapping plans.
//
// A Planner takes two shapes, a plan kind and a policy descriptor and runs
// the policy strategies in order:
//   - UseConstructors picks the public constructor with the most parameters
//     that the source can satisfy (a value shape only tries its primary
//     constructor), falling back to a parameterless one
//   - UseStaticFactories does the same over static factories
//   - UseSetters matches the remaining destination members by name
//
// Nested and collection members are bridged through mappers found in the
// registry. The result is a MappingPlan with its own diagnostics; planning
// never returns an error.
package plan
