// Package orchestrator wires form resolution (a built form, a declarative
// definition or an OpenAPI operation), optional transformation and rendering
// into a single Generate call.
package orchestrator
