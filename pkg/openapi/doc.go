// Package openapi exposes the contracts for turning an OpenAPI 3 operation
// into a form: sources, loaded documents, and the importer that maps a
// request body schema onto fields. Implementations live under
// internal/openapi so kin-openapi stays out of the public API.
package openapi
