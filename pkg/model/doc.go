// Package model defines the declarative form schema consumed by validators and
// renderers. A Form is an ordered list of Field descriptors; each descriptor
// names its control kind (input, checkbox, select, textarea), optional label,
// HTML attributes, validators and the validation-timing mode that decides when
// those validators run. FormData carries the per-field value and error state
// while a form is being edited or submitted.
//
// Error lists follow one rule throughout the module: a nil slice means "no
// failures", never an empty slice. FieldState.Validated records whether the
// validators have run at least once, so "not yet validated" and "validated and
// passed" stay distinguishable.
package model
