// Package validation runs field validators according to each field's
// validation-timing mode. Triggers model the moments a value can be checked:
// change, blur and submit. Eager fields validate on every trigger, blur fields
// on blur and submit, lazy fields on submit only.
package validation
