package components

import "github.com/goliatone/go-genform/pkg/model"

// Canonical component names used by the default registry. They match the
// field types one to one.
const (
	NameInput    = string(model.FieldTypeInput)
	NameCheckbox = string(model.FieldTypeCheckbox)
	NameSelect   = string(model.FieldTypeSelect)
	NameTextarea = string(model.FieldTypeTextarea)
)
