package model

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError reports a descriptor that breaks a form invariant.
type SchemaError struct {
	Form   string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("model: form %q field %q: %s", e.Form, e.Field, e.Reason)
	default:
		return fmt.Sprintf("model: form %q: %s", e.Form, e.Reason)
	}
}

// Validate checks the descriptor list: names are present and unique, types
// and validation modes are known, select fields carry options and other kinds
// carry none. All problems are reported together.
func (f Form) Validate() error {
	var errs []error
	fail := func(field, reason string) {
		errs = append(errs, &SchemaError{Form: f.Name, Field: field, Reason: reason})
	}

	if strings.TrimSpace(f.Name) == "" {
		fail("", "form name is required")
	}

	seen := make(map[string]struct{}, len(f.Fields))
	for idx, field := range f.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			fail(fmt.Sprintf("#%d", idx), "field name is required")
			continue
		}
		if name != field.Name {
			fail(field.Name, "field name has surrounding whitespace")
		}
		if _, dup := seen[name]; dup {
			fail(name, "duplicate field name")
		}
		seen[name] = struct{}{}

		if !field.Type.Valid() {
			fail(name, fmt.Sprintf("unknown field type %q", field.Type))
		}
		if !field.ValidationMode.Valid() {
			fail(name, fmt.Sprintf("unknown validation mode %q", field.ValidationMode))
		}
		switch {
		case field.Type == FieldTypeSelect && len(field.Options) == 0:
			fail(name, "select field requires options")
		case field.Type != FieldTypeSelect && len(field.Options) > 0:
			fail(name, "options are only allowed on select fields")
		}
		for vIdx, validator := range field.Validators {
			if validator == nil {
				fail(name, fmt.Sprintf("validator #%d is nil", vIdx))
			}
		}
	}

	return errors.Join(errs...)
}
