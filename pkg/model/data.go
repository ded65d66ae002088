package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldState is the live state of a single field.
type FieldState struct {
	Value     any      `json:"value"`
	Errors    []string `json:"errors,omitempty"`
	Validated bool     `json:"validated,omitempty"`
}

// FormData maps field names to their live state.
type FormData map[string]FieldState

// NewFormData seeds one entry per field. Values missing from values start at
// false for checkboxes and "" for every other kind.
func NewFormData(form Form, values map[string]any) FormData {
	data := make(FormData, len(form.Fields))
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			value = ZeroValue(field.Type)
		}
		data[field.Name] = FieldState{Value: value}
	}
	return data
}

// ZeroValue returns the initial value of a control kind.
func ZeroValue(kind FieldType) any {
	if kind == FieldTypeCheckbox {
		return false
	}
	return ""
}

// Value returns the current value of a field, or nil when absent.
func (d FormData) Value(name string) any {
	return d[name].Value
}

// SetValue replaces the value of a field, keeping its error list.
func (d FormData) SetValue(name string, value any) {
	state := d[name]
	state.Value = value
	d[name] = state
}

// SetErrors replaces the error list of a field. Empty lists are stored as nil.
func (d FormData) SetErrors(name string, errs []string) {
	state := d[name]
	if len(errs) == 0 {
		state.Errors = nil
	} else {
		state.Errors = append([]string(nil), errs...)
	}
	state.Validated = true
	d[name] = state
}

// Values flattens the data into name/value pairs.
func (d FormData) Values() map[string]any {
	out := make(map[string]any, len(d))
	for name, state := range d {
		out[name] = state.Value
	}
	return out
}

// Errors returns the error lists of failing fields only.
func (d FormData) Errors() map[string][]string {
	var out map[string][]string
	for name, state := range d {
		if len(state.Errors) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string][]string)
		}
		out[name] = append([]string(nil), state.Errors...)
	}
	return out
}

// Valid reports whether no field carries errors.
func (d FormData) Valid() bool {
	for _, state := range d {
		if len(state.Errors) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy safe to mutate independently.
func (d FormData) Clone() FormData {
	if d == nil {
		return nil
	}
	out := make(FormData, len(d))
	for name, state := range d {
		state.Errors = append([]string(nil), state.Errors...)
		if len(state.Errors) == 0 {
			state.Errors = nil
		}
		out[name] = state
	}
	return out
}

// CoerceValue converts a raw submitted string into the value type of the
// field kind. Checkboxes accept the usual truthy spellings; a missing
// checkbox submission should be passed as "".
func CoerceValue(kind FieldType, raw string) any {
	if kind != FieldTypeCheckbox {
		return raw
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "checked":
		return true
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return parsed
}

// StringValue renders a value for text controls.
func StringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// BoolValue interprets a value as a checkbox state.
func BoolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, _ := CoerceValue(FieldTypeCheckbox, v).(bool)
		return b
	default:
		return false
	}
}
