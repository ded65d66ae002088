package model

import "strings"

// FieldType is the discriminator for the rendered control kind.
type FieldType string

const (
	FieldTypeInput    FieldType = "input"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeTextarea FieldType = "textarea"
)

// FieldTypes lists the supported control kinds in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{FieldTypeInput, FieldTypeCheckbox, FieldTypeSelect, FieldTypeTextarea}
}

// Valid reports whether t is one of the supported control kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeInput, FieldTypeCheckbox, FieldTypeSelect, FieldTypeTextarea:
		return true
	default:
		return false
	}
}

// ValidationMode controls when a field's validators run.
//
//   - eager: on every change
//   - blur: when the control loses focus
//   - lazy: only on submit
type ValidationMode string

const (
	ValidationModeEager ValidationMode = "eager"
	ValidationModeBlur  ValidationMode = "blur"
	ValidationModeLazy  ValidationMode = "lazy"
)

// Resolve returns the effective mode; the zero value behaves as eager.
func (m ValidationMode) Resolve() ValidationMode {
	if strings.TrimSpace(string(m)) == "" {
		return ValidationModeEager
	}
	return m
}

// Valid reports whether m (after resolving the default) is a known mode.
func (m ValidationMode) Valid() bool {
	switch m.Resolve() {
	case ValidationModeEager, ValidationModeBlur, ValidationModeLazy:
		return true
	default:
		return false
	}
}

// Attrs holds extra HTML attributes rendered on a control or label.
type Attrs map[string]string

// Validator inspects a field value together with the whole form and returns an
// error message, or the empty string when the value is acceptable.
type Validator func(value any, data FormData) string

// Label describes the text and attributes of a field label.
type Label struct {
	Text  string `json:"text" yaml:"text"`
	Attrs Attrs  `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// SelectOption is a single entry of a select control.
type SelectOption struct {
	ID    any `json:"id,omitempty" yaml:"id,omitempty"`
	Value any `json:"value" yaml:"value"`
	Title any `json:"title,omitempty" yaml:"title,omitempty"`
}

// Field describes one form control. Options are only meaningful for select
// fields and are required there.
type Field struct {
	Name           string         `json:"name"`
	Label          *Label         `json:"label,omitempty"`
	Type           FieldType      `json:"type"`
	Attrs          Attrs          `json:"attrs,omitempty"`
	Options        []SelectOption `json:"options,omitempty"`
	Validators     []Validator    `json:"-"`
	ValidationMode ValidationMode `json:"validationMode,omitempty"`
}

// LabelText returns the label text or the empty string.
func (f Field) LabelText() string {
	if f.Label == nil {
		return ""
	}
	return strings.TrimSpace(f.Label.Text)
}

// Mode returns the effective validation mode of the field.
func (f Field) Mode() ValidationMode {
	return f.ValidationMode.Resolve()
}

// Form is the declarative configuration rendered by the generator.
type Form struct {
	Name        string  `json:"name"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	SubmitLabel string  `json:"submitLabel,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field looks up a descriptor by name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns field names in declaration order.
func (f Form) Names() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}
