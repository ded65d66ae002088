package formconfig

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/validation"
)

// Definition is the serialized shape of a form.
type Definition struct {
	Name        string            `yaml:"name" json:"name"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	SubmitLabel string            `yaml:"submitLabel,omitempty" json:"submitLabel,omitempty"`
	Fields      []FieldDefinition `yaml:"fields" json:"fields"`
}

// FieldDefinition is the serialized shape of a field.
type FieldDefinition struct {
	Name           string                `yaml:"name" json:"name"`
	Label          *LabelDefinition      `yaml:"label,omitempty" json:"label,omitempty"`
	Type           string                `yaml:"type" json:"type"`
	Attrs          map[string]string     `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	ValidationMode string                `yaml:"validationMode,omitempty" json:"validationMode,omitempty"`
	Options        []OptionDefinition    `yaml:"options,omitempty" json:"options,omitempty"`
	Validators     []ValidatorDefinition `yaml:"validators,omitempty" json:"validators,omitempty"`
}

// LabelDefinition accepts either a plain string or {text, attrs}.
type LabelDefinition struct {
	Text  string            `yaml:"text" json:"text"`
	Attrs map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

func (l *LabelDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Text = node.Value
		return nil
	}
	type plain LabelDefinition
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*l = LabelDefinition(out)
	return nil
}

// OptionDefinition accepts a bare scalar (the value) or {id, value, title}.
type OptionDefinition struct {
	ID    any `yaml:"id,omitempty" json:"id,omitempty"`
	Value any `yaml:"value" json:"value"`
	Title any `yaml:"title,omitempty" json:"title,omitempty"`
}

func (o *OptionDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var value any
		if err := node.Decode(&value); err != nil {
			return err
		}
		*o = OptionDefinition{Value: value}
		return nil
	}
	type plain OptionDefinition
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*o = OptionDefinition(out)
	return nil
}

// ValidatorDefinition accepts a bare validator name or {name, params, message}.
type ValidatorDefinition validation.Spec

func (v *ValidatorDefinition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = ValidatorDefinition{Name: node.Value}
		return nil
	}
	var spec validation.Spec
	if err := node.Decode(&spec); err != nil {
		return err
	}
	*v = ValidatorDefinition(spec)
	return nil
}

// Build resolves the definition into a form and checks its invariants.
func (d Definition) Build(registry *validation.Registry) (model.Form, error) {
	if registry == nil {
		return model.Form{}, errors.New("formconfig: validator registry is nil")
	}

	form := model.Form{
		Name:        d.Name,
		Title:       d.Title,
		Description: d.Description,
		SubmitLabel: d.SubmitLabel,
		Fields:      make([]model.Field, 0, len(d.Fields)),
	}
	for _, def := range d.Fields {
		field, err := def.build(registry)
		if err != nil {
			return model.Form{}, fmt.Errorf("formconfig: form %q: field %q: %w", d.Name, def.Name, err)
		}
		form.Fields = append(form.Fields, field)
	}

	if err := form.Validate(); err != nil {
		return model.Form{}, fmt.Errorf("formconfig: %w", err)
	}
	return form, nil
}

func (d FieldDefinition) build(registry *validation.Registry) (model.Field, error) {
	field := model.Field{
		Name:           d.Name,
		Type:           model.FieldType(d.Type),
		ValidationMode: model.ValidationMode(d.ValidationMode),
	}
	if len(d.Attrs) > 0 {
		field.Attrs = model.Attrs(d.Attrs)
	}
	if d.Label != nil {
		field.Label = &model.Label{Text: d.Label.Text}
		if len(d.Label.Attrs) > 0 {
			field.Label.Attrs = model.Attrs(d.Label.Attrs)
		}
	}
	for _, opt := range d.Options {
		field.Options = append(field.Options, model.SelectOption{ID: opt.ID, Value: opt.Value, Title: opt.Title})
	}

	specs := make([]validation.Spec, 0, len(d.Validators))
	for _, v := range d.Validators {
		specs = append(specs, validation.Spec(v))
	}
	validators, err := registry.BuildAll(specs)
	if err != nil {
		return model.Field{}, err
	}
	field.Validators = validators
	return field, nil
}
