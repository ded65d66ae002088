// Package importer maps OpenAPI 3 request bodies onto forms using
// kin-openapi. Only the top-level properties of an object schema become
// fields.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-genform/pkg/model"
	pkgopenapi "github.com/goliatone/go-genform/pkg/openapi"
	"github.com/goliatone/go-genform/pkg/validation"
)

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Importer implements pkgopenapi.Importer.
type Importer struct {
	options pkgopenapi.ImporterOptions
}

var _ pkgopenapi.Importer = (*Importer)(nil)

// New constructs an Importer with the given options.
func New(options pkgopenapi.ImporterOptions) *Importer {
	if options.Registry == nil {
		options.Registry = validation.NewDefaultRegistry()
	}
	return &Importer{options: options}
}

// Operations lists operations with a request body, sorted by path and method.
func (i *Importer) Operations(ctx context.Context, doc pkgopenapi.Document) ([]pkgopenapi.Operation, error) {
	spec, err := i.load(ctx, doc)
	if err != nil {
		return nil, err
	}
	var out []pkgopenapi.Operation
	walkOperations(spec, func(method, path string, op *openapi3.Operation) {
		if requestSchema(op) == nil {
			return
		}
		out = append(out, pkgopenapi.Operation{
			ID:      pkgopenapi.OperationID(op.OperationID, method, path),
			Method:  method,
			Path:    path,
			Summary: op.Summary,
		})
	})
	sort.Slice(out, func(a, b int) bool {
		if out[a].Path != out[b].Path {
			return out[a].Path < out[b].Path
		}
		return out[a].Method < out[b].Method
	})
	return out, nil
}

// Form builds the form for one operation.
func (i *Importer) Form(ctx context.Context, doc pkgopenapi.Document, operationID string) (model.Form, error) {
	spec, err := i.load(ctx, doc)
	if err != nil {
		return model.Form{}, err
	}

	var found *openapi3.Operation
	walkOperations(spec, func(method, path string, op *openapi3.Operation) {
		if found == nil && pkgopenapi.OperationID(op.OperationID, method, path) == operationID {
			found = op
		}
	})
	if found == nil {
		return model.Form{}, fmt.Errorf("openapi importer: operation %q not found", operationID)
	}

	schema := requestSchema(found)
	if schema == nil {
		return model.Form{}, fmt.Errorf("openapi importer: operation %q has no request body schema", operationID)
	}

	form := model.Form{
		Name:        operationID,
		Title:       found.Summary,
		Description: found.Description,
		SubmitLabel: stringExtension(found.Extensions, pkgopenapi.ExtensionSubmitLabel),
	}
	if form.Title == "" {
		form.Title = schema.Title
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	for _, name := range orderedProperties(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if ref.Value.ReadOnly {
			continue
		}
		field, err := i.field(name, ref.Value, required[name])
		if err != nil {
			return model.Form{}, fmt.Errorf("openapi importer: %s: property %q: %w", operationID, name, err)
		}
		form.Fields = append(form.Fields, field)
	}

	if err := form.Validate(); err != nil {
		return model.Form{}, fmt.Errorf("openapi importer: %w", err)
	}
	return form, nil
}

func (i *Importer) load(ctx context.Context, doc pkgopenapi.Document) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi importer: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi importer: load document: %w", err)
	}
	if i.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi importer: validate: %w", err)
		}
	}
	return spec, nil
}

func (i *Importer) field(name string, schema *openapi3.Schema, required bool) (model.Field, error) {
	label := schema.Title
	if label == "" {
		label = humanize(name)
	}
	field := model.Field{
		Name:           name,
		Label:          &model.Label{Text: label},
		ValidationMode: model.ValidationMode(stringExtension(schema.Extensions, pkgopenapi.ExtensionValidationMode)),
	}
	attrs := model.Attrs{}
	if schema.Description != "" {
		attrs["title"] = schema.Description
	}

	var specs []validation.Spec
	schemaType := firstSchemaType(schema.Type)

	switch {
	case schemaType == openapi3.TypeBoolean:
		field.Type = model.FieldTypeCheckbox
	case len(schema.Enum) > 0:
		field.Type = model.FieldTypeSelect
		field.Options = model.Options(schema.Enum...)
	case schema.Format == "textarea" || (schema.MaxLength != nil && *schema.MaxLength > pkgopenapi.TextareaThreshold):
		field.Type = model.FieldTypeTextarea
	default:
		field.Type = model.FieldTypeInput
		switch {
		case schema.Format == "email":
			attrs["type"] = "email"
			specs = append(specs, validation.Spec{Name: "email"})
		case schema.Format == "password":
			attrs["type"] = "password"
		case schemaType == openapi3.TypeInteger || schemaType == openapi3.TypeNumber:
			attrs["type"] = "number"
		}
	}

	if required {
		specs = append([]validation.Spec{{Name: "required"}}, specs...)
	}
	if field.Type == model.FieldTypeInput || field.Type == model.FieldTypeTextarea {
		if schema.MinLength > 0 {
			specs = append(specs, validation.Spec{Name: "minLength", Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)}})
		}
		if schema.MaxLength != nil {
			specs = append(specs, validation.Spec{Name: "maxLength", Params: map[string]string{"value": strconv.FormatUint(*schema.MaxLength, 10)}})
			attrs["maxlength"] = strconv.FormatUint(*schema.MaxLength, 10)
		}
		if schema.Pattern != "" {
			specs = append(specs, validation.Spec{Name: "pattern", Params: map[string]string{"pattern": schema.Pattern}})
		}
	}
	if len(attrs) > 0 {
		field.Attrs = attrs
	}

	validators, err := i.options.Registry.BuildAll(specs)
	if err != nil {
		return model.Field{}, err
	}
	field.Validators = validators
	return field, nil
}

func walkOperations(spec *openapi3.T, visit func(method, path string, op *openapi3.Operation)) {
	if spec == nil || spec.Paths == nil {
		return
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil {
				visit(strings.ToUpper(method), path, op)
			}
		}
	}
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return objectSchema(mt.Schema.Value)
		}
	}
	return nil
}

func objectSchema(schema *openapi3.Schema) *openapi3.Schema {
	if len(schema.Properties) == 0 {
		return nil
	}
	return schema
}

func orderedProperties(schema *openapi3.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	order := func(name string) (float64, bool) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			return 0, false
		}
		switch v := ref.Value.Extensions[pkgopenapi.ExtensionOrder].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		default:
			return 0, false
		}
	}
	sort.Slice(names, func(a, b int) bool {
		oa, hasA := order(names[a])
		ob, hasB := order(names[b])
		switch {
		case hasA && hasB && oa != ob:
			return oa < ob
		case hasA != hasB:
			return hasA
		default:
			return names[a] < names[b]
		}
	})
	return names
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func stringExtension(extensions map[string]any, key string) string {
	if value, ok := extensions[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// humanize turns "firstName" or "first_name" into "First name".
func humanize(name string) string {
	var b strings.Builder
	for idx, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && idx > 0:
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return out
	}
	runes := []rune(out)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
