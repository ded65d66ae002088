package orchestrator

import (
	"context"
	"errors"
	"fmt"

	internalImporter "github.com/goliatone/go-genform/internal/openapi/importer"
	internalLoader "github.com/goliatone/go-genform/internal/openapi/loader"
	"github.com/goliatone/go-genform/pkg/formconfig"
	"github.com/goliatone/go-genform/pkg/model"
	pkgopenapi "github.com/goliatone/go-genform/pkg/openapi"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/renderers/vanilla"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithImporter injects a custom OpenAPI importer.
func WithImporter(importer pkgopenapi.Importer) Option {
	return func(o *Orchestrator) {
		o.importer = importer
	}
}

// WithDefinitionLoader injects the loader used for declarative definitions.
func WithDefinitionLoader(loader *formconfig.Loader) Option {
	return func(o *Orchestrator) {
		o.definitions = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate forms after
// they are resolved and before they are validated and rendered.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator resolves forms and renders them.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	importer        pkgopenapi.Importer
	definitions     *formconfig.Loader
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	initialiseErr   error
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// built-in implementations: the internal OpenAPI loader and importer, a
// definition loader with the default validators and a registry holding the
// vanilla renderer.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes where a form comes from and how to render it. Exactly one
// of Form, Definition or an OpenAPI operation (Source or Document plus
// OperationID) is used, checked in that order.
type Request struct {
	// Form is an already built form.
	Form *model.Form

	// Definition is a YAML or JSON form definition.
	Definition []byte

	// Source identifies where the OpenAPI document lives. Optional when
	// Document is supplied.
	Source pkgopenapi.Source

	// Document allows callers to bypass the loader.
	Document *pkgopenapi.Document

	// OperationID selects the OpenAPI operation whose request body becomes the
	// form.
	OperationID string

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// RenderOptions carries prefilled values, errors and slots.
	RenderOptions render.RenderOptions
}

// Generate resolves the request's form and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Form resolves, transforms and validates the request's form without
// rendering it.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.Form, error) {
	if ctx == nil {
		return model.Form{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Form{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.Form{}, err
	}

	form, err := o.resolveForm(ctx, req)
	if err != nil {
		return model.Form{}, err
	}
	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.Form{}, err
	}
	if err := form.Validate(); err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: invalid form: %w", err)
	}
	return form, nil
}

// Operations lists the operations of the request's OpenAPI document that can
// be turned into forms.
func (o *Orchestrator) Operations(ctx context.Context, req Request) ([]pkgopenapi.Operation, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	operations, err := o.importer.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: list operations: %w", err)
	}
	return operations, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
}

func (o *Orchestrator) resolveForm(ctx context.Context, req Request) (model.Form, error) {
	switch {
	case req.Form != nil:
		form := *req.Form
		form.Fields = append([]model.Field(nil), form.Fields...)
		return form, nil
	case len(req.Definition) > 0:
		form, err := o.definitions.Parse(req.Definition)
		if err != nil {
			return model.Form{}, fmt.Errorf("orchestrator: parse definition: %w", err)
		}
		return form, nil
	}

	if req.OperationID == "" {
		return model.Form{}, errors.New("orchestrator: operation id is required")
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return model.Form{}, err
	}
	form, err := o.importer.Form(ctx, doc, req.OperationID)
	if err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: import operation: %w", err)
	}
	return form, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (pkgopenapi.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return pkgopenapi.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.Form) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.definitions == nil {
		o.definitions = formconfig.NewLoader()
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.importer == nil {
		o.importer = internalImporter.New(pkgopenapi.NewImporterOptions(
			pkgopenapi.WithValidatorRegistry(o.definitions.Registry()),
		))
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
