// Package genform generates HTML forms and terminal prompt sessions from
// declarative field configurations. Forms come from Go literals, YAML/JSON
// definitions or OpenAPI request bodies; fields validate eagerly, on blur or
// only on submit.
package genform

import (
	internalImporter "github.com/goliatone/go-genform/internal/openapi/importer"
	internalLoader "github.com/goliatone/go-genform/internal/openapi/loader"
	"github.com/goliatone/go-genform/pkg/formconfig"
	pkgopenapi "github.com/goliatone/go-genform/pkg/openapi"
	"github.com/goliatone/go-genform/pkg/orchestrator"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/renderers/tui"
	"github.com/goliatone/go-genform/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides renderers use to prefill
// values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request is an orchestrator request.
type Request = orchestrator.Request

// NewLoader constructs an OpenAPI loader backed by the internal
// implementation.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewImporter constructs an OpenAPI importer backed by the internal
// implementation.
func NewImporter(options ...pkgopenapi.ImporterOption) pkgopenapi.Importer {
	return internalImporter.New(pkgopenapi.NewImporterOptions(options...))
}

// NewFormLoader constructs a loader for YAML/JSON form definitions.
func NewFormLoader(options ...formconfig.Option) *formconfig.Loader {
	return formconfig.NewLoader(options...)
}

// NewRenderRegistry returns a registry holding the vanilla HTML renderer and
// the terminal renderer configured with tuiOptions.
func NewRenderRegistry(tuiOptions ...tui.Option) (*render.Registry, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}

	terminal, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(terminal); err != nil {
		return nil, err
	}
	return registry, nil
}

// NewOrchestrator constructs an orchestrator with the built-in loader,
// importer and renderers unless options override them.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}
