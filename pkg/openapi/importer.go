package openapi

import (
	"context"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/validation"
)

// Schema extensions read by the importer.
const (
	// ExtensionOrder orders properties; lower values come first and unordered
	// properties follow alphabetically.
	ExtensionOrder = "x-order"
	// ExtensionValidationMode sets the field's validation mode.
	ExtensionValidationMode = "x-validation-mode"
	// ExtensionSubmitLabel on an operation sets the form's submit label.
	ExtensionSubmitLabel = "x-submit-label"
)

// TextareaThreshold is the maxLength above which strings become textareas.
const TextareaThreshold = 255

// Importer derives forms from OpenAPI operations.
type Importer interface {
	Operations(ctx context.Context, doc Document) ([]Operation, error)
	Form(ctx context.Context, doc Document, operationID string) (model.Form, error)
}

// ImporterOptions configures an Importer.
type ImporterOptions struct {
	// ResolveReferences allows external $ref pointers and validates the
	// document after loading.
	ResolveReferences bool
	// Registry builds the validators derived from schema constraints.
	Registry *validation.Registry
}

// ImporterOption mutates ImporterOptions during construction.
type ImporterOption func(*ImporterOptions)

// WithReferenceResolution toggles external reference resolution.
func WithReferenceResolution(enabled bool) ImporterOption {
	return func(opts *ImporterOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithValidatorRegistry overrides the registry used to build validators.
func WithValidatorRegistry(registry *validation.Registry) ImporterOption {
	return func(opts *ImporterOptions) {
		if registry != nil {
			opts.Registry = registry
		}
	}
}

// NewImporterOptions applies options over the defaults.
func NewImporterOptions(options ...ImporterOption) ImporterOptions {
	cfg := ImporterOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Registry == nil {
		cfg.Registry = validation.NewDefaultRegistry()
	}
	return cfg
}
