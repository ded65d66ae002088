package components

import (
	"bytes"
	"fmt"
	"strings"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry constructs a registry with one component per field type.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{Renderer: templateComponentRenderer(templatePrefix + "input.tmpl")})
	registry.MustRegister(NameCheckbox, Descriptor{Renderer: templateComponentRenderer(templatePrefix + "checkbox.tmpl")})
	registry.MustRegister(NameSelect, Descriptor{Renderer: templateComponentRenderer(templatePrefix + "select.tmpl")})
	registry.MustRegister(NameTextarea, Descriptor{Renderer: templateComponentRenderer(templatePrefix + "textarea.tmpl")})
	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, view ControlView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, map[string]any{
			"field": view.Context(),
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(strings.TrimSpace(rendered))
		return nil
	}
}
