package components_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/renderers/vanilla/components"
)

func TestDefaultRegistry_OneComponentPerFieldType(t *testing.T) {
	registry := components.NewDefaultRegistry()

	var want []string
	for _, kind := range model.FieldTypes() {
		want = append(want, string(kind))
	}
	got := registry.Names()
	if diff := cmp.Diff([]string{"checkbox", "input", "select", "textarea"}, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if _, ok := registry.Descriptor(name); !ok {
			t.Fatalf("missing component %q", name)
		}
	}
}

func TestRegistry_RegisterValidates(t *testing.T) {
	registry := components.New()
	if err := registry.Register(" ", components.Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := registry.Register("input", components.Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.Register(" Input ", components.Descriptor{Renderer: noop}); err != nil {
		t.Fatalf("register: %v", err)
	}
	descriptor, ok := registry.Descriptor("input")
	if !ok || descriptor.Name != "input" {
		t.Fatalf("descriptor not normalised: %+v", descriptor)
	}
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	base := components.New()
	base.MustRegister("input", components.Descriptor{Renderer: noop})

	clone := base.Clone()
	clone.MustRegister("rating", components.Descriptor{Renderer: noop})

	if _, ok := base.Descriptor("rating"); ok {
		t.Fatalf("clone leaked into base registry")
	}
	if diff := cmp.Diff([]string{"input", "rating"}, clone.Names()); diff != "" {
		t.Fatalf("clone names mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateComponentRequiresTemplateRenderer(t *testing.T) {
	registry := components.NewDefaultRegistry()
	descriptor, _ := registry.Descriptor("input")

	var buf bytes.Buffer
	err := descriptor.Renderer(&buf, components.ControlView{}, components.ComponentData{})
	if err == nil {
		t.Fatalf("expected error without template renderer")
	}
}

func TestNewControlView(t *testing.T) {
	field := model.Field{
		Name:           "color",
		Type:           model.FieldTypeSelect,
		Options:        []model.SelectOption{{ID: "r", Value: "red", Title: "Red"}, {Value: "blue"}},
		Attrs:          model.Attrs{"data-x": "1", "name": "ignored", "on click": "x"},
		ValidationMode: model.ValidationModeBlur,
	}

	view := components.NewControlView(field, model.FieldState{Value: "blue", Errors: []string{"bad"}})

	want := components.ControlView{
		Name:  "color",
		Type:  "select",
		ID:    "fg-color",
		Value: "blue",
		Mode:  "blur",
		Attrs: []components.Attr{{Name: "data-x", Value: "1"}},
		Options: []components.OptionView{
			{ID: "fg-color-r", Value: "red", Title: "Red"},
			{ID: "fg-color-blue", Value: "blue", Title: "blue", Selected: true},
		},
		Errors:   []string{"bad"},
		ErrorsID: "fg-color-errors",
	}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

func noop(*bytes.Buffer, components.ControlView, components.ComponentData) error { return nil }
