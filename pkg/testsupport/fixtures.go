// Package testsupport holds helpers shared by package tests: golden file
// handling, template output capture and small form fixtures.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/validation"
)

// UpdateGoldens reports whether golden files should be rewritten.
func UpdateGoldens() bool {
	return os.Getenv("UPDATE_GOLDENS") != ""
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if !UpdateGoldens() {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if !UpdateGoldens() {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// SampleForm returns a form with one field per type and every validation
// mode, used by renderer and site tests.
func SampleForm() model.Form {
	return model.Form{
		Name:        "sample",
		Title:       "Sample",
		SubmitLabel: "Send",
		Fields: []model.Field{
			{
				Name:       "name",
				Label:      &model.Label{Text: "Name", Attrs: model.Attrs{"class": "label"}},
				Type:       model.FieldTypeInput,
				Attrs:      model.Attrs{"placeholder": "Your name"},
				Validators: []model.Validator{validation.Required("Name is required")},
			},
			{
				Name:           "bio",
				Label:          &model.Label{Text: "Bio"},
				Type:           model.FieldTypeTextarea,
				ValidationMode: model.ValidationModeBlur,
				Validators:     []model.Validator{validation.MaxLength(20)},
			},
			{
				Name:    "color",
				Label:   &model.Label{Text: "Color"},
				Type:    model.FieldTypeSelect,
				Options: model.Options("red", "green", 3),
			},
			{
				Name:           "terms",
				Label:          &model.Label{Text: "Accept terms"},
				Type:           model.FieldTypeCheckbox,
				ValidationMode: model.ValidationModeLazy,
				Validators:     []model.Validator{validation.Checked("You must accept")},
			},
		},
	}
}

// MustValidForm fails the test when form breaks schema invariants.
func MustValidForm(t *testing.T, form model.Form) model.Form {
	t.Helper()
	if err := form.Validate(); err != nil {
		t.Fatalf("form %q: %v", form.Name, err)
	}
	return form
}

// FieldNames returns the names of form's fields, for diff-friendly
// assertions.
func FieldNames(form model.Form) []string {
	names := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		names = append(names, fmt.Sprintf("%s:%s", field.Name, field.Type))
	}
	return names
}
