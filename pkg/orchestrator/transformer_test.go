package orchestrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/orchestrator"
	"github.com/goliatone/go-genform/pkg/testsupport"
)

func TestJSONPresetTransformerFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"presets/sample.json": {Data: []byte(`{
			"title": "Patched",
			"submitLabel": "Go",
			"fields": {
				"name": {"label": "Full name", "placeholder": "Grace Hopper", "validationMode": "lazy"},
				"bio": {"attrs": {"rows": "6"}, "rename": "about"}
			}
		}`)},
	}
	transformer, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "presets/sample.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	form := testsupport.SampleForm()
	originalLabel := form.Fields[0].Label
	if err := transformer.Transform(context.Background(), &form); err != nil {
		t.Fatalf("transform: %v", err)
	}

	if form.Title != "Patched" || form.SubmitLabel != "Go" {
		t.Fatalf("form metadata not patched: %q %q", form.Title, form.SubmitLabel)
	}
	name := form.Fields[0]
	if name.LabelText() != "Full name" {
		t.Fatalf("label = %q", name.LabelText())
	}
	if diff := cmp.Diff(map[string]string{"class": "label"}, map[string]string(name.Label.Attrs)); diff != "" {
		t.Fatalf("label attrs lost (-want +got):\n%s", diff)
	}
	if originalLabel.Text == "Full name" {
		t.Fatalf("original label mutated")
	}
	if name.Attrs["placeholder"] != "Grace Hopper" {
		t.Fatalf("placeholder = %q", name.Attrs["placeholder"])
	}
	if name.Mode() != model.ValidationModeLazy {
		t.Fatalf("mode = %q", name.Mode())
	}
	if form.Fields[1].Name != "about" || form.Fields[1].Attrs["rows"] != "6" {
		t.Fatalf("bio patch missing: %#v", form.Fields[1])
	}
}

func TestJSONPresetTransformer_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":         "  ",
		"malformed":     "{",
		"unknown key":   `{"metadata": {}}`,
		"bad mode":      `{"fields": {"name": {"validationMode": "sometimes"}}}`,
		"unknown field": `{"fields": {"missing": {"label": "x"}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			transformer, err := orchestrator.NewJSONPresetTransformer([]byte(doc))
			if err != nil {
				return
			}
			form := testsupport.SampleForm()
			if err := transformer.Transform(context.Background(), &form); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
