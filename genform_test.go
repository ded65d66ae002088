package genform_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genform"
	"github.com/goliatone/go-genform/pkg/renderers/tui"
	"github.com/goliatone/go-genform/pkg/testsupport"
)

func TestNewRenderRegistry(t *testing.T) {
	registry, err := genform.NewRenderRegistry(tui.WithOutputFormat(tui.OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
	terminal, err := registry.Get("tui")
	if err != nil {
		t.Fatalf("get tui: %v", err)
	}
	if terminal.ContentType() != "text/plain" {
		t.Fatalf("tui content type = %q", terminal.ContentType())
	}

	if _, err := genform.NewRenderRegistry(tui.WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected unknown output format error")
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(genform.EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("form template: %v", err)
	}
	css, err := fs.ReadFile(genform.EmbeddedAssets(), "genform.css")
	if err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
	if !strings.Contains(string(css), ".genform") {
		t.Fatalf("unexpected stylesheet contents")
	}
}

func TestNewOrchestrator_RendersSampleForm(t *testing.T) {
	form := testsupport.SampleForm()

	output, err := genform.NewOrchestrator().Generate(testsupport.Context(), genform.Request{Form: &form})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), `data-form="sample"`) {
		t.Fatalf("unexpected output:\n%s", output)
	}
}
