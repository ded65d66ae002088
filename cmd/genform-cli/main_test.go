package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testOptions() options {
	return options{
		form:     "basic",
		renderer: "vanilla",
		format:   "json",
		timeout:  time.Second,
		logLevel: "error",
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRun_ListsDemoForms(t *testing.T) {
	opts := testOptions()
	opts.list = true
	var out bytes.Buffer

	if err := run(opts, quietLogger(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"basic", "submit-handler", "custom-slots"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("listing missing %q:\n%s", name, out.String())
		}
	}
}

func TestRun_RendersDemoFormWithData(t *testing.T) {
	opts := testOptions()
	opts.data = `{"firstName":"Ada","newsletter":true}`
	var out bytes.Buffer

	if err := run(opts, quietLogger(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	html := out.String()
	if !strings.Contains(html, `data-form="basic"`) || !strings.Contains(html, `value="Ada"`) {
		t.Fatalf("unexpected output:\n%s", html)
	}
}

func TestRun_DefinitionFileWithPreset(t *testing.T) {
	dir := t.TempDir()
	definition := filepath.Join(dir, "contact.yaml")
	preset := filepath.Join(dir, "preset.json")
	output := filepath.Join(dir, "out.html")
	writeFile(t, definition, "name: contact\nfields:\n  - name: email\n    label: Email\n    type: input\n")
	writeFile(t, preset, `{"fields": {"email": {"label": "Work email"}}}`)

	opts := testOptions()
	opts.file = definition
	opts.preset = preset
	opts.output = output

	if err := run(opts, quietLogger(), io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(raw), "Work email") {
		t.Fatalf("preset not applied:\n%s", raw)
	}
}

func TestRun_ListsOperations(t *testing.T) {
	opts := testOptions()
	opts.source = filepath.Join("..", "..", "internal", "openapi", "importer", "testdata", "petstore.yaml")
	var out bytes.Buffer

	if err := run(opts, quietLogger(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "createPet") {
		t.Fatalf("operations missing createPet:\n%s", out.String())
	}
}

func TestRun_UnknownForm(t *testing.T) {
	opts := testOptions()
	opts.form = "missing"

	if err := run(opts, quietLogger(), io.Discard); err == nil {
		t.Fatalf("expected error")
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
