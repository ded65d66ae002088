package render_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-genform/pkg/render"
)

func TestSanitizeTextRemovesMarkup(t *testing.T) {
	got := render.SanitizeText(`  <b>Ada</b><script>alert('x')</script> `)
	if strings.Contains(got, "<") || strings.Contains(got, "script") {
		t.Fatalf("expected markup stripped, got %q", got)
	}
	if !strings.Contains(got, "Ada") {
		t.Fatalf("expected text kept, got %q", got)
	}
}

func TestSanitizeTextKeepsPlainTextUnescaped(t *testing.T) {
	cases := map[string]string{
		"o'brien@example.com":   "o'brien@example.com",
		"Tom & Jerry":           "Tom & Jerry",
		`say "hi"`:              `say "hi"`,
		"<em>R&amp;D</em> team": "R&D team",
	}
	for raw, want := range cases {
		if got := render.SanitizeText(raw); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSanitizeValuesKeepsBooleans(t *testing.T) {
	got := render.SanitizeValues(map[string]any{"agree": true, "bio": "<i>hi</i>", "n": 3})
	if got["agree"] != true {
		t.Fatalf("boolean changed: %#v", got["agree"])
	}
	if got["bio"] != "hi" {
		t.Fatalf("bio not sanitized: %#v", got["bio"])
	}
	if got["n"] != "3" {
		t.Fatalf("number not stringified: %#v", got["n"])
	}
}
