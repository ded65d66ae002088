package site

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-genform/pkg/formconfig"
	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/store"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// FormsFS exposes the embedded demo form definitions.
func FormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// LoadDemoForms loads the demo definitions from fsys (FormsFS when nil) and
// checks every demo page has its form.
func LoadDemoForms(loader *formconfig.Loader, fsys fs.FS) (map[string]model.Form, error) {
	if loader == nil {
		loader = formconfig.NewLoader()
	}
	if fsys == nil {
		fsys = FormsFS()
	}
	forms, err := loader.LoadFS(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("site: load demo forms: %w", err)
	}
	for _, route := range Routes() {
		if route.Form == "" {
			continue
		}
		if _, ok := forms[route.Form]; !ok {
			return nil, fmt.Errorf("site: demo form %q is missing", route.Form)
		}
	}
	return forms, nil
}

// customSlots are the overrides shown on the custom-slots page.
func customSlots() map[string]render.Slot {
	return map[string]render.Slot{
		"rating": {
			Label: `<label for="{{ field.id }}" class="slot-label">How would you rate this demo?</label>`,
			After: `<small class="slot-hint">1 is poor, 5 is great</small>`,
		},
		"comment": {
			Control: `<div class="slot-control">{{ control|safe }}<small>{{ field.value|length }} / 280</small></div>`,
		},
	}
}

func slotsFor(name string) map[string]render.Slot {
	if name == store.FormCustomSlots {
		return customSlots()
	}
	return nil
}
