package render

import "github.com/goliatone/go-genform/pkg/model"

// Slot overrides parts of a single field's markup. Each non-empty entry is a
// template string rendered with "field" (the control view), "label" and
// "control" (the default markup), so callers can wrap the default control.
type Slot struct {
	Label   string
	Control string
	After   string
}

// Empty reports whether the slot overrides nothing.
func (s Slot) Empty() bool {
	return s.Label == "" && s.Control == "" && s.After == ""
}

// RenderOptions describe per-request data renderers use without mutating the
// form definition.
type RenderOptions struct {
	// Action is the submission target. Empty means the current URL.
	Action string
	// Method defaults to POST.
	Method string
	// Data carries current values and error lists. Fields missing from Data
	// render with their zero value and no errors.
	Data model.FormData
	// Hidden fields are emitted as hidden inputs in sorted order.
	Hidden map[string]string
	// Slots are keyed by field name.
	Slots map[string]Slot
	// FormErrors are messages not tied to a field.
	FormErrors []string
}

// ResolvedMethod returns the HTTP method to use for the form element.
func (o RenderOptions) ResolvedMethod() string {
	if o.Method == "" {
		return "POST"
	}
	return o.Method
}
