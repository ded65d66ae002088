package components

import (
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-genform/pkg/model"
)

// Attr is a rendered HTML attribute.
type Attr struct {
	Name  string
	Value string
}

// OptionView is a select option ready for templating.
type OptionView struct {
	ID       string
	Value    string
	Title    string
	Selected bool
}

// ControlView is the template context of a control.
type ControlView struct {
	Name      string
	Type      string
	ID        string
	InputType string
	Value     string
	Checked   bool
	Mode      string
	Attrs     []Attr
	Options   []OptionView
	Errors    []string
	ErrorsID  string
}

// Context converts the view into the map handed to templates.
func (v ControlView) Context() map[string]any {
	attrs := make([]map[string]any, 0, len(v.Attrs))
	for _, attr := range v.Attrs {
		attrs = append(attrs, map[string]any{"name": attr.Name, "value": attr.Value})
	}
	options := make([]map[string]any, 0, len(v.Options))
	for _, opt := range v.Options {
		options = append(options, map[string]any{
			"id":       opt.ID,
			"value":    opt.Value,
			"title":    opt.Title,
			"selected": opt.Selected,
		})
	}
	return map[string]any{
		"name":       v.Name,
		"type":       v.Type,
		"id":         v.ID,
		"input_type": v.InputType,
		"value":      v.Value,
		"checked":    v.Checked,
		"mode":       v.Mode,
		"attrs":      attrs,
		"options":    options,
		"errors":     v.Errors,
		"invalid":    len(v.Errors) > 0,
		"errors_id":  v.ErrorsID,
	}
}

// reservedAttrs are owned by the descriptor and never taken from Attrs.
var reservedAttrs = map[string]struct{}{
	"name":    {},
	"id":      {},
	"value":   {},
	"checked": {},
	"type":    {},
}

var attrNamePattern = regexp.MustCompile(`^[a-zA-Z_:][-a-zA-Z0-9_:.]*$`)

// NewControlView prepares the template context for field given its current
// state.
func NewControlView(field model.Field, state model.FieldState) ControlView {
	view := ControlView{
		Name:     field.Name,
		Type:     string(field.Type),
		ID:       ControlID(field.Name),
		Mode:     string(field.Mode()),
		Attrs:    SortedAttrs(field.Attrs, reservedAttrs),
		Errors:   state.Errors,
		ErrorsID: ControlID(field.Name) + "-errors",
	}

	switch field.Type {
	case model.FieldTypeCheckbox:
		view.Checked = model.BoolValue(state.Value)
	case model.FieldTypeSelect:
		current := model.StringValue(state.Value)
		for _, opt := range field.Options {
			view.Options = append(view.Options, OptionView{
				ID:       ControlID(field.Name) + "-" + opt.OptionID(),
				Value:    opt.OptionValue(),
				Title:    opt.DisplayTitle(),
				Selected: opt.OptionValue() == current,
			})
		}
		view.Value = current
	default:
		view.Value = model.StringValue(state.Value)
	}

	if field.Type == model.FieldTypeInput {
		view.InputType = "text"
		if t := strings.TrimSpace(field.Attrs["type"]); t != "" && t != "checkbox" {
			view.InputType = t
		}
	}
	return view
}

// SortedAttrs filters attribute names that are not valid HTML attribute names
// or are listed in skip, and sorts the rest by name.
func SortedAttrs(attrs model.Attrs, skip map[string]struct{}) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	for name, value := range attrs {
		key := strings.TrimSpace(name)
		if !attrNamePattern.MatchString(key) {
			continue
		}
		if _, reserved := skip[strings.ToLower(key)]; reserved {
			continue
		}
		out = append(out, Attr{Name: key, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ControlID returns the element id of a field's control.
func ControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fg-" + trimmed
}
