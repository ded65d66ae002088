package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/renderers/vanilla/components"
)

var labelReserved = map[string]struct{}{"for": {}}

func (r *Renderer) renderField(field model.Field, opts render.RenderOptions) (string, error) {
	descriptor, ok := r.components.Descriptor(string(field.Type))
	if !ok {
		return "", fmt.Errorf("no component registered for type %q", field.Type)
	}

	state, ok := opts.Data[field.Name]
	if !ok {
		state = model.FieldState{Value: model.ZeroValue(field.Type)}
	}
	view := components.NewControlView(field, state)

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, view, components.ComponentData{Template: r.templates}); err != nil {
		return "", err
	}
	label := renderLabel(field, view.ID)

	slot := opts.Slots[field.Name]
	slotData := map[string]any{
		"field":   view.Context(),
		"label":   label,
		"control": control.String(),
	}
	if slot.Label != "" {
		out, err := r.templates.RenderString(slot.Label, slotData)
		if err != nil {
			return "", fmt.Errorf("label slot: %w", err)
		}
		label = strings.TrimSpace(out)
	}
	controlHTML := control.String()
	if slot.Control != "" {
		out, err := r.templates.RenderString(slot.Control, slotData)
		if err != nil {
			return "", fmt.Errorf("control slot: %w", err)
		}
		controlHTML = strings.TrimSpace(out)
	}
	var after string
	if slot.After != "" {
		out, err := r.templates.RenderString(slot.After, slotData)
		if err != nil {
			return "", fmt.Errorf("after slot: %w", err)
		}
		after = strings.TrimSpace(out)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="genform__field" data-field="%s" data-type="%s" data-validation-mode="%s">`,
		html.EscapeString(field.Name), html.EscapeString(string(field.Type)), html.EscapeString(view.Mode))
	b.WriteString("\n")
	// Checkboxes read better with the label after the box.
	if field.Type == model.FieldTypeCheckbox {
		writeLine(&b, controlHTML)
		writeLine(&b, label)
	} else {
		writeLine(&b, label)
		writeLine(&b, controlHTML)
	}
	if len(view.Errors) > 0 {
		fmt.Fprintf(&b, `<ul class="genform__field-errors" id="%s" role="alert">`, html.EscapeString(view.ErrorsID))
		for _, message := range view.Errors {
			b.WriteString("<li>")
			b.WriteString(html.EscapeString(message))
			b.WriteString("</li>")
		}
		b.WriteString("</ul>\n")
	}
	writeLine(&b, after)
	b.WriteString("</div>")
	return b.String(), nil
}

func renderLabel(field model.Field, controlID string) string {
	if field.Label == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<label for="%s"`, html.EscapeString(controlID))
	for _, attr := range components.SortedAttrs(field.Label.Attrs, labelReserved) {
		fmt.Fprintf(&b, ` %s="%s"`, attr.Name, html.EscapeString(attr.Value))
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(field.Label.Text))
	b.WriteString("</label>")
	return b.String()
}

func writeLine(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteString("\n")
}
