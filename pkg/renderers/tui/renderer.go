// Package tui runs a form as a sequence of terminal prompts. Each field type
// maps to one prompt kind and validation follows the field's timing mode:
// eager and blur fields are checked when their prompt completes, lazy fields
// only when the whole form is submitted.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/validation"
)

const defaultMaxAttempts = 5

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	engine            *validation.Engine
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		maxAttempts:  defaultMaxAttempts,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	if r.engine == nil {
		r.engine = validation.NewEngine()
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field in declaration order, then runs the submit
// pass and re-prompts failing fields until the form is valid. opts.Data seeds
// prompt defaults. The result is the serialized value map.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	data := model.NewFormData(form, opts.Data.Values())
	if err := r.info(ctx, form.Title, form.Description); err != nil {
		return nil, err
	}

	for _, field := range form.Fields {
		if err := r.promptField(ctx, field, data); err != nil {
			return nil, err
		}
	}
	if err := r.submit(ctx, form, data); err != nil {
		return nil, err
	}

	values := data.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

// promptField asks for one field. Fields validated on blur are re-asked while
// they fail; lazy fields are accepted as entered.
func (r *Renderer) promptField(ctx context.Context, field model.Field, data model.FormData) error {
	for attempt := 1; ; attempt++ {
		value, err := r.ask(ctx, field, data)
		if err != nil {
			return err
		}
		data.SetValue(field.Name, value)

		if !validation.ShouldValidate(field.Mode(), validation.TriggerBlur) {
			return nil
		}
		errs := r.engine.ValidateField(field, data, validation.TriggerBlur)
		if len(errs) == 0 {
			return nil
		}
		if err := r.reportErrors(ctx, errs); err != nil {
			return err
		}
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%w: field %q", ErrTooManyAttempts, field.Name)
		}
	}
}

func (r *Renderer) submit(ctx context.Context, form model.Form, data model.FormData) error {
	for round := 0; ; round++ {
		if r.engine.ValidateForm(form, data) {
			return nil
		}
		if round >= r.maxAttempts {
			return fmt.Errorf("%w: form %q", ErrTooManyAttempts, form.Name)
		}
		for _, field := range form.Fields {
			errs := data[field.Name].Errors
			if len(errs) == 0 {
				continue
			}
			if err := r.reportErrors(ctx, prefixed(field, errs)); err != nil {
				return err
			}
			value, err := r.ask(ctx, field, data)
			if err != nil {
				return err
			}
			data.SetValue(field.Name, value)
		}
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, data model.FormData) (any, error) {
	message := field.LabelText()
	if message == "" {
		message = field.Name
	}
	help := field.Attrs["placeholder"]
	current := data.Value(field.Name)

	switch field.Type {
	case model.FieldTypeCheckbox:
		return r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Help:    help,
			Default: model.BoolValue(current),
		})
	case model.FieldTypeSelect:
		titles := make([]string, 0, len(field.Options))
		defaultIdx := 0
		for i, opt := range field.Options {
			titles = append(titles, opt.DisplayTitle())
			if opt.OptionValue() == model.StringValue(current) {
				defaultIdx = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Help:         help,
			Options:      titles,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil, fmt.Errorf("tui: field %q: selection %d out of range", field.Name, idx)
		}
		return field.Options[idx].Value, nil
	case model.FieldTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Help:      help,
			Default:   model.StringValue(current),
			Validator: r.liveValidator(field, data),
		})
	default:
		cfg := InputConfig{
			Message:   message,
			Help:      help,
			Default:   model.StringValue(current),
			Validator: r.liveValidator(field, data),
		}
		if strings.EqualFold(field.Attrs["type"], "password") {
			cfg.Default = ""
			return r.driver.Password(ctx, cfg)
		}
		return r.driver.Input(ctx, cfg)
	}
}

// liveValidator checks keystroke-level answers for eager fields against a
// copy of the data, so a rejected answer never reaches the form state.
func (r *Renderer) liveValidator(field model.Field, data model.FormData) func(string) error {
	if !validation.ShouldValidate(field.Mode(), validation.TriggerChange) || len(field.Validators) == 0 {
		return nil
	}
	return func(answer string) error {
		probe := data.Clone()
		probe.SetValue(field.Name, answer)
		if errs := r.engine.ValidateField(field, probe, validation.TriggerChange); len(errs) > 0 {
			return errors.New(strings.Join(errs, "; "))
		}
		return nil
	}
}

func (r *Renderer) reportErrors(ctx context.Context, errs []string) error {
	for _, msg := range errs {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, lines ...string) error {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

func prefixed(field model.Field, errs []string) []string {
	label := field.LabelText()
	if label == "" {
		label = field.Name
	}
	out := make([]string, len(errs))
	for i, msg := range errs {
		out[i] = label + ": " + msg
	}
	return out
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, fmt.Sprint(value))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s=%v\n", key, values[key])
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(values)
	}
}
