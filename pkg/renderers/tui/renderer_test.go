package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	textAreas    []string
	infoMessages []string
	calls        []string
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
	textPos      int
	validators   []func(string) error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.calls = append(s.calls, "input:"+cfg.Message)
	s.validators = append(s.validators, cfg.Validator)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.calls = append(s.calls, "password:"+cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.calls = append(s.calls, "confirm:"+cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.calls = append(s.calls, "select:"+cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.calls = append(s.calls, "textarea:"+cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func label(text string) *model.Label { return &model.Label{Text: text} }

func TestRender_PromptKindPerFieldType(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada"},
		textAreas: []string{"line one\nline two"},
		selectIdx: []int{1},
		confirm:   []bool{true},
		passwords: []string{"s3cret"},
	}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	form := model.Form{Name: "f", Fields: []model.Field{
		{Name: "name", Label: label("Name"), Type: model.FieldTypeInput},
		{Name: "bio", Label: label("Bio"), Type: model.FieldTypeTextarea},
		{Name: "size", Type: model.FieldTypeSelect, Options: model.Options("s", 42)},
		{Name: "ok", Label: label("OK?"), Type: model.FieldTypeCheckbox},
		{Name: "pw", Label: label("Password"), Type: model.FieldTypeInput, Attrs: model.Attrs{"type": "password"}},
	}}

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantCalls := []string{"input:Name", "textarea:Bio", "select:size", "confirm:OK?", "password:Password"}
	if diff := cmp.Diff(wantCalls, driver.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	want := `{"bio":"line one\nline two","name":"Ada","ok":true,"pw":"s3cret","size":42}`
	if string(out) != want {
		t.Fatalf("output mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestRender_BlurFieldIsRepromptedUntilValid(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "Ada"}}
	renderer, _ := New(WithPromptDriver(driver))

	form := model.Form{Name: "f", Fields: []model.Field{{
		Name:           "name",
		Type:           model.FieldTypeInput,
		ValidationMode: model.ValidationModeBlur,
		Validators:     []model.Validator{validation.Required("required")},
	}}}

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `{"name":"Ada"}` {
		t.Fatalf("unexpected output %s", out)
	}
	if diff := cmp.Diff([]string{"! required"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.validators[0] != nil {
		t.Fatalf("blur field should not receive a live validator")
	}
}

func TestRender_EagerFieldGetsLiveValidator(t *testing.T) {
	driver := &stubDriver{inputs: []string{"abcd"}}
	renderer, _ := New(WithPromptDriver(driver))

	form := model.Form{Name: "f", Fields: []model.Field{{
		Name:       "code",
		Type:       model.FieldTypeInput,
		Validators: []model.Validator{validation.MinLength(3, "too short")},
	}}}

	if _, err := renderer.Render(context.Background(), form, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	live := driver.validators[0]
	if live == nil {
		t.Fatalf("eager field should receive a live validator")
	}
	if err := live("ab"); err == nil || err.Error() != "too short" {
		t.Fatalf("expected live validation failure, got %v", err)
	}
	if err := live("abc"); err != nil {
		t.Fatalf("expected live validation pass, got %v", err)
	}
}

func TestRender_LazyFieldValidatedOnSubmitOnly(t *testing.T) {
	driver := &stubDriver{
		confirm: []bool{false, true},
		inputs:  []string{"Ada"},
	}
	renderer, _ := New(WithPromptDriver(driver))

	form := model.Form{Name: "f", Fields: []model.Field{
		{
			Name:           "terms",
			Label:          label("Terms"),
			Type:           model.FieldTypeCheckbox,
			ValidationMode: model.ValidationModeLazy,
			Validators:     []model.Validator{validation.Checked("must accept")},
		},
		{Name: "name", Label: label("Name"), Type: model.FieldTypeInput},
	}}

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantCalls := []string{"confirm:Terms", "input:Name", "confirm:Terms"}
	if diff := cmp.Diff(wantCalls, driver.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"! Terms: must accept"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if string(out) != `{"name":"Ada","terms":true}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestRender_TooManyAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	renderer, _ := New(WithPromptDriver(driver), WithMaxAttempts(2))

	form := model.Form{Name: "f", Fields: []model.Field{{
		Name:       "name",
		Type:       model.FieldTypeInput,
		Validators: []model.Validator{validation.Required()},
	}}}

	_, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRender_SeedsDefaultsAndPrintsTitle(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Grace"}}
	renderer, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText), WithTheme(Theme{InfoPrefix: "> "}))

	form := model.Form{Name: "f", Title: "Profile", Fields: []model.Field{{Name: "name", Type: model.FieldTypeInput}}}
	data := model.NewFormData(form, map[string]any{"name": "Ada", "stale": "x"})

	out, err := renderer.Render(context.Background(), form, render.RenderOptions{Data: data})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "name=Grace\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if diff := cmp.Diff([]string{"> Profile"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if renderer.ContentType() != "text/plain" {
		t.Fatalf("content type: %s", renderer.ContentType())
	}
}

func TestRender_SubmitTransformerAndFormOutput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"a b"}}
	renderer, _ := New(
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			values["q"] = strings.ToUpper(values["q"].(string))
			return values, nil
		}),
	)

	form := model.Form{Name: "f", Fields: []model.Field{{Name: "q", Type: model.FieldTypeInput}}}
	out, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "q=A+B" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRender_PropagatesAbort(t *testing.T) {
	renderer, _ := New(WithPromptDriver(&stubDriver{}))
	form := model.Form{Name: "f", Fields: []model.Field{{Name: "q", Type: model.FieldTypeInput}}}

	if _, err := renderer.Render(context.Background(), form, render.RenderOptions{}); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected error")
	}
}
