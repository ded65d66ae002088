package validation_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/validation"
)

func rejectValue(bad, message string) model.Validator {
	return func(value any, _ model.FormData) string {
		if model.StringValue(value) == bad {
			return message
		}
		return ""
	}
}

func TestShouldValidateMatrix(t *testing.T) {
	modes := []model.ValidationMode{"", model.ValidationModeEager, model.ValidationModeBlur, model.ValidationModeLazy}
	triggers := []validation.Trigger{validation.TriggerChange, validation.TriggerBlur, validation.TriggerSubmit}

	got := make(map[string][]bool)
	for _, mode := range modes {
		key := string(mode.Resolve())
		got[key] = nil
		for _, trigger := range triggers {
			got[key] = append(got[key], validation.ShouldValidate(mode, trigger))
		}
	}

	want := map[string][]bool{
		"eager": {true, true, true},
		"blur":  {false, true, true},
		"lazy":  {false, false, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mode matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateFieldRecordsMessagesUnderMode(t *testing.T) {
	engine := validation.NewEngine()
	cases := []struct {
		mode    model.ValidationMode
		trigger validation.Trigger
		want    []string
	}{
		{model.ValidationModeEager, validation.TriggerChange, []string{"bad value"}},
		{model.ValidationModeBlur, validation.TriggerChange, nil},
		{model.ValidationModeBlur, validation.TriggerBlur, []string{"bad value"}},
		{model.ValidationModeLazy, validation.TriggerBlur, nil},
		{model.ValidationModeLazy, validation.TriggerSubmit, []string{"bad value"}},
	}

	for _, tc := range cases {
		field := model.Field{
			Name:           "name",
			Type:           model.FieldTypeInput,
			ValidationMode: tc.mode,
			Validators:     []model.Validator{rejectValue("V", "bad value")},
		}
		data := model.FormData{"name": {Value: "V"}}

		engine.ValidateField(field, data, tc.trigger)
		if diff := cmp.Diff(tc.want, data["name"].Errors); diff != "" {
			t.Fatalf("%s/%s errors mismatch (-want +got):\n%s", tc.mode, tc.trigger, diff)
		}
		if data["name"].Validated != (tc.want != nil) {
			t.Fatalf("%s/%s validated flag = %v", tc.mode, tc.trigger, data["name"].Validated)
		}
	}
}

func TestValidateFieldCollectsAllMessagesAndLeavesOthersAlone(t *testing.T) {
	engine := validation.NewEngine()
	field := model.Field{
		Name: "password",
		Type: model.FieldTypeInput,
		Validators: []model.Validator{
			validation.MinLength(8),
			validation.MatchesField("confirm", "Passwords differ"),
		},
	}
	data := model.FormData{
		"password": {Value: "short"},
		"confirm":  {Value: "other", Errors: []string{"untouched"}},
	}

	got := engine.ValidateField(field, data, validation.TriggerChange)

	want := []string{"Must be at least 8 characters", "Passwords differ"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"untouched"}, data["confirm"].Errors); diff != "" {
		t.Fatalf("other field mutated (-want +got):\n%s", diff)
	}
}

func TestValidateFieldClearsErrorsOncePassing(t *testing.T) {
	engine := validation.NewEngine()
	field := model.Field{Name: "name", Type: model.FieldTypeInput, Validators: []model.Validator{validation.Required()}}
	data := model.FormData{"name": {Value: ""}}

	engine.ValidateField(field, data, validation.TriggerChange)
	if len(data["name"].Errors) != 1 {
		t.Fatalf("expected one error, got %#v", data["name"].Errors)
	}

	data.SetValue("name", "Ada")
	engine.ValidateField(field, data, validation.TriggerChange)
	if data["name"].Errors != nil {
		t.Fatalf("expected nil errors after fix, got %#v", data["name"].Errors)
	}
}

func TestValidatorPanicIsRecordedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	engine := validation.NewEngine(validation.WithLogger(logger))
	form := model.Form{
		Name: "panics",
		Fields: []model.Field{
			{
				Name: "first",
				Type: model.FieldTypeInput,
				Validators: []model.Validator{
					func(any, model.FormData) string { panic("boom") },
					validation.Required(),
				},
			},
			{Name: "second", Type: model.FieldTypeInput, Validators: []model.Validator{validation.Required()}},
		},
	}
	data := model.NewFormData(form, nil)

	if engine.ValidateForm(form, data) {
		t.Fatalf("expected invalid form")
	}

	want := model.FormData{
		"first":  {Value: "", Errors: []string{validation.PanicMessage, "This field is required"}, Validated: true},
		"second": {Value: "", Errors: []string{"This field is required"}, Validated: true},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "validator panicked") {
		t.Fatalf("expected panic to be logged, got %q", buf.String())
	}
}

func TestApplyStoresValueAndValidates(t *testing.T) {
	engine := validation.NewEngine()
	form := model.Form{
		Name: "basic",
		Fields: []model.Field{
			{Name: "email", Type: model.FieldTypeInput, ValidationMode: model.ValidationModeBlur, Validators: []model.Validator{validation.Email()}},
		},
	}
	data := model.NewFormData(form, nil)

	errs, err := engine.Apply(form, data, validation.Event{Field: "email", Value: "nope", Trigger: validation.TriggerChange})
	if err != nil {
		t.Fatalf("apply change: %v", err)
	}
	if errs != nil || data.Value("email") != "nope" {
		t.Fatalf("change should store value without validating blur field: errs=%v value=%v", errs, data.Value("email"))
	}

	errs, err = engine.Apply(form, data, validation.Event{Field: "email", Value: "nope", Trigger: validation.TriggerBlur})
	if err != nil {
		t.Fatalf("apply blur: %v", err)
	}
	if diff := cmp.Diff([]string{"Must be a valid email address"}, errs); diff != "" {
		t.Fatalf("blur errors mismatch (-want +got):\n%s", diff)
	}

	if _, err := engine.Apply(form, data, validation.Event{Field: "missing", Trigger: validation.TriggerBlur}); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, err := engine.Apply(form, data, validation.Event{Field: "email", Trigger: "hover"}); err == nil {
		t.Fatalf("expected error for unknown trigger")
	}
}
