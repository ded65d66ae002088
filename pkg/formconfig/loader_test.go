package formconfig_test

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-genform/pkg/formconfig"
	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/validation"
)

var ignoreValidators = cmpopts.IgnoreFields(model.Field{}, "Validators")

func TestLoadFile_MatchesGoLiteral(t *testing.T) {
	loader := formconfig.NewLoader()

	got, err := loader.LoadFile("testdata/forms/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := model.Form{
		Name:        "signup",
		Title:       "Sign up",
		SubmitLabel: "Create account",
		Fields: []model.Field{
			{
				Name:           "email",
				Label:          &model.Label{Text: "Email"},
				Type:           model.FieldTypeInput,
				Attrs:          model.Attrs{"type": "email", "placeholder": "you@example.com"},
				ValidationMode: model.ValidationModeBlur,
			},
			{
				Name:  "password",
				Label: &model.Label{Text: "Password", Attrs: model.Attrs{"class": "secret"}},
				Type:  model.FieldTypeInput,
				Attrs: model.Attrs{"type": "password"},
			},
			{
				Name:           "confirm",
				Label:          &model.Label{Text: "Confirm password"},
				Type:           model.FieldTypeInput,
				Attrs:          model.Attrs{"type": "password"},
				ValidationMode: model.ValidationModeLazy,
			},
			{
				Name:    "plan",
				Label:   &model.Label{Text: "Plan"},
				Type:    model.FieldTypeSelect,
				Options: []model.SelectOption{{Value: "free"}, {ID: "pro", Value: 2, Title: "Professional"}},
			},
			{
				Name:           "terms",
				Label:          &model.Label{Text: "I agree"},
				Type:           model.FieldTypeCheckbox,
				ValidationMode: model.ValidationModeLazy,
			},
		},
	}
	if diff := cmp.Diff(want, got, ignoreValidators); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}

	counts := map[string]int{}
	for _, field := range got.Fields {
		counts[field.Name] = len(field.Validators)
	}
	if diff := cmp.Diff(map[string]int{"email": 2, "password": 1, "confirm": 1, "plan": 0, "terms": 1}, counts); diff != "" {
		t.Fatalf("validator counts mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_ValidatorsBehave(t *testing.T) {
	form, err := formconfig.NewLoader().LoadFile("testdata/forms/signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	data := model.NewFormData(form, map[string]any{
		"email":    "nope",
		"password": "short",
		"confirm":  "other",
		"plan":     "free",
	})

	engine := validation.NewEngine()
	if engine.ValidateForm(form, data) {
		t.Fatalf("expected invalid form")
	}
	want := map[string][]string{
		"email":    {"Enter a valid address"},
		"password": {"Must be at least 8 characters"},
		"confirm":  {"Passwords differ"},
		"terms":    {"This box must be checked"},
	}
	if diff := cmp.Diff(want, data.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS(t *testing.T) {
	forms, err := formconfig.NewLoader().LoadFS(os.DirFS("testdata"), "forms")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	var names []string
	for name := range forms {
		names = append(names, name)
	}
	if diff := cmp.Diff([]string{"feedback", "signup"}, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if forms["feedback"].Fields[0].Type != model.FieldTypeTextarea {
		t.Fatalf("feedback field type: %s", forms["feedback"].Fields[0].Type)
	}
}

func TestLoadFS_DuplicateNames(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("name: same\nfields: [{name: x, type: input}]\n")},
		"b.yml":  {Data: []byte("name: same\nfields: [{name: y, type: input}]\n")},
	}
	_, err := formconfig.NewLoader().LoadFS(fsys, ".")
	if err == nil || !strings.Contains(err.Error(), "defined twice") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseAll_MultiDocument(t *testing.T) {
	src := "name: one\nfields: [{name: a, type: input}]\n---\nname: two\nfields: [{name: b, type: checkbox}]\n"
	forms, err := formconfig.NewLoader().ParseAll([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(forms) != 2 || forms[1].Name != "two" {
		t.Fatalf("unexpected forms: %+v", forms)
	}
	if _, err := formconfig.NewLoader().Parse([]byte(src)); err == nil {
		t.Fatalf("Parse should reject multiple definitions")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown validator": "name: f\nfields: [{name: a, type: input, validators: [nope]}]\n",
		"bad param":         "name: f\nfields: [{name: a, type: input, validators: [{name: minLength, params: {value: x}}]}]\n",
		"schema":            "name: f\nfields: [{name: a, type: radio}]\n",
		"unknown key":       "name: f\ncolour: red\nfields: [{name: a, type: input}]\n",
		"empty":             "",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := formconfig.NewLoader().Parse([]byte(src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWithRegistry_CustomValidator(t *testing.T) {
	registry := validation.NewDefaultRegistry()
	registry.MustRegister("even", func(spec validation.Spec) (model.Validator, error) {
		return func(value any, _ model.FormData) string {
			if len(model.StringValue(value))%2 != 0 {
				return "odd length"
			}
			return ""
		}, nil
	})
	loader := formconfig.NewLoader(formconfig.WithRegistry(registry))

	form, err := loader.Parse([]byte("name: f\nfields: [{name: a, type: input, validators: [even]}]\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data := model.NewFormData(form, map[string]any{"a": "abc"})
	if got := validation.NewEngine().ValidateField(form.Fields[0], data, validation.TriggerSubmit); !cmp.Equal(got, []string{"odd length"}) {
		t.Fatalf("unexpected errors %v", got)
	}
}
