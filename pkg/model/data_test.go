package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-genform/pkg/model"
)

func TestNewFormDataSeedsZeroValues(t *testing.T) {
	form := model.Form{
		Name: "basic",
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeInput},
			{Name: "agree", Type: model.FieldTypeCheckbox},
			{Name: "color", Type: model.FieldTypeSelect, Options: model.Options("red")},
		},
	}

	data := model.NewFormData(form, map[string]any{"color": "red"})

	want := model.FormData{
		"name":  {Value: ""},
		"agree": {Value: false},
		"color": {Value: "red"},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("form data mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrorsNormalisesEmptyLists(t *testing.T) {
	data := model.FormData{"name": {Value: "Ada"}}

	data.SetErrors("name", []string{})
	state := data["name"]
	if state.Errors != nil {
		t.Fatalf("expected nil errors, got %#v", state.Errors)
	}
	if !state.Validated {
		t.Fatalf("expected field to be marked validated")
	}
	if !data.Valid() {
		t.Fatalf("expected data to be valid")
	}

	data.SetErrors("name", []string{"too short"})
	if data.Valid() {
		t.Fatalf("expected data to be invalid")
	}
	if diff := cmp.Diff(map[string][]string{"name": {"too short"}}, data.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	data := model.FormData{"name": {Value: "Ada", Errors: []string{"x"}}}
	clone := data.Clone()
	clone.SetValue("name", "Grace")
	clone["name"].Errors[0] = "mutated"

	if data["name"].Value != "Ada" || data["name"].Errors[0] != "x" {
		t.Fatalf("original mutated: %#v", data["name"])
	}
}

func TestCoerceValue(t *testing.T) {
	cases := []struct {
		kind model.FieldType
		raw  string
		want any
	}{
		{model.FieldTypeCheckbox, "on", true},
		{model.FieldTypeCheckbox, "true", true},
		{model.FieldTypeCheckbox, "", false},
		{model.FieldTypeCheckbox, "nope", false},
		{model.FieldTypeInput, " keep ", " keep "},
		{model.FieldTypeSelect, "red", "red"},
	}
	for _, tc := range cases {
		if got := model.CoerceValue(tc.kind, tc.raw); got != tc.want {
			t.Fatalf("CoerceValue(%s, %q) = %#v, want %#v", tc.kind, tc.raw, got, tc.want)
		}
	}
}
