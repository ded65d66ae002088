package validation

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-genform/pkg/model"
)

// Trigger identifies the interaction that asks for validation.
type Trigger string

const (
	TriggerChange Trigger = "change"
	TriggerBlur   Trigger = "blur"
	TriggerSubmit Trigger = "submit"
)

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerChange, TriggerBlur, TriggerSubmit:
		return true
	default:
		return false
	}
}

// PanicMessage is recorded on a field whose validator panicked.
const PanicMessage = "validation failed unexpectedly"

// ShouldValidate reports whether a field in the given mode validates on t.
func ShouldValidate(mode model.ValidationMode, t Trigger) bool {
	switch mode.Resolve() {
	case model.ValidationModeEager:
		return t.Valid()
	case model.ValidationModeBlur:
		return t == TriggerBlur || t == TriggerSubmit
	case model.ValidationModeLazy:
		return t == TriggerSubmit
	default:
		return false
	}
}

// Event is a single value update coming from a control.
type Event struct {
	Field   string  `json:"field"`
	Value   any     `json:"value"`
	Trigger Trigger `json:"trigger"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes recovered validator panics to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine applies validators to form data.
type Engine struct {
	logger logrus.FieldLogger
}

// NewEngine constructs an engine. Without a logger, panics are discarded after
// being recorded on the field.
func NewEngine(options ...Option) *Engine {
	e := &Engine{logger: discardLogger()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// ValidateField runs the field's validators when its mode covers the trigger.
// The field's error list is replaced; other fields are left untouched. The
// returned slice is the new error list, nil when the field passes or was not
// validated.
func (e *Engine) ValidateField(field model.Field, data model.FormData, t Trigger) []string {
	if data == nil || !ShouldValidate(field.Mode(), t) {
		return nil
	}

	value := data.Value(field.Name)
	var messages []string
	for idx, validator := range field.Validators {
		if validator == nil {
			continue
		}
		if msg := e.run(field.Name, idx, validator, value, data); msg != "" {
			messages = append(messages, msg)
		}
	}
	data.SetErrors(field.Name, messages)
	return data[field.Name].Errors
}

// Apply stores the event value on its field and validates that field only.
func (e *Engine) Apply(form model.Form, data model.FormData, event Event) ([]string, error) {
	if data == nil {
		return nil, fmt.Errorf("validation: form data is nil")
	}
	if !event.Trigger.Valid() {
		return nil, fmt.Errorf("validation: unknown trigger %q", event.Trigger)
	}
	field, ok := form.Field(event.Field)
	if !ok {
		return nil, fmt.Errorf("validation: form %q has no field %q", form.Name, event.Field)
	}
	data.SetValue(field.Name, event.Value)
	return e.ValidateField(field, data, event.Trigger), nil
}

// ValidateForm runs a submit pass over every field in declaration order and
// reports whether the form is valid.
func (e *Engine) ValidateForm(form model.Form, data model.FormData) bool {
	if data == nil {
		return false
	}
	valid := true
	for _, field := range form.Fields {
		if _, ok := data[field.Name]; !ok {
			data[field.Name] = model.FieldState{Value: model.ZeroValue(field.Type)}
		}
		if len(e.ValidateField(field, data, TriggerSubmit)) > 0 {
			valid = false
		}
	}
	return valid
}

func (e *Engine) run(name string, idx int, validator model.Validator, value any, data model.FormData) (msg string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.logger.WithFields(logrus.Fields{
				"field":     name,
				"validator": idx,
				"panic":     fmt.Sprint(recovered),
			}).Error("validator panicked")
			msg = PanicMessage
		}
	}()
	return validator(value, data)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
