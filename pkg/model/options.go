package model

import "fmt"

// Options converts plain values into select options, mirroring the shorthand
// where a select is configured with a list of strings or numbers.
func Options(values ...any) []SelectOption {
	if len(values) == 0 {
		return nil
	}
	out := make([]SelectOption, 0, len(values))
	for _, value := range values {
		if opt, ok := value.(SelectOption); ok {
			out = append(out, opt)
			continue
		}
		out = append(out, SelectOption{Value: value})
	}
	return out
}

// OptionID returns the id used for the rendered option element, falling back
// to the value.
func (o SelectOption) OptionID() string {
	if o.ID != nil {
		return fmt.Sprint(o.ID)
	}
	return fmt.Sprint(o.Value)
}

// OptionValue returns the submitted value as a string.
func (o SelectOption) OptionValue() string {
	if o.Value == nil {
		return ""
	}
	return fmt.Sprint(o.Value)
}

// DisplayTitle returns the text shown for the option, falling back to the
// value.
func (o SelectOption) DisplayTitle() string {
	if o.Title != nil {
		if title := fmt.Sprint(o.Title); title != "" {
			return title
		}
	}
	return o.OptionValue()
}

// HasOption reports whether value matches one of the field's option values.
func (f Field) HasOption(value any) bool {
	want := fmt.Sprint(value)
	for _, opt := range f.Options {
		if opt.OptionValue() == want {
			return true
		}
	}
	return false
}
