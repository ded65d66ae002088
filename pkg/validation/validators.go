package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-genform/pkg/model"
)

func messageOr(custom []string, fallback string) string {
	if len(custom) > 0 && strings.TrimSpace(custom[0]) != "" {
		return custom[0]
	}
	return fallback
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// Required fails when the value is nil, blank, false or an empty list.
func Required(message ...string) model.Validator {
	msg := messageOr(message, "This field is required")
	return func(value any, _ model.FormData) string {
		if isEmpty(value) {
			return msg
		}
		return ""
	}
}

// Checked fails unless a checkbox value is true.
func Checked(message ...string) model.Validator {
	msg := messageOr(message, "This box must be checked")
	return func(value any, _ model.FormData) string {
		if !model.BoolValue(value) {
			return msg
		}
		return ""
	}
}

// MinLength fails when a non-empty value is shorter than n runes. Empty values
// are left to Required.
func MinLength(n int, message ...string) model.Validator {
	msg := messageOr(message, fmt.Sprintf("Must be at least %d characters", n))
	return func(value any, _ model.FormData) string {
		text := model.StringValue(value)
		if text == "" {
			return ""
		}
		if utf8.RuneCountInString(text) < n {
			return msg
		}
		return ""
	}
}

// MaxLength fails when the value is longer than n runes.
func MaxLength(n int, message ...string) model.Validator {
	msg := messageOr(message, fmt.Sprintf("Must be at most %d characters", n))
	return func(value any, _ model.FormData) string {
		if utf8.RuneCountInString(model.StringValue(value)) > n {
			return msg
		}
		return ""
	}
}

// Pattern fails when a non-empty value does not match re.
func Pattern(re *regexp.Regexp, message ...string) model.Validator {
	msg := messageOr(message, fmt.Sprintf("Must match %s", re.String()))
	return func(value any, _ model.FormData) string {
		text := model.StringValue(value)
		if text == "" {
			return ""
		}
		if !re.MatchString(text) {
			return msg
		}
		return ""
	}
}

// Email fails when a non-empty value is not a bare email address.
func Email(message ...string) model.Validator {
	msg := messageOr(message, "Must be a valid email address")
	return func(value any, _ model.FormData) string {
		text := strings.TrimSpace(model.StringValue(value))
		if text == "" {
			return ""
		}
		addr, err := mail.ParseAddress(text)
		if err != nil || addr.Address != text {
			return msg
		}
		return ""
	}
}

// OneOf fails when a non-empty value is not in allowed.
func OneOf(allowed []string, message ...string) model.Validator {
	msg := messageOr(message, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return func(value any, _ model.FormData) string {
		text := model.StringValue(value)
		if text == "" {
			return ""
		}
		if _, ok := set[text]; !ok {
			return msg
		}
		return ""
	}
}

// MatchesField fails when the value differs from another field's value. It is
// the canonical cross-field validator, reading the whole form data.
func MatchesField(other string, message ...string) model.Validator {
	msg := messageOr(message, fmt.Sprintf("Must match %s", other))
	return func(value any, data model.FormData) string {
		if model.StringValue(value) != model.StringValue(data.Value(other)) {
			return msg
		}
		return ""
	}
}
