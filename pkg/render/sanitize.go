package render

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips every tag from user-supplied text. The result is plain
// text, not HTML: entities the policy introduces are decoded again, so callers
// must escape it on output (pongo2 autoescaping or JSON encoding).
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(trimmed)))
}

// SanitizeValues sanitizes every value of a submitted form for display.
// Booleans are kept as-is; other values are stringified first.
func SanitizeValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case bool, nil:
			out[key] = v
		case string:
			out[key] = SanitizeText(v)
		default:
			out[key] = SanitizeText(fmt.Sprint(v))
		}
	}
	return out
}

func strictPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
