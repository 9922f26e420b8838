// Package sanitize strips markup from user supplied strings before they reach
// validation or storage.
package sanitize

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

type fieldKind int

const (
	plainField fieldKind = iota
	emailField
	secretField
)

func kindOf(key string) fieldKind {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "email"):
		return emailField
	case strings.Contains(k, "password"), strings.Contains(k, "token"):
		return secretField
	default:
		return plainField
	}
}

// String removes all markup from s and entity-escapes the remaining text.
func String(s string) string {
	return strings.TrimSpace(policy.Sanitize(strings.TrimSpace(s)))
}

func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Field sanitizes a single value according to the rule its key selects.
func Field(key, value string) string {
	switch kindOf(key) {
	case emailField:
		return Email(value)
	case secretField:
		return value
	default:
		return String(value)
	}
}

// Object returns a sanitized copy of data. Passwords and tokens are left
// untouched, email fields are normalised and every other string is stripped.
func Object(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = value(k, v)
	}
	return out
}

func value(key string, v any) any {
	switch t := v.(type) {
	case string:
		return Field(key, t)
	case map[string]any:
		return Object(t)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = value(key, item)
		}
		return items
	default:
		return v
	}
}

// Values sanitizes query strings, form fields and route parameters.
func Values(values url.Values) url.Values {
	if values == nil {
		return nil
	}
	out := make(url.Values, len(values))
	for k, vs := range values {
		clean := make([]string, len(vs))
		for i, v := range vs {
			clean[i] = Field(k, v)
		}
		out[k] = clean
	}
	return out
}
