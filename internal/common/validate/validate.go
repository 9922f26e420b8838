// Package validate checks request fields against named rules.
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

type Rule string

const (
	Email        Rule = "email"
	Password     Rule = "password"
	Alphabetic   Rule = "alphabetic"
	Alphanumeric Rule = "alphanumeric"
	Numeric      Rule = "numeric"
	Phone        Rule = "phone"
)

const invalidRuleMessage = "Invalid validation rule"

type rule struct {
	patterns []*regexp.Regexp
	message  string
}

func (r rule) match(s string) bool {
	for _, p := range r.patterns {
		if !p.MatchString(s) {
			return false
		}
	}
	return true
}

// RE2 has no look-ahead, so the password policy is a conjunction of patterns.
var rules = map[Rule]rule{
	Email: {
		patterns: []*regexp.Regexp{regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)},
		message:  "Please provide a valid email address",
	},
	Password: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^.{8,}$`),
			regexp.MustCompile(`[a-z]`),
			regexp.MustCompile(`[A-Z]`),
			regexp.MustCompile(`[0-9]`),
			regexp.MustCompile(`[@$!%*?&]`),
		},
		message: "Password must be at least 8 characters long and include at least one uppercase letter, one lowercase letter, one number and one special character",
	},
	Alphabetic: {
		patterns: []*regexp.Regexp{regexp.MustCompile(`^[a-zA-Z\s]+$`)},
		message:  "Only alphabetic characters are allowed",
	},
	Alphanumeric: {
		patterns: []*regexp.Regexp{regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)},
		message:  "Only alphanumeric characters are allowed",
	},
	Numeric: {
		patterns: []*regexp.Regexp{regexp.MustCompile(`^\d+$`)},
		message:  "Only numeric characters are allowed",
	},
	Phone: {
		patterns: []*regexp.Regexp{regexp.MustCompile(`^\+?[0-9]{10,15}$`)},
		message:  "Please provide a valid phone number",
	},
}

type Result struct {
	Valid   bool
	Message string
}

// Validate applies rule to value. Non-string scalars are checked by their text form.
func Validate(value any, name Rule) Result {
	r, ok := rules[name]
	if !ok {
		return Result{Valid: false, Message: invalidRuleMessage}
	}
	if r.match(toString(value)) {
		return Result{Valid: true}
	}
	return Result{Valid: false, Message: r.message}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Schema maps field names to the rule their value must satisfy.
type Schema map[string]Rule

// Fields returns the schema's field names in a stable order.
func (s Schema) Fields() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateObject checks every field of schema that is present and non-null in
// data and returns all failures keyed by field.
func ValidateObject(data map[string]any, schema Schema) (bool, map[string]string) {
	errs := make(map[string]string)
	for _, field := range schema.Fields() {
		value, ok := data[field]
		if !ok || value == nil {
			continue
		}
		if res := Validate(value, schema[field]); !res.Valid {
			errs[field] = res.Message
		}
	}
	return len(errs) == 0, errs
}
