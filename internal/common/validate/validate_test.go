package validate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Email(t *testing.T) {
	valid := []string{"admin@example.com", "a.b+c@sub.domain.io", "x@y.z"}
	invalid := []string{"", "plain", "a@b", "a @b.com", "@b.com", "a@.com ", "a@b.", "a@@b.com x"}

	for _, v := range valid {
		assert.True(t, Validate(v, Email).Valid, v)
	}
	for _, v := range invalid {
		res := Validate(v, Email)
		assert.False(t, res.Valid, v)
		assert.Equal(t, "Please provide a valid email address", res.Message)
	}
}

func TestValidate_Password(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"Admin123!", true},
		{"Abcdef1@", true},
		{"Ab1@Ab1@Ab1@" + strings.Repeat("z", 200), true},
		{"Pass word1!", true},
		{"Abcde1@", false},   // too short
		{"abcdefg1@", false}, // no upper
		{"ABCDEFG1@", false}, // no lower
		{"Abcdefgh@", false}, // no digit
		{"Abcdefgh1", false}, // no symbol
		{"Abcdefg1#", false}, // symbol outside the set
		{"", false},
	}
	for _, tt := range tests {
		res := Validate(tt.value, Password)
		assert.Equal(t, tt.want, res.Valid, tt.value)
		if !tt.want {
			assert.Contains(t, res.Message, "Password must be at least 8 characters long")
		}
	}
}

func TestValidate_OtherRules(t *testing.T) {
	assert.True(t, Validate("active", Alphabetic).Valid)
	assert.True(t, Validate("In active", Alphabetic).Valid)
	assert.False(t, Validate("active1", Alphabetic).Valid)

	assert.True(t, Validate("Room 101", Alphanumeric).Valid)
	assert.False(t, Validate("Room-101", Alphanumeric).Valid)

	assert.True(t, Validate("12", Numeric).Valid)
	assert.True(t, Validate(json.Number("7"), Numeric).Valid)
	assert.True(t, Validate(7, Numeric).Valid)
	assert.False(t, Validate("-1", Numeric).Valid)
	assert.False(t, Validate("1.5", Numeric).Valid)
	assert.Equal(t, "Only numeric characters are allowed", Validate("x", Numeric).Message)

	assert.True(t, Validate("+919876543210", Phone).Valid)
	assert.True(t, Validate("9876543210", Phone).Valid)
	assert.False(t, Validate("98765", Phone).Valid)
	assert.False(t, Validate("98765-43210", Phone).Valid)
}

func TestValidate_UnknownRule(t *testing.T) {
	res := Validate("x", Rule("zipcode"))
	assert.False(t, res.Valid)
	assert.Equal(t, "Invalid validation rule", res.Message)
}

func TestValidateObject(t *testing.T) {
	ok, errs := ValidateObject(map[string]any{
		"email":    "nope",
		"password": "short",
		"other":    "ignored",
	}, LoginSchema)
	assert.False(t, ok)
	assert.Equal(t, map[string]string{
		"email":    "Please provide a valid email address",
		"password": "Password must be at least 8 characters long and include at least one uppercase letter, one lowercase letter, one number and one special character",
	}, errs)

	ok, errs = ValidateObject(map[string]any{"password": "Admin123!"}, LoginSchema)
	assert.True(t, ok, "absent fields are skipped")
	assert.Empty(t, errs)

	ok, _ = ValidateObject(map[string]any{"email": nil, "password": nil}, LoginSchema)
	assert.True(t, ok, "null fields are skipped")

	ok, _ = ValidateObject(nil, LoginSchema)
	assert.True(t, ok)
}

func TestSchemaFields_Sorted(t *testing.T) {
	assert.Equal(t, []string{"limit", "page"}, PageQuerySchema.Fields())
}
