package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordPolicyValidate(t *testing.T) {
	policy := DefaultPasswordPolicy()

	tests := []struct {
		name     string
		password string
		valid    bool
		failed   []string
	}{
		{name: "valid password", password: "Abcdef1!", valid: true},
		{name: "too short", password: "Ab1!", valid: false, failed: []string{ReqMinLength}},
		{name: "missing digit", password: "Abcdefg!", valid: false, failed: []string{ReqDigit}},
		{name: "missing upper", password: "abcdef1!", valid: false, failed: []string{ReqUpper}},
		{name: "missing lower", password: "ABCDEF1!", valid: false, failed: []string{ReqLower}},
		{name: "missing special", password: "Abcdefg1", valid: false, failed: []string{ReqSpecial}},
		{name: "fails everything", password: "a", valid: false,
			failed: []string{ReqMinLength, ReqDigit, ReqUpper, ReqSpecial}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := policy.Validate(tt.password)
			assert.Equal(t, tt.valid, check.Valid)
			for _, key := range tt.failed {
				assert.False(t, check.Requirements[key], "requirement %s should have failed", key)
			}
			if tt.valid {
				assert.Empty(t, check.Errors)
			} else {
				assert.Len(t, check.Errors, len(tt.failed))
			}
		})
	}
}

func TestPasswordPolicyValidateEmptyPassword(t *testing.T) {
	check := DefaultPasswordPolicy().Validate("")

	assert.True(t, check.Valid)
	assert.Empty(t, check.Requirements)
	assert.Empty(t, check.Errors)
}

func TestPasswordPolicyConfigurableMinLength(t *testing.T) {
	policy := PasswordPolicy{MinLength: 12}

	check := policy.Validate("elevenchars")
	require.False(t, check.Valid)
	assert.Contains(t, check.Errors[0], "12 characters")

	check = policy.Validate("twelvechars!")
	assert.True(t, check.Valid)
}

func TestPasswordPolicyCustomSpecialChars(t *testing.T) {
	policy := PasswordPolicy{RequireSpecial: true, SpecialChars: "§±"}

	assert.False(t, policy.Validate("Abcdef1!").Valid)
	assert.True(t, policy.Validate("Abcdef1§").Valid)
}

func TestPasswordPolicyDisabledClasses(t *testing.T) {
	policy := PasswordPolicy{MinLength: 4}

	check := policy.Validate("aaaa")
	assert.True(t, check.Valid)
	assert.Equal(t, map[string]bool{ReqMinLength: true}, check.Requirements)
}
