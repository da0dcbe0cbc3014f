package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultSpecialChars is the special-character class accepted by the
// default password policy.
const DefaultSpecialChars = `!@#$%^&*()_+-=[]{}|;:'",.<>/?` + "`~"

// PasswordPolicy is a pure validator for candidate passwords. Character
// classes are individually toggleable so call sites with slightly
// different requirements can share the implementation.
type PasswordPolicy struct {
	MinLength      int
	RequireDigit   bool
	RequireUpper   bool
	RequireLower   bool
	RequireSpecial bool
	// SpecialChars overrides the accepted special-character set.
	// Empty means DefaultSpecialChars.
	SpecialChars string
}

// DefaultPasswordPolicy mirrors the pool's configured policy: minimum
// eight characters with at least one digit, one uppercase letter, one
// lowercase letter, and one special character.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      8,
		RequireDigit:   true,
		RequireUpper:   true,
		RequireLower:   true,
		RequireSpecial: true,
	}
}

// PasswordCheck reports the outcome of validating one password.
// Requirements holds one entry per evaluated requirement; a missing key
// means the requirement was not part of the policy.
type PasswordCheck struct {
	Valid        bool
	Requirements map[string]bool
	Errors       []string
}

// Requirement keys reported in PasswordCheck.Requirements.
const (
	ReqMinLength = "minLength"
	ReqDigit     = "hasNumber"
	ReqUpper     = "hasUpper"
	ReqLower     = "hasLower"
	ReqSpecial   = "hasSpecial"
)

// Validate checks password against the policy. An empty password is
// treated as absent: no requirements are evaluated and the result is
// valid with an empty requirement map.
func (p PasswordPolicy) Validate(password string) PasswordCheck {
	check := PasswordCheck{Valid: true, Requirements: map[string]bool{}}
	if password == "" {
		return check
	}

	special := p.SpecialChars
	if special == "" {
		special = DefaultSpecialChars
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if strings.ContainsRune(special, r) {
			hasSpecial = true
		}
	}

	if p.MinLength > 0 {
		ok := len(password) >= p.MinLength
		check.record(ReqMinLength, ok, fmt.Sprintf("password must be at least %d characters long", p.MinLength))
	}
	if p.RequireDigit {
		check.record(ReqDigit, hasDigit, "password must contain at least one number")
	}
	if p.RequireUpper {
		check.record(ReqUpper, hasUpper, "password must contain at least one uppercase letter")
	}
	if p.RequireLower {
		check.record(ReqLower, hasLower, "password must contain at least one lowercase letter")
	}
	if p.RequireSpecial {
		check.record(ReqSpecial, hasSpecial, "password must contain at least one special character")
	}

	return check
}

func (c *PasswordCheck) record(key string, ok bool, failureMsg string) {
	c.Requirements[key] = ok
	if !ok {
		c.Valid = false
		c.Errors = append(c.Errors, failureMsg)
	}
}
