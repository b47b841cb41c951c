package auth

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const (
	msgPasswordRequired = "Password is required."
	msgPasswordValid    = "Password is valid."
	msgPolicyPrefix     = "Password does not meet requirements: "
)

// PasswordPolicy holds the rules a new password is checked against.
// Length bounds are always enforced; the character-class rules are toggles.
type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireLowercase bool
	RequireUppercase bool
	RequireDigit     bool
	RequireSpecial   bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		MaxLength:        64,
		RequireLowercase: true,
		RequireUppercase: true,
		RequireDigit:     true,
	}
}

type ValidationResult struct {
	OK         bool
	Message    string
	Violations []string
}

// Validate reports every violated rule, not just the first one.
func (p PasswordPolicy) Validate(candidate string) ValidationResult {
	if strings.TrimSpace(candidate) == "" {
		return ValidationResult{Message: msgPasswordRequired, Violations: []string{msgPasswordRequired}}
	}

	var violations []string
	n := utf8.RuneCountInString(candidate)
	if n < p.MinLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long.", p.MinLength))
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		violations = append(violations, fmt.Sprintf("Password must not exceed %d characters.", p.MaxLength))
	}

	var lower, upper, digit, special bool
	for _, r := range candidate {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}
	if p.RequireLowercase && !lower {
		violations = append(violations, "Password must contain at least one lowercase letter (a-z).")
	}
	if p.RequireUppercase && !upper {
		violations = append(violations, "Password must contain at least one uppercase letter (A-Z).")
	}
	if p.RequireDigit && !digit {
		violations = append(violations, "Password must contain at least one number (0-9).")
	}
	if p.RequireSpecial && !special {
		violations = append(violations, "Password must contain at least one special character.")
	}

	if len(violations) > 0 {
		return ValidationResult{
			Message:    msgPolicyPrefix + strings.Join(violations, " "),
			Violations: violations,
		}
	}
	return ValidationResult{OK: true, Message: msgPasswordValid}
}
