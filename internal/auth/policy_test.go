package auth

import (
	"reflect"
	"strings"
	"testing"
)

func TestPasswordPolicyValidate(t *testing.T) {
	cases := []struct {
		name       string
		policy     PasswordPolicy
		password   string
		wantOK     bool
		violations []string
	}{
		{
			name:     "valid default",
			policy:   DefaultPasswordPolicy(),
			password: "Str0ngP@ss",
			wantOK:   true,
		},
		{
			name:       "empty",
			policy:     DefaultPasswordPolicy(),
			password:   "",
			violations: []string{"Password is required."},
		},
		{
			name:       "whitespace only skips other rules",
			policy:     DefaultPasswordPolicy(),
			password:   "   ",
			violations: []string{"Password is required."},
		},
		{
			name:     "collects every violation",
			policy:   DefaultPasswordPolicy(),
			password: "abc",
			violations: []string{
				"Password must be at least 8 characters long.",
				"Password must contain at least one uppercase letter (A-Z).",
				"Password must contain at least one number (0-9).",
			},
		},
		{
			name:       "too long",
			policy:     DefaultPasswordPolicy(),
			password:   "Aa1" + strings.Repeat("x", 62),
			violations: []string{"Password must not exceed 64 characters."},
		},
		{
			name:       "missing lowercase",
			policy:     DefaultPasswordPolicy(),
			password:   "ABCDEFG1",
			violations: []string{"Password must contain at least one lowercase letter (a-z)."},
		},
		{
			name:       "special required",
			policy:     PasswordPolicy{MinLength: 8, MaxLength: 64, RequireSpecial: true},
			password:   "plainpassword",
			violations: []string{"Password must contain at least one special character."},
		},
		{
			name:     "special satisfied",
			policy:   PasswordPolicy{MinLength: 8, MaxLength: 64, RequireSpecial: true},
			password: `plain"password`,
			wantOK:   true,
		},
		{
			name:     "rules disabled",
			policy:   PasswordPolicy{MinLength: 1, MaxLength: 64},
			password: "x",
			wantOK:   true,
		},
		{
			name:       "length counts characters not bytes",
			policy:     PasswordPolicy{MinLength: 4, MaxLength: 4},
			password:   "ééééé",
			violations: []string{"Password must not exceed 4 characters."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.policy.Validate(tc.password)
			if got.OK != tc.wantOK {
				t.Fatalf("OK = %v, want %v (message %q)", got.OK, tc.wantOK, got.Message)
			}
			if tc.wantOK {
				if got.Message != "Password is valid." {
					t.Fatalf("unexpected success message %q", got.Message)
				}
				return
			}
			if !reflect.DeepEqual(got.Violations, tc.violations) {
				t.Fatalf("violations = %q, want %q", got.Violations, tc.violations)
			}
		})
	}
}

func TestPasswordPolicyFailureMessageJoinsViolations(t *testing.T) {
	got := DefaultPasswordPolicy().Validate("abcdefgh")
	want := "Password does not meet requirements: " +
		"Password must contain at least one uppercase letter (A-Z). " +
		"Password must contain at least one number (0-9)."
	if got.Message != want {
		t.Fatalf("message = %q, want %q", got.Message, want)
	}
}

func TestPasswordPolicyShortPasswordsAlwaysReportLength(t *testing.T) {
	p := DefaultPasswordPolicy()
	for n := 1; n < p.MinLength; n++ {
		pw := ("aA1" + strings.Repeat("z", n))[:n]
		got := p.Validate(pw)
		if got.OK {
			t.Fatalf("length %d: expected failure", n)
		}
		if !strings.Contains(got.Message, "at least 8 characters long") {
			t.Fatalf("length %d: missing length violation in %q", n, got.Message)
		}
	}
}

func TestPasswordPolicyCompliantPasswordsWithinBoundsPass(t *testing.T) {
	p := DefaultPasswordPolicy()
	for n := p.MinLength; n <= p.MaxLength; n++ {
		pw := "aA1" + strings.Repeat("q", n-3)
		if got := p.Validate(pw); !got.OK {
			t.Fatalf("length %d: unexpected failure %q", n, got.Message)
		}
	}
}
