package password

import (
	"strings"
	"unicode"

	"resort/shared/failure"
)

// Symbols is the punctuation set accepted by the password policy.
const Symbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

const minLength = 8

type rule struct {
	check   func(string) bool
	message string
}

// Rules run in a fixed order and evaluation stops at the first failure.
var rules = []rule{
	{
		check:   func(s string) bool { return len(s) >= minLength },
		message: "password must be at least 8 characters long",
	},
	{
		check:   func(s string) bool { return strings.ContainsFunc(s, unicode.IsUpper) },
		message: "password must contain an uppercase letter",
	},
	{
		check:   func(s string) bool { return strings.ContainsFunc(s, unicode.IsLower) },
		message: "password must contain a lowercase letter",
	},
	{
		check:   func(s string) bool { return strings.ContainsFunc(s, unicode.IsDigit) },
		message: "password must contain a digit",
	},
	{
		check:   func(s string) bool { return strings.ContainsAny(s, Symbols) },
		message: "password must contain a symbol",
	},
}

// CheckPolicy validates a plaintext password against the registration/reset
// policy. Login is exempt so accounts predating a policy change can still
// authenticate. The first failing rule is returned.
func CheckPolicy(password string) error {
	for _, r := range rules {
		if !r.check(password) {
			return failure.BadRequestFromString(r.message) //nolint:wrapcheck
		}
	}

	return nil
}
