// Package validation implements the per-field rule set applied to form
// input before a record is submitted. It is deliberately forgiving at its
// boundary: a rule failure produces a message, never a panic.
package validation

import (
	"fmt"
	"regexp"
)

// Result is the outcome of validating a single field.
type Result struct {
	Valid   bool
	Message string
}

// patterns maps field names to their format rules. Fields without an
// entry (program, street_address, city, province_state, country) are
// required-only.
var patterns = map[string]*regexp.Regexp{
	// Letters (upper/lower), Latin-1 accents, apostrophes, hyphens; min 2 chars.
	"first_name": regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}'-]{2,}$`),
	"last_name":  regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}'-]{2,}$`),

	// Exactly 10 characters drawn from digits, spaces, hyphens, parens.
	// The user-facing message says "at least 10 digits"; the rule is
	// authoritative and the message is known cosmetic debt.
	"phone": regexp.MustCompile(`^[\d\s\-()]{10}$`),

	// local@domain.tld shape, not full RFC validation.
	"email": regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),

	// Year of study like "Y1".."Y4", case-insensitive.
	"year": regexp.MustCompile(`(?i)^y[1-4]$`),

	// Canadian postal code, optional space in the middle (e.g. T2N 1N4).
	"postal_code": regexp.MustCompile(`(?i)^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`),
}

// messages holds the per-field friendly error shown when a pattern fails.
var messages = map[string]string{
	"first_name":     "Please enter your first name.",
	"last_name":      "Please enter your last name.",
	"email":          "Please enter your email (e.g. example@example.com)",
	"program":        "Please enter your program.",
	"year":           "Please enter your year (e.g. Y1)",
	"phone":          "Phone number must be at least 10 digits.",
	"street_address": "Please enter your address",
	"country":        "Please enter your country",
	"city":           "Please enter your city",
	"province_state": "please select your province",
	"postal_code":    "Postal code must follow Canadian format (e.g., T2N 1N4).",
}

// Validate checks a single raw field value.
//
// An empty value is always invalid with a required-message. Otherwise,
// if a pattern is registered for the field and does not match, the
// field-specific message is returned. Any internal fault is converted
// into a generic invalid result so callers never crash on a validation
// call.
func Validate(field, value string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Valid: false, Message: fmt.Sprintf("Error validating %s", field)}
		}
	}()

	if value == "" {
		return Result{Valid: false, Message: fmt.Sprintf("%s is required.", field)}
	}

	if p, ok := patterns[field]; ok && !p.MatchString(value) {
		return Result{Valid: false, Message: messages[field]}
	}

	return Result{Valid: true}
}

// ValidateAll runs Validate over a set of fields and returns the messages
// for every failing field, keyed by field name. An empty map means the
// whole set passed.
func ValidateAll(fields map[string]string) map[string]string {
	failures := make(map[string]string)
	for name, value := range fields {
		if res := Validate(name, value); !res.Valid {
			failures[name] = res.Message
		}
	}
	return failures
}
