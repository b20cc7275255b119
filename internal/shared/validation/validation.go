// Package validation holds the field level checks run against form posts.
//
// Each form DTO exposes a Validate method that lists its fields in page
// order and runs a chain of rules per field. A field reports at most one
// error, the first rule that fails, which is what the GOV.UK error summary
// expects. Conditional rules only run when their predicate holds.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is one failed field, keyed by the form property name
type FieldError struct {
	Property string `json:"property"`
	Error    string `json:"error"`
}

// Errors is the ordered list of failures for a form. Empty means accepted.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Property+": "+fe.Error)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Empty reports whether no field failed
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Has reports whether property failed
func (e Errors) Has(property string) bool {
	return e.For(property) != ""
}

// For returns the message for property, or "" when it passed
func (e Errors) For(property string) string {
	for _, fe := range e {
		if fe.Property == property {
			return fe.Error
		}
	}
	return ""
}

// Add appends a failure
func (e *Errors) Add(property, message string) {
	*e = append(*e, FieldError{Property: property, Error: message})
}

// Check runs rules against value in order and records the first failure
func (e *Errors) Check(property, value string, rules ...Rule) {
	if msg := First(value, rules...); msg != "" {
		e.Add(property, msg)
	}
}

// CheckDate is Check for day/month/year inputs
func (e *Errors) CheckDate(property string, date SimpleDate, rules ...DateRule) {
	for _, rule := range rules {
		if msg := rule(date); msg != "" {
			e.Add(property, msg)
			return
		}
	}
}

// Rule returns an error message for a bad value and "" for a good one
type Rule func(value string) string

// First returns the message of the first failing rule
func First(value string, rules ...Rule) string {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			return msg
		}
	}
	return ""
}

// Required fails on empty or whitespace-only input
func Required(message string) Rule {
	return func(value string) string {
		if validate.Var(strings.TrimSpace(value), "required") != nil {
			return message
		}
		return ""
	}
}

// OneOf fails unless value is one of codes. Blank input passes so it can be
// paired with Required for the "missing" message. Codes must not contain spaces.
func OneOf(codes []string, message string) Rule {
	tag := "oneof=" + strings.Join(codes, " ")
	return func(value string) string {
		if value == "" {
			return ""
		}
		if validate.Var(value, tag) != nil {
			return message
		}
		return ""
	}
}

// MaxLength fails when value has more than n characters
func MaxLength(n int, message string) Rule {
	tag := fmt.Sprintf("max=%d", n)
	return func(value string) string {
		if validate.Var(value, tag) != nil {
			return message
		}
		return ""
	}
}

// Numeric fails unless value is a whole number
func Numeric(message string) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		if validate.Var(value, "numeric") != nil || strings.ContainsAny(value, ".") {
			return message
		}
		return ""
	}
}

// IntBetween fails unless value parses to an integer in [min, max]
func IntBetween(min, max int, message string) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < min || n > max {
			return message
		}
		return ""
	}
}

// TimeOfDay fails unless value is a 24 hour HH:MM time
func TimeOfDay(message string) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		if validate.Var(value, "datetime=15:04") != nil {
			return message
		}
		return ""
	}
}

// When runs rules only while predicate holds. The predicate usually looks at
// a sibling field, e.g. "otherRequester" only matters for SOMEONE_ELSE.
func When(predicate func() bool, rules ...Rule) Rule {
	return func(value string) string {
		if !predicate() {
			return ""
		}
		return First(value, rules...)
	}
}
