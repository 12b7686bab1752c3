package common

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// ValidationError maps each rejected input field to the first problem found with it.
type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Errors))

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+e.Errors[f])
	}

	return "invalid input: " + strings.Join(parts, "; ")
}

type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// AddError keeps the first message recorded for a field.
func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) Required(field, value string) {
	v.Check(value != "", field, "must be provided")
}

// Length counts runes. A max of zero leaves the length unbounded.
func (v *Validator) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)

	if max <= 0 {
		v.Check(n >= min, field, fmt.Sprintf("must be at least %d characters long", min))
		return
	}

	v.Check(n >= min && n <= max, field, fmt.Sprintf("must be between %d and %d characters long", min, max))
}

func (v *Validator) Matches(field, value string, rx *regexp.Regexp, message string) {
	v.Check(rx.MatchString(value), field, message)
}

// Err returns nil when nothing was rejected.
func (v *Validator) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}

	return ValidationError{Errors: v.Errors}
}
