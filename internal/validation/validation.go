// Package validation formats the errors reported for settings, flags, and
// command arguments that must be one of a fixed set of values.
package validation

import (
	"fmt"
	"slices"
	"strings"
)

// FormatValidValues joins string-like values for error messages.
func FormatValidValues[T ~string](values []T) string {
	formatted := make([]string, 0, len(values))
	for _, value := range values {
		formatted = append(formatted, string(value))
	}
	return strings.Join(formatted, ", ")
}

// InvalidValueError reports a value outside its allowed set.
type InvalidValueError struct {
	// Kind, when set, is the sentinel the error unwraps to.
	Kind  error
	Field string
	Value string
	Valid []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s %q is invalid (valid: %s)", e.Field, e.Value, FormatValidValues(e.Valid))
}

func (e *InvalidValueError) Unwrap() error { return e.Kind }

// OneOf returns nil if value is in valid and an *InvalidValueError naming
// field otherwise.
func OneOf[T ~string](kind error, field string, value T, valid []T) error {
	if slices.Contains(valid, value) {
		return nil
	}
	names := make([]string, 0, len(valid))
	for _, v := range valid {
		names = append(names, string(v))
	}
	return &InvalidValueError{Kind: kind, Field: field, Value: string(value), Valid: names}
}
