package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is one invalid setting, named by its HCL path.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every invalid setting of a config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

func (e *ValidationErrors) add(field, format string, args ...any) {
	*e = append(*e, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e ValidationErrors) sorted() ValidationErrors {
	slices.SortStableFunc(e, func(a, b ValidationError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return e
}
