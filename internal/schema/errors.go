package schema

import "fmt"

// ValidationError reports admin or user input that violates a declared
// constraint. Always recoverable by fixing the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a mutation or lookup against an id that does not
// exist in the current form.
type NotFoundError struct {
	Kind string // "form", "section" or "question"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvariantError reports a malformed mutation request, e.g. a reorder list
// that is not a permutation of the current ids. State is left unchanged.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return e.Reason
}

// SchemaError reports structurally invalid persisted form data. A form that
// fails to deserialize must not be rendered partially.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "invalid form schema: " + e.Reason
}
