package promptval

import "fmt"

// Validation failure codes. The root package aliases these into its Issue
// code space.
const (
	CodeInvalidType         = "invalid_type"
	CodeOutOfRange          = "out_of_range"
	CodeInvalidChoice       = "invalid_choice"
	CodeInvalidCustomChoice = "invalid_custom_choice"
	CodeInvalidFormat       = "invalid_format"
	CodeNotSkippable        = "not_skippable"
)

// Error is the structured verdict of a failed value validation. Validators
// return nil on success; they never panic and never mutate their inputs.
type Error struct {
	Code    string
	Message string
	// Params carries structured parameters (e.g., {"min":1, "max":10})
	// for i18n and observability.
	Params map[string]any
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func failf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) withParams(params map[string]any) *Error {
	e.Params = params
	return e
}
