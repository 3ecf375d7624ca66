package surveygate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmfield/surveygate/promptval"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Structural problems in the uploaded payload.
	CodeParseError      = "parse_error"
	CodeMissingKey      = "missing_key"
	CodeMalformedEntry  = "malformed_entry"
	CodeUnknownSurvey   = "unknown_survey"
	CodeUnknownPrompt   = "unknown_prompt"
	CodeUnknownSet      = "unknown_repeatable_set"
	CodeCountMismatch   = "count_mismatch"
	CodeSetNotDisplayed = "set_not_displayed"
	CodeSetDisplayed    = "set_displayed"
	// Display-condition consistency failures.
	CodeConditionViolation = "condition_violation"
)

// Per-value failure codes, produced by the promptval validators and
// aliased here so callers can match rejections from one code space.
const (
	CodeInvalidType         = promptval.CodeInvalidType
	CodeOutOfRange          = promptval.CodeOutOfRange
	CodeInvalidChoice       = promptval.CodeInvalidChoice
	CodeInvalidCustomChoice = promptval.CodeInvalidCustomChoice
	CodeInvalidFormat       = promptval.CodeInvalidFormat
	CodeNotSkippable        = promptval.CodeNotSkippable
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer into the upload (for example: /responses/2/value).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected formats, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_prompt at /responses/2
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
