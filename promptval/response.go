// Package promptval validates individual prompt response values against
// their prompt configuration. One stateless validator exists per prompt
// type; all of them share the skipped/not-displayed preconditions and are
// dispatched through a Registry built once at configuration-load time.
package promptval

import "github.com/jmfield/surveygate/condition"

// Kind discriminates the three states of a prompt response.
type Kind int

const (
	// KindValue means the participant answered; Value holds the answer.
	KindValue Kind = iota
	// KindSkipped means the participant declined to answer.
	KindSkipped
	// KindNotDisplayed means the display condition suppressed the prompt.
	KindNotDisplayed
)

// Response is the tagged union of an uploaded prompt response: exactly one
// of an answer value or a no-response reason. The wire sentinels
// ("SKIPPED", "NOT_DISPLAYED") are resolved into this form at the decode
// boundary so nothing downstream string-compares them.
type Response struct {
	kind   Kind
	value  any
	custom []CustomChoice
}

// CustomChoice is one entry of a per-upload ad hoc choice set.
type CustomChoice struct {
	ID    any // must parse as an integer; pairwise unique
	Value any // must be a non-empty string
}

// NewValue builds a Response carrying an answer value.
func NewValue(v any) Response { return Response{kind: KindValue, value: v} }

// NewSkipped builds the skipped Response.
func NewSkipped() Response { return Response{kind: KindSkipped} }

// NewNotDisplayed builds the not-displayed Response.
func NewNotDisplayed() Response { return Response{kind: KindNotDisplayed} }

// WithCustomChoices attaches the uploaded custom choice set.
func (r Response) WithCustomChoices(cc []CustomChoice) Response {
	r.custom = cc
	return r
}

// Kind returns the response's discriminator.
func (r Response) Kind() Kind { return r.kind }

// Value returns the answer value; only meaningful when Kind is KindValue.
func (r Response) Value() any { return r.value }

// CustomChoices returns the uploaded ad hoc choice set, if any.
func (r Response) CustomChoices() []CustomChoice { return r.custom }

// NoResponse maps a no-answer Response onto the condition engine's
// sentinel.
func (r Response) NoResponse() (condition.NoResponse, bool) {
	switch r.kind {
	case KindSkipped:
		return condition.Skipped, true
	case KindNotDisplayed:
		return condition.NotDisplayed, true
	default:
		return 0, false
	}
}
