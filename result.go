package surveygate

import (
	"fmt"

	"github.com/jmfield/surveygate/i18n"
	"github.com/jmfield/surveygate/promptval"
)

// Result is the outcome of validating one upload. A Result is either
// accepted or carries the single Issue that aborted the walk.
type Result struct {
	rejection *Issue
}

// Accepted reports whether the upload passed every check.
func (r Result) Accepted() bool { return r.rejection == nil }

// Rejection returns the Issue that aborted validation, or nil for an
// accepted upload.
func (r Result) Rejection() *Issue { return r.rejection }

// Err converts a rejected Result into an Issues error, nil when accepted.
// Useful for callers that propagate rejections through error-shaped
// plumbing instead of inspecting the Result.
func (r Result) Err() error {
	if r.rejection == nil {
		return nil
	}
	return Issues{*r.rejection}
}

func accepted() Result { return Result{} }

func rejectedf(path, code, format string, args ...any) Result {
	return Result{rejection: &Issue{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Hint:    i18n.T(code, nil),
	}}
}

// rejectValue lifts a prompt-value failure into an Issue at the value's
// path.
func rejectValue(path string, verr *promptval.Error) Result {
	return Result{rejection: &Issue{
		Path:    path,
		Code:    verr.Code,
		Message: verr.Message,
		Hint:    i18n.T(verr.Code, i18nData(verr.Params)),
		Params:  verr.Params,
	}}
}

// i18nData stringifies structured issue params for translator
// interpolation.
func i18nData(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	data := make(map[string]string, len(params))
	for k, v := range params {
		data[k] = fmt.Sprint(v)
	}
	return data
}
