package promptval

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jmfield/surveygate/campaign"
)

// timestampLayout is the strict upload format; time.Parse does not roll
// over invalid components.
const timestampLayout = "2006-01-02T15:04:05"

func validateNumber(p *campaign.Prompt, r Response) *Error {
	n, ok := asInt(r.Value())
	if !ok {
		return failf(CodeInvalidType, "value of %s is not an integer", p.ID)
	}
	min, max := *p.Properties.Min, *p.Properties.Max
	if n < min || n > max {
		return failf(CodeOutOfRange, "value %d of %s is outside [%d,%d]", n, p.ID, min, max).
			withParams(map[string]any{"min": min, "max": max, "got": n})
	}
	return nil
}

func validateText(p *campaign.Prompt, r Response) *Error {
	s, ok := r.Value().(string)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not text", p.ID)
	}
	// Length in characters, not bytes.
	n := int64(utf8.RuneCountInString(s))
	min, max := *p.Properties.Min, *p.Properties.Max
	if n < min || n > max {
		return failf(CodeOutOfRange, "text length %d of %s is outside [%d,%d]", n, p.ID, min, max).
			withParams(map[string]any{"min": min, "max": max, "got": n})
	}
	return nil
}

func validateSingleChoice(p *campaign.Prompt, r Response) *Error {
	key, ok := asString(r.Value())
	if !ok {
		return failf(CodeInvalidType, "value of %s is not a choice key", p.ID)
	}
	if _, ok := p.Properties.Choices[key]; !ok {
		return failf(CodeInvalidChoice, "value %q of %s is not a configured choice", key, p.ID)
	}
	return nil
}

func validateMultiChoice(p *campaign.Prompt, r Response) *Error {
	arr, ok := r.Value().([]any)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not an array", p.ID)
	}
	for i, el := range arr {
		key, ok := asString(el)
		if !ok {
			return failf(CodeInvalidType, "element %d of %s is not a choice key", i, p.ID)
		}
		if _, ok := p.Properties.Choices[key]; !ok {
			return failf(CodeInvalidChoice, "element %q of %s is not a configured choice", key, p.ID)
		}
	}
	return nil
}

func validateSingleChoiceCustom(p *campaign.Prompt, r Response) *Error {
	set, verr := customChoiceSet(r.CustomChoices())
	if verr != nil {
		return verr
	}
	key, ok := asString(r.Value())
	if !ok {
		return failf(CodeInvalidType, "value of %s is not a choice key", p.ID)
	}
	if _, ok := set[key]; !ok {
		return failf(CodeInvalidChoice, "value %q of %s is not in the uploaded choice set", key, p.ID)
	}
	return nil
}

func validateMultiChoiceCustom(p *campaign.Prompt, r Response) *Error {
	set, verr := customChoiceSet(r.CustomChoices())
	if verr != nil {
		return verr
	}
	arr, ok := r.Value().([]any)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not an array", p.ID)
	}
	for i, el := range arr {
		key, ok := asString(el)
		if !ok {
			return failf(CodeInvalidType, "element %d of %s is not a choice key", i, p.ID)
		}
		if _, ok := set[key]; !ok {
			return failf(CodeInvalidChoice, "element %q of %s is not in the uploaded choice set", key, p.ID)
		}
	}
	return nil
}

func validateTimestamp(p *campaign.Prompt, r Response) *Error {
	s, ok := r.Value().(string)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not a timestamp string", p.ID)
	}
	if _, err := time.Parse(timestampLayout, s); err != nil {
		return failf(CodeInvalidFormat, "value %q of %s is not a yyyy-MM-ddTHH:mm:ss timestamp", s, p.ID)
	}
	return nil
}

func validatePhoto(p *campaign.Prompt, r Response) *Error {
	s, ok := r.Value().(string)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not a UUID string", p.ID)
	}
	// uuid.Parse also accepts urn:, braced, and unhyphenated encodings;
	// the wire format requires the canonical 8-4-4-4-12 form.
	if len(s) != 36 {
		return failf(CodeInvalidFormat, "value %q of %s is not a canonical UUID", s, p.ID)
	}
	if _, err := uuid.Parse(s); err != nil {
		return failf(CodeInvalidFormat, "value %q of %s is not a canonical UUID", s, p.ID)
	}
	return nil
}

func validateMilitaryTime(p *campaign.Prompt, r Response) *Error {
	s, ok := r.Value().(string)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not a time string", p.ID)
	}
	if len(s) != 5 || s[2] != ':' {
		return failf(CodeInvalidFormat, "value %q of %s is not HH:MM", s, p.ID)
	}
	hh, err := strconv.Atoi(s[:2])
	if err != nil || hh < 0 || hh > 23 {
		return failf(CodeInvalidFormat, "value %q of %s has hours outside [0,23]", s, p.ID)
	}
	mm, err := strconv.Atoi(s[3:])
	if err != nil || mm < 0 || mm > 59 {
		return failf(CodeInvalidFormat, "value %q of %s has minutes outside [0,59]", s, p.ID)
	}
	return nil
}

func validateBooleanArray(p *campaign.Prompt, r Response) *Error {
	arr, ok := r.Value().([]any)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not an array", p.ID)
	}
	if len(arr) != p.Properties.Length {
		return failf(CodeInvalidFormat, "array of %s has %d elements, expected %d", p.ID, len(arr), p.Properties.Length).
			withParams(map[string]any{"expected": p.Properties.Length, "got": len(arr)})
	}
	for i, el := range arr {
		s, ok := el.(string)
		if !ok || (s != "t" && s != "f") {
			return failf(CodeInvalidFormat, "element %d of %s is not \"t\" or \"f\"", i, p.ID)
		}
	}
	return nil
}

func validateIntegerMap(p *campaign.Prompt, r Response) *Error {
	n, ok := asInt(r.Value())
	if !ok {
		return failf(CodeInvalidType, "value of %s is not an integer", p.ID)
	}
	for _, k := range p.Properties.Keys {
		if n == k {
			return nil
		}
	}
	return failf(CodeInvalidChoice, "value %d of %s is not a configured key", n, p.ID)
}

func validateRemoteActivity(p *campaign.Prompt, r Response) *Error {
	arr, ok := r.Value().([]any)
	if !ok {
		return failf(CodeInvalidType, "value of %s is not an array", p.ID)
	}
	retries := p.Properties.Retries
	if len(arr) > retries+1 {
		return failf(CodeOutOfRange, "remote activity %s returned %d responses, at most %d allowed", p.ID, len(arr), retries+1).
			withParams(map[string]any{"max": retries + 1, "got": len(arr)})
	}
	checked := len(arr)
	if checked > retries {
		checked = retries
	}
	for i := 0; i < checked; i++ {
		obj, ok := arr[i].(map[string]any)
		if !ok {
			return failf(CodeInvalidType, "element %d of %s is not an object", i, p.ID)
		}
		score, ok := asFloat(obj["score"])
		if !ok || math.IsNaN(score) || math.IsInf(score, 0) {
			return failf(CodeInvalidFormat, "element %d of %s has no valid score", i, p.ID)
		}
	}
	if len(arr) > retries {
		// Entries past the retry budget are tolerated but not validated.
		slog.Warn("remote activity response has entries beyond the configured retries",
			"prompt_id", p.ID, "entries", len(arr), "retries", retries)
	}
	return nil
}

// ---- value coercion helpers ----

// asString accepts the scalar encodings a choice key can arrive as.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case float64:
		if n == math.Trunc(n) {
			return int64(n), true
		}
		return 0, false
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
