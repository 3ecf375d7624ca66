package surveygate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmfield/surveygate/campaign"
	"github.com/jmfield/surveygate/condition"
	"github.com/jmfield/surveygate/promptval"
)

// walk checks the decoded upload in responses-array order, accumulating a
// response map so each prompt's display condition sees every earlier
// answer. The first failure aborts the walk.
func (e *Engine) walk(ctx context.Context, doc map[string]any) (Result, error) {
	surveyID, ok := getString(doc, "survey_id")
	if !ok {
		return rejectedf("/survey_id", CodeMissingKey, "survey_id is missing or not a string"), nil
	}
	if !e.cfg.SurveyExists(surveyID) {
		return rejectedf("/survey_id", CodeUnknownSurvey, "survey %q is not part of campaign %s", surveyID, e.cfg.URN()), nil
	}
	entries, ok := getArray(doc, "responses")
	if !ok {
		return rejectedf("/responses", CodeMissingKey, "responses is missing or not an array"), nil
	}

	responses := make(map[string]any, len(entries))
	for i, raw := range entries {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		path := fmt.Sprintf("/responses/%d", i)
		obj, ok := raw.(map[string]any)
		if !ok {
			return rejectedf(path, CodeMalformedEntry, "response entry is not an object"), nil
		}
		if pid, ok := getString(obj, "prompt_id"); ok {
			p, ok := e.cfg.Prompt(surveyID, pid)
			if !ok {
				return rejectedf(path, CodeUnknownPrompt, "survey %q has no prompt %q", surveyID, pid), nil
			}
			res, err := e.checkPrompt(path, p, obj, responses)
			if err != nil || !res.Accepted() {
				return res, err
			}
			continue
		}
		if setID, ok := getString(obj, "repeatable_set_id"); ok {
			res, err := e.checkRepeatableSet(path, surveyID, setID, obj, responses)
			if err != nil || !res.Accepted() {
				return res, err
			}
			continue
		}
		return rejectedf(path, CodeMalformedEntry, "entry has neither prompt_id nor repeatable_set_id"), nil
	}
	return accepted(), nil
}

// checkPrompt validates one prompt response: display consistency first,
// then the type validator. On success the resolved value is recorded in
// the response map under the prompt id.
func (e *Engine) checkPrompt(path string, p *campaign.Prompt, obj map[string]any, responses map[string]any) (Result, error) {
	raw, present := obj["value"]
	if !present {
		return rejectedf(path+"/value", CodeMissingKey, "prompt %s has no value", p.ID), nil
	}
	resp, res := e.toResponse(path, p, raw, obj)
	if !res.Accepted() {
		return res, nil
	}
	notDisplayed := resp.Kind() == promptval.KindNotDisplayed
	if res, err := e.checkDisplay(path, p.ID, p.Condition, notDisplayed, responses); err != nil || !res.Accepted() {
		return res, err
	}
	if verr := e.reg.Validate(p, resp); verr != nil {
		return rejectValue(path+"/value", verr), nil
	}
	responses[p.ID] = conditionValue(p, resp)
	return accepted(), nil
}

// toResponse resolves the wire sentinels into a tagged Response and, for
// custom choice prompts, decodes the uploaded choice set.
func (e *Engine) toResponse(path string, p *campaign.Prompt, raw any, obj map[string]any) (promptval.Response, Result) {
	if s, ok := raw.(string); ok {
		switch {
		case s == condition.Skipped.String():
			return promptval.NewSkipped(), accepted()
		case s == condition.NotDisplayed.String():
			return promptval.NewNotDisplayed(), accepted()
		case s == "null" && p.Type == campaign.TypePhoto:
			// Legacy clients upload the string "null" for a photo prompt the
			// condition hid.
			return promptval.NewNotDisplayed(), accepted()
		}
	}
	resp := promptval.NewValue(raw)
	if p.Type.Custom() {
		cc, res := decodeCustomChoices(path, obj)
		if !res.Accepted() {
			return promptval.Response{}, res
		}
		resp = resp.WithCustomChoices(cc)
	}
	return resp, accepted()
}

// decodeCustomChoices pulls the ad hoc choice set off the entry. A missing
// set passes through as nil; the value validator rejects it with the
// precise code. A present set with the wrong shape is a structural defect
// and rejects here.
func decodeCustomChoices(path string, obj map[string]any) ([]promptval.CustomChoice, Result) {
	raw, present := obj["custom_choices"]
	if !present {
		return nil, accepted()
	}
	ccPath := path + "/custom_choices"
	arr, ok := raw.([]any)
	if !ok {
		return nil, rejectedf(ccPath, CodeMalformedEntry, "custom_choices is not an array")
	}
	out := make([]promptval.CustomChoice, 0, len(arr))
	for i, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			return nil, rejectedf(fmt.Sprintf("%s/%d", ccPath, i), CodeMalformedEntry, "custom choice is not an object")
		}
		id, idOK := m["choice_id"]
		val, valOK := m["choice_value"]
		if !idOK || !valOK {
			return nil, rejectedf(fmt.Sprintf("%s/%d", ccPath, i), CodeMissingKey, "custom choice needs choice_id and choice_value")
		}
		out = append(out, promptval.CustomChoice{ID: id, Value: val})
	}
	return out, accepted()
}

// checkDisplay enforces consistency between a response and its display
// condition: a suppressed response needs a false condition and an answered
// (or skipped) response needs a true one. An unconditioned item is always
// displayed. An evaluation error means a condition referenced an id the
// walker never recorded, which load-time validation rules out for
// well-ordered uploads; it surfaces as an error, not a rejection.
func (e *Engine) checkDisplay(path, itemID string, cond *condition.Condition, notDisplayed bool, responses map[string]any) (Result, error) {
	if cond == nil {
		if notDisplayed {
			return rejectedf(path, CodeConditionViolation, "%s has no condition but was not displayed", itemID), nil
		}
		return accepted(), nil
	}
	shown, err := cond.Evaluate(responses)
	if err != nil {
		return Result{}, fmt.Errorf("surveygate: evaluating condition of %s: %w", itemID, err)
	}
	if notDisplayed && shown {
		return rejectedf(path, CodeConditionViolation, "%s was not displayed but its condition holds", itemID), nil
	}
	if !notDisplayed && !shown {
		return rejectedf(path, CodeConditionViolation, "%s was answered but its condition does not hold", itemID), nil
	}
	return accepted(), nil
}

// checkRepeatableSet validates a repeatable set entry: the skipped and
// not_displayed flags, consistency with the set's condition, the coupling
// between not_displayed and the iterations array, and every iteration's
// prompts against a per-iteration scope layered over the flat responses.
func (e *Engine) checkRepeatableSet(path, surveyID, setID string, obj map[string]any, responses map[string]any) (Result, error) {
	rs, ok := e.cfg.RepeatableSet(surveyID, setID)
	if !ok {
		return rejectedf(path, CodeUnknownSet, "survey %q has no repeatable set %q", surveyID, setID), nil
	}
	// skipped is shape-checked only; a displayed set uploads its completed
	// iterations whether or not the participant bailed early.
	if _, ok := getBool(obj, "skipped"); !ok {
		return rejectedf(path+"/skipped", CodeMissingKey, "skipped is missing or not a boolean"), nil
	}
	notDisplayed, ok := getBool(obj, "not_displayed")
	if !ok {
		return rejectedf(path+"/not_displayed", CodeMissingKey, "not_displayed is missing or not a boolean"), nil
	}
	iters, ok := getArray(obj, "responses")
	if !ok {
		return rejectedf(path+"/responses", CodeMissingKey, "responses is missing or not an array"), nil
	}
	if res, err := e.checkDisplay(path, rs.ID, rs.Condition, notDisplayed, responses); err != nil || !res.Accepted() {
		return res, err
	}
	if notDisplayed {
		if len(iters) != 0 {
			return rejectedf(path+"/responses", CodeSetNotDisplayed, "repeatable set %s was not displayed but carries responses", rs.ID), nil
		}
		responses[rs.ID] = condition.NotDisplayed
		return accepted(), nil
	}
	if len(iters) == 0 {
		return rejectedf(path+"/responses", CodeSetDisplayed, "repeatable set %s was displayed but carries no responses", rs.ID), nil
	}

	for j, iterRaw := range iters {
		iterPath := fmt.Sprintf("%s/responses/%d", path, j)
		iter, ok := iterRaw.([]any)
		if !ok {
			return rejectedf(iterPath, CodeMalformedEntry, "iteration is not an array"), nil
		}
		if len(iter) != len(rs.Prompts) {
			return rejectedf(iterPath, CodeCountMismatch, "iteration has %d responses, repeatable set %s defines %d prompts", len(iter), rs.ID, len(rs.Prompts)), nil
		}
		// Conditions inside an iteration see the flat answers plus this
		// iteration's own, never a sibling iteration's.
		scope := make(map[string]any, len(responses)+len(iter))
		for k, v := range responses {
			scope[k] = v
		}
		for k, prRaw := range iter {
			prPath := fmt.Sprintf("%s/%d", iterPath, k)
			prObj, ok := prRaw.(map[string]any)
			if !ok {
				return rejectedf(prPath, CodeMalformedEntry, "response entry is not an object"), nil
			}
			pid, ok := getString(prObj, "prompt_id")
			if !ok {
				return rejectedf(prPath, CodeMissingKey, "prompt_id is missing or not a string"), nil
			}
			p, ok := e.cfg.RepeatableSetPrompt(surveyID, rs.ID, pid)
			if !ok {
				return rejectedf(prPath, CodeUnknownPrompt, "repeatable set %s has no prompt %q", rs.ID, pid), nil
			}
			res, err := e.checkPrompt(prPath, p, prObj, scope)
			if err != nil || !res.Accepted() {
				return res, err
			}
		}
	}
	responses[rs.ID] = int64(len(iters))
	return accepted(), nil
}

// conditionValue normalizes an accepted response into the shape the
// condition engine compares against: numeric prompts expose numbers,
// choice prompts expose their string keys, no-answer responses expose the
// sentinel.
func conditionValue(p *campaign.Prompt, r promptval.Response) any {
	if nr, ok := r.NoResponse(); ok {
		return nr
	}
	v := r.Value()
	switch {
	case p.Type.Numeric():
		// The validator accepted it, so a string form parses as an integer.
		if s, ok := v.(string); ok {
			return json.Number(s)
		}
		return v
	case p.Type == campaign.TypeSingleChoice || p.Type == campaign.TypeSingleChoiceCustom:
		if n, ok := v.(json.Number); ok {
			return n.String()
		}
		return v
	case p.Type == campaign.TypeMultiChoice || p.Type == campaign.TypeMultiChoiceCustom:
		arr, ok := v.([]any)
		if !ok {
			return v
		}
		out := make([]any, len(arr))
		for i, el := range arr {
			if n, ok := el.(json.Number); ok {
				out[i] = n.String()
			} else {
				out[i] = el
			}
		}
		return out
	default:
		return v
	}
}
