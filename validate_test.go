package surveygate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jmfield/surveygate"
	"github.com/jmfield/surveygate/campaign"
	"github.com/jmfield/surveygate/i18n"
)

const campaignDef = `{
  "campaign": "urn:campaign:demo",
  "surveys": [{
    "id": "s1",
    "items": [
      {"prompt": {"id": "p1", "type": "single_choice",
                  "choices": {"1": "yes", "2": "no"}}},
      {"prompt": {"id": "p2", "type": "text", "min": 1, "max": 20,
                  "skippable": true, "condition": "p1 == \"1\""}},
      {"prompt": {"id": "p3", "type": "single_choice_custom",
                  "skippable": true}},
      {"prompt": {"id": "p4", "type": "photo", "condition": "p1 == \"1\""}},
      {"repeatable_set": {"id": "rs1", "prompts": [
        {"id": "r1", "type": "number", "min": 0, "max": 10},
        {"id": "r2", "type": "text", "min": 1, "max": 20,
         "condition": "r1 > 5"}
      ]}},
      {"repeatable_set": {"id": "rs2", "condition": "p1 == \"2\"",
       "prompts": [
        {"id": "q1", "type": "number", "min": 0, "max": 5}
      ]}}
    ]
  }]
}`

func newEngine(t *testing.T) *surveygate.Engine {
	t.Helper()
	cfg, err := campaign.LoadJSON([]byte(campaignDef))
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}
	eng, err := surveygate.New(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func mustAccept(t *testing.T, eng *surveygate.Engine, payload string) {
	t.Helper()
	res, err := eng.Validate(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Accepted() {
		t.Fatalf("expected accept, got rejection %+v", res.Rejection())
	}
}

func mustReject(t *testing.T, eng *surveygate.Engine, payload, wantPath, wantCode string) {
	t.Helper()
	res, err := eng.Validate(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Accepted() {
		t.Fatalf("expected rejection %s at %s, got accept", wantCode, wantPath)
	}
	iss := res.Rejection()
	if iss.Path != wantPath || iss.Code != wantCode {
		t.Fatalf("expected %s at %s, got %s at %s (%s)",
			wantCode, wantPath, iss.Code, iss.Path, iss.Message)
	}
}

// ---- whole-upload walks ----

func TestValidate_AcceptsFullUpload(t *testing.T) {
	eng := newEngine(t)
	mustAccept(t, eng, `{
	  "survey_id": "s1",
	  "responses": [
	    {"prompt_id": "p1", "value": "1"},
	    {"prompt_id": "p2", "value": "hello"},
	    {"prompt_id": "p3", "value": "bike",
	     "custom_choices": [
	       {"choice_id": 0, "choice_value": "walk"},
	       {"choice_id": 1, "choice_value": "bike"}
	     ]},
	    {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	     "responses": [
	       [{"prompt_id": "r1", "value": 7},
	        {"prompt_id": "r2", "value": "big"}],
	       [{"prompt_id": "r1", "value": 3},
	        {"prompt_id": "r2", "value": "NOT_DISPLAYED"}]
	     ]}
	  ]
	}`)
}

func TestValidate_ParseError(t *testing.T) {
	eng := newEngine(t)
	mustReject(t, eng, `{"survey_id": `, "", "parse_error")
}

func TestValidate_Envelope(t *testing.T) {
	eng := newEngine(t)
	mustReject(t, eng, `{"responses": []}`, "/survey_id", "missing_key")
	mustReject(t, eng, `{"survey_id": "nope", "responses": []}`, "/survey_id", "unknown_survey")
	mustReject(t, eng, `{"survey_id": "s1"}`, "/responses", "missing_key")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [42]}`, "/responses/0", "malformed_entry")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [{"value": "1"}]}`, "/responses/0", "malformed_entry")
}

func TestValidate_UnknownPrompt(t *testing.T) {
	eng := newEngine(t)
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [{"prompt_id": "nope", "value": "1"}]}`,
		"/responses/0", "unknown_prompt")
	// Repeatable set prompts are not addressable as flat prompts.
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [{"prompt_id": "r1", "value": 3}]}`,
		"/responses/0", "unknown_prompt")
}

func TestValidate_ValueFailureCitesValuePath(t *testing.T) {
	eng := newEngine(t)
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [{"prompt_id": "p1", "value": "3"}]}`,
		"/responses/0/value", "invalid_choice")
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [{"prompt_id": "p1"}]}`,
		"/responses/0/value", "missing_key")
	// p1 is not skippable.
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [{"prompt_id": "p1", "value": "SKIPPED"}]}`,
		"/responses/0/value", "not_skippable")
}

func TestValidate_MalformedCustomChoices(t *testing.T) {
	eng := newEngine(t)
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [
		   {"prompt_id": "p3", "value": "bike", "custom_choices": "nope"}]}`,
		"/responses/0/custom_choices", "malformed_entry")
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [
		   {"prompt_id": "p3", "value": "bike",
		    "custom_choices": [{"choice_id": 0}]}]}`,
		"/responses/0/custom_choices/0", "missing_key")
	// A missing choice set is a value failure, not a structural one.
	mustReject(t, eng,
		`{"survey_id": "s1", "responses": [{"prompt_id": "p3", "value": "bike"}]}`,
		"/responses/0/value", "invalid_custom_choice")
}

// ---- display condition consistency ----

func TestValidate_ConditionConsistency(t *testing.T) {
	eng := newEngine(t)

	// p1 != "1" hides p2, so NOT_DISPLAYED is the only consistent state.
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "2"},
	  {"prompt_id": "p2", "value": "NOT_DISPLAYED"}]}`)
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "2"},
	  {"prompt_id": "p2", "value": "hello"}]}`,
		"/responses/1", "condition_violation")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"prompt_id": "p2", "value": "NOT_DISPLAYED"}]}`,
		"/responses/1", "condition_violation")

	// Skipping counts as the prompt having been displayed.
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"prompt_id": "p2", "value": "SKIPPED"}]}`)
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "2"},
	  {"prompt_id": "p2", "value": "SKIPPED"}]}`,
		"/responses/1", "condition_violation")

	// An unconditioned prompt cannot be suppressed.
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "NOT_DISPLAYED"}]}`,
		"/responses/0", "condition_violation")
}

func TestValidate_NullPhotoSentinel(t *testing.T) {
	eng := newEngine(t)

	// The string "null" stands in for a photo the condition hid; anywhere
	// else it is ordinary data for the type validator.
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "2"},
	  {"prompt_id": "p4", "value": "null"}]}`)
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"prompt_id": "p4", "value": "14e0fb27-d450-44d4-8452-9f6996b00e27"}]}`)
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"prompt_id": "p4", "value": "null"}]}`,
		"/responses/1", "condition_violation")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "null"}]}`,
		"/responses/0/value", "invalid_choice")
}

func TestValidate_ConditionBeforeReferenceIsError(t *testing.T) {
	eng := newEngine(t)
	// p2's condition references p1, which this upload never answered before
	// p2. That is a walk-order bug, not a rejectable upload.
	_, err := eng.Validate(context.Background(), []byte(
		`{"survey_id": "s1", "responses": [{"prompt_id": "p2", "value": "hello"}]}`))
	if err == nil {
		t.Fatalf("expected an error for an unresolvable condition reference")
	}
	if !strings.Contains(err.Error(), "p2") {
		t.Fatalf("error should name the conditioned prompt: %v", err)
	}
}

// ---- repeatable sets ----

func TestValidate_RepeatableSetCoupling(t *testing.T) {
	eng := newEngine(t)

	// rs1 has no condition, so not_displayed=true is inconsistent outright.
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": true,
	   "responses": []}]}`,
		"/responses/0", "condition_violation")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	   "responses": []}]}`,
		"/responses/0/responses", "set_displayed")
	// A displayed set must carry iterations even when skipped early.
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": true, "not_displayed": false,
	   "responses": []}]}`,
		"/responses/0/responses", "set_displayed")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": "maybe", "not_displayed": false,
	   "responses": []}]}`,
		"/responses/0/skipped", "missing_key")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "nope", "skipped": false, "not_displayed": false,
	   "responses": []}]}`,
		"/responses/0", "unknown_repeatable_set")
}

func TestValidate_ConditionedSetSuppression(t *testing.T) {
	eng := newEngine(t)

	// p1 != "2" hides rs2; a suppressed set must carry no iterations.
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"repeatable_set_id": "rs2", "skipped": false, "not_displayed": true,
	   "responses": []}]}`)
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"repeatable_set_id": "rs2", "skipped": false, "not_displayed": true,
	   "responses": [[{"prompt_id": "q1", "value": 3}]]}]}`,
		"/responses/1/responses", "set_not_displayed")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "2"},
	  {"repeatable_set_id": "rs2", "skipped": false, "not_displayed": true,
	   "responses": []}]}`,
		"/responses/1", "condition_violation")
}

func TestValidate_RepeatableSetIterations(t *testing.T) {
	eng := newEngine(t)

	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	   "responses": [[{"prompt_id": "r1", "value": 7}]]}]}`,
		"/responses/0/responses/0", "count_mismatch")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	   "responses": [
	     [{"prompt_id": "r1", "value": 7},
	      {"prompt_id": "nope", "value": "x"}]]}]}`,
		"/responses/0/responses/0/1", "unknown_prompt")
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	   "responses": [
	     [{"prompt_id": "r1", "value": 99},
	      {"prompt_id": "r2", "value": "big"}]]}]}`,
		"/responses/0/responses/0/0/value", "out_of_range")
}

func TestValidate_RepeatableSetStringFlags(t *testing.T) {
	eng := newEngine(t)

	// Older clients transport the set flags as "true"/"false" strings.
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": "true", "not_displayed": "false",
	   "responses": [
	     [{"prompt_id": "r1", "value": 7},
	      {"prompt_id": "r2", "value": "big"}]]}]}`)
	mustAccept(t, eng, `{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"},
	  {"repeatable_set_id": "rs2", "skipped": "false", "not_displayed": "true",
	   "responses": []}]}`)
}

func TestValidate_RepeatableSetScopesPerIteration(t *testing.T) {
	eng := newEngine(t)

	// r2's condition sees the current iteration's r1, never a sibling's.
	mustReject(t, eng, `{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	   "responses": [
	     [{"prompt_id": "r1", "value": 7},
	      {"prompt_id": "r2", "value": "big"}],
	     [{"prompt_id": "r1", "value": 3},
	      {"prompt_id": "r2", "value": "small"}]
	   ]}]}`,
		"/responses/0/responses/1/1", "condition_violation")
}

// ---- entry points ----

func TestValidateReader(t *testing.T) {
	eng := newEngine(t)
	r := strings.NewReader(`{"survey_id": "s1", "responses": [
	  {"prompt_id": "p1", "value": "1"}]}`)
	res, err := eng.ValidateReader(context.Background(), r)
	if err != nil {
		t.Fatalf("ValidateReader: %v", err)
	}
	if !res.Accepted() {
		t.Fatalf("expected accept, got %+v", res.Rejection())
	}
}

func TestValidate_OneShot(t *testing.T) {
	cfg, err := campaign.LoadJSON([]byte(campaignDef))
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}
	res, err := surveygate.Validate(context.Background(), cfg,
		[]byte(`{"survey_id": "s1", "responses": []}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Accepted() {
		t.Fatalf("expected accept, got %+v", res.Rejection())
	}
}

// rangeTranslator interpolates the structured params into the hint.
type rangeTranslator struct{}

func (rangeTranslator) Message(code string, data map[string]string) string {
	if data["max"] != "" {
		return code + " max=" + data["max"]
	}
	return code
}

func TestRejectionHintCarriesParams(t *testing.T) {
	t.Cleanup(func() { i18n.SetTranslator(nil) })
	i18n.SetTranslator(rangeTranslator{})
	eng := newEngine(t)

	res, err := eng.Validate(context.Background(), []byte(`{"survey_id": "s1", "responses": [
	  {"repeatable_set_id": "rs1", "skipped": false, "not_displayed": false,
	   "responses": [
	     [{"prompt_id": "r1", "value": 99},
	      {"prompt_id": "r2", "value": "big"}]]}]}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Accepted() {
		t.Fatalf("expected out-of-range rejection")
	}
	if got, want := res.Rejection().Hint, "out_of_range max=10"; got != want {
		t.Fatalf("hint = %q, want %q", got, want)
	}
}

func TestResult_Err(t *testing.T) {
	eng := newEngine(t)
	res, err := eng.Validate(context.Background(), []byte(
		`{"survey_id": "s1", "responses": [{"prompt_id": "p1", "value": "3"}]}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	iss, ok := surveygate.AsIssues(res.Err())
	if !ok || len(iss) != 1 {
		t.Fatalf("expected one issue, got %v", res.Err())
	}
	if iss[0].Code != "invalid_choice" {
		t.Fatalf("expected invalid_choice, got %s", iss[0].Code)
	}

	res, err = eng.Validate(context.Background(), []byte(
		`{"survey_id": "s1", "responses": []}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Err() != nil {
		t.Fatalf("accepted result should have a nil Err, got %v", res.Err())
	}
}

func TestValidate_CanceledContext(t *testing.T) {
	eng := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Validate(ctx, []byte(`{}`)); err == nil {
		t.Fatalf("expected context error")
	}
}
