package condition_test

import (
	"math/rand"
	"testing"

	"github.com/jmfield/surveygate/condition"
)

func mustParse(t *testing.T, sentence string) *condition.Condition {
	t.Helper()
	c, err := condition.Parse(sentence)
	if err != nil {
		t.Fatalf("Parse(%q): %v", sentence, err)
	}
	return c
}

func mustEval(t *testing.T, c *condition.Condition, responses map[string]any) bool {
	t.Helper()
	v, err := c.Evaluate(responses)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return v
}

func TestParse_RoundTrip(t *testing.T) {
	sentences := []string{
		`p1 == "a"`,
		`p1 != "a"`,
		`p2 < 5`,
		`p2 <= 5.5`,
		`p2 > -1`,
		`p2 >= 0`,
		`NOT p3`,
		`p1 == SKIPPED`,
		`p1 == NOT_DISPLAYED`,
		`p1 == "a" AND (p2 < 5 OR NOT p3)`,
		`(p1 == "1") AND p2 == "2" OR p3`,
	}
	for _, s := range sentences {
		c := mustParse(t, s)
		canonical := c.String()
		c2 := mustParse(t, canonical)
		if got := c2.String(); got != canonical {
			t.Fatalf("round trip of %q: canonical %q reparsed to %q", s, canonical, got)
		}
	}
}

func TestParse_BangIsNot(t *testing.T) {
	c := mustParse(t, `! p1`)
	if got, want := c.String(), "NOT p1"; got != want {
		t.Fatalf("canonical form = %q, want %q", got, want)
	}
}

func TestParse_ParenthesisMismatch(t *testing.T) {
	for _, s := range []string{`(p1 == "a"`, `p1 == "a")`, `((p1)`, `)p1(`} {
		if _, err := condition.Parse(s); err == nil {
			t.Fatalf("Parse(%q): expected error, got nil", s)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		``,
		`==`,
		`p1 ==`,
		`== "a"`,
		`p1 p2`,
		`p1 == "a" AND`,
		`AND p1`,
		`NOT`,
		`p1 == == "a"`,
		`p1 == "unterminated`,
		`(p1 == "a") == (p2 == "b")`,
	}
	for _, s := range cases {
		if _, err := condition.Parse(s); err == nil {
			t.Fatalf("Parse(%q): expected error, got nil", s)
		}
	}
}

func TestValidate_References(t *testing.T) {
	items := map[string]condition.ItemType{
		"p1": condition.ItemGeneric,
		"p2": condition.ItemNumber,
	}

	if err := mustParse(t, `p1 == "a" AND p2 < 5`).Validate(items); err != nil {
		t.Fatalf("valid condition rejected: %v", err)
	}
	if err := mustParse(t, `p9 == "a"`).Validate(items); err == nil {
		t.Fatalf("unknown reference accepted")
	}
	// Ordering comparators need numeric operands on both sides.
	if err := mustParse(t, `p1 < 5`).Validate(items); err == nil {
		t.Fatalf("ordering over text-typed prompt accepted")
	}
	if err := mustParse(t, `p2 < "a"`).Validate(items); err == nil {
		t.Fatalf("ordering against text literal accepted")
	}
	if err := mustParse(t, `5 <= p2`).Validate(items); err != nil {
		t.Fatalf("numeric literal vs numeric prompt rejected: %v", err)
	}
}

func TestEvaluate_Equality(t *testing.T) {
	responses := map[string]any{
		"p1": "a",
		"p2": 4.0,
		"p3": condition.NoResponse(condition.Skipped),
		"p4": []any{"1", "3"},
	}

	cases := []struct {
		sentence string
		want     bool
	}{
		{`p1 == "a"`, true},
		{`p1 == "b"`, false},
		{`p1 != "b"`, true},
		{`p2 == 4`, true},
		{`p2 == 4.0`, true},
		{`p2 == 5`, false},
		{`p1`, true},
		{`p3`, false},
		{`p3 == SKIPPED`, true},
		{`p3 == NOT_DISPLAYED`, false},
		{`NOT p3`, true},
		// A collection answer equals a value it contains.
		{`p4 == "3"`, true},
		{`p4 == "2"`, false},
	}
	for _, tc := range cases {
		if got := mustEval(t, mustParse(t, tc.sentence), responses); got != tc.want {
			t.Fatalf("%q = %v, want %v", tc.sentence, got, tc.want)
		}
	}
}

func TestEvaluate_Ordering(t *testing.T) {
	responses := map[string]any{
		"p2": 4.0,
		"pt": "text",
	}
	cases := []struct {
		sentence string
		want     bool
	}{
		{`p2 < 5`, true},
		{`p2 <= 4`, true},
		{`p2 > 4`, false},
		{`p2 >= 4`, true},
		{`5 > p2`, true},
		// Ordering over a non-numeric pairing is false, never an error.
		{`pt < 5`, false},
		{`pt > 5`, false},
	}
	for _, tc := range cases {
		if got := mustEval(t, mustParse(t, tc.sentence), responses); got != tc.want {
			t.Fatalf("%q = %v, want %v", tc.sentence, got, tc.want)
		}
	}
}

func TestEvaluate_Conjunctions(t *testing.T) {
	responses := map[string]any{
		"p1": "a",
		"p2": 4.0,
		"p3": condition.NoResponse(condition.NotDisplayed),
	}
	cases := []struct {
		sentence string
		want     bool
	}{
		{`p1 == "a" AND p2 < 5`, true},
		{`p1 == "a" AND p2 > 5`, false},
		{`p1 == "b" OR p2 < 5`, true},
		{`p1 == "a" AND (p2 < 5 OR NOT p3)`, true},
		{`p3 OR p1 == "b"`, false},
		{`NOT p3 OR p1 == "b"`, true},
	}
	for _, tc := range cases {
		if got := mustEval(t, mustParse(t, tc.sentence), responses); got != tc.want {
			t.Fatalf("%q = %v, want %v", tc.sentence, got, tc.want)
		}
	}
}

func TestEvaluate_Pure(t *testing.T) {
	c := mustParse(t, `p1 == "a" AND (p2 < 5 OR NOT p3)`)
	responses := map[string]any{
		"p1": "a",
		"p2": 3.0,
		"p3": condition.NoResponse(condition.Skipped),
	}
	first := mustEval(t, c, responses)
	for i := 0; i < 10; i++ {
		if got := mustEval(t, c, responses); got != first {
			t.Fatalf("evaluation %d of the same tree flipped from %v to %v", i, first, got)
		}
	}
	// A different map against the same tree must also be safe.
	other := map[string]any{"p1": "b", "p2": 9.0, "p3": "x"}
	if mustEval(t, c, other) {
		t.Fatalf("expected false for the second response map")
	}
	if got := mustEval(t, c, responses); got != first {
		t.Fatalf("re-evaluating with the original map changed the result")
	}
}

func TestEvaluate_OrderingAsymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	lt := mustParse(t, `a < b`)
	gt := mustParse(t, `b > a`)
	for i := 0; i < 500; i++ {
		responses := map[string]any{
			"a": r.NormFloat64() * 100,
			"b": r.NormFloat64() * 100,
		}
		lv := mustEval(t, lt, responses)
		gv := mustEval(t, gt, responses)
		if lv != gv {
			t.Fatalf("a<b (%v) disagrees with b>a (%v) for %v", lv, gv, responses)
		}
	}
}

func TestEvaluate_MissingReferenceIsError(t *testing.T) {
	c := mustParse(t, `p9 == "a"`)
	if _, err := c.Evaluate(map[string]any{"p1": "a"}); err == nil {
		t.Fatalf("expected error for reference missing from the response map")
	}
}
