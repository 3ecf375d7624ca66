package condition

import (
	"encoding/json"
	"fmt"
)

// Terminal is a leaf fragment usable as a comparator operand: quoted text,
// a number, a prompt-id reference, or a no-response literal.
type Terminal interface {
	Fragment

	// value resolves the operand against the responses collected so far.
	value(responses map[string]any) (any, error)
	// numericOK reports whether the operand may appear next to an
	// ordering comparator.
	numericOK(items map[string]ItemType) bool
}

// textTerminal is a quoted literal. Tokens split on whitespace, so quoted
// text cannot contain spaces.
type textTerminal struct {
	val string
}

func (t *textTerminal) String() string { return `"` + t.val + `"` }

func (t *textTerminal) validate(items map[string]ItemType) error { return nil }

// evaluate treats a bare text literal as a presence test, which is always
// true.
func (t *textTerminal) evaluate(responses map[string]any) (bool, error) { return true, nil }

func (t *textTerminal) value(responses map[string]any) (any, error) { return t.val, nil }

func (t *textTerminal) numericOK(items map[string]ItemType) bool { return false }

// numberTerminal is a numeric literal. The source lexeme is kept so the
// canonical rendering reproduces the authored text.
type numberTerminal struct {
	lexeme string
	val    float64
}

func (n *numberTerminal) String() string { return n.lexeme }

func (n *numberTerminal) validate(items map[string]ItemType) error { return nil }

// evaluate treats a bare numeric literal as always true.
func (n *numberTerminal) evaluate(responses map[string]any) (bool, error) { return true, nil }

func (n *numberTerminal) value(responses map[string]any) (any, error) { return n.val, nil }

func (n *numberTerminal) numericOK(items map[string]ItemType) bool { return true }

// noResponseTerminal is the SKIPPED or NOT_DISPLAYED literal.
type noResponseTerminal struct {
	which NoResponse
}

func (t *noResponseTerminal) String() string { return t.which.String() }

func (t *noResponseTerminal) validate(items map[string]ItemType) error { return nil }

// evaluate is always false: a no-response literal asserts the absence of a
// value.
func (t *noResponseTerminal) evaluate(responses map[string]any) (bool, error) { return false, nil }

func (t *noResponseTerminal) value(responses map[string]any) (any, error) { return t.which, nil }

func (t *noResponseTerminal) numericOK(items map[string]ItemType) bool { return false }

// promptIDTerminal references an earlier prompt's response.
type promptIDTerminal struct {
	id string
}

func (p *promptIDTerminal) String() string { return p.id }

func (p *promptIDTerminal) validate(items map[string]ItemType) error {
	if _, ok := items[p.id]; !ok {
		return fmt.Errorf("condition references unknown or later item %q", p.id)
	}
	return nil
}

// evaluate is true unless the referenced response is a no-response
// sentinel.
func (p *promptIDTerminal) evaluate(responses map[string]any) (bool, error) {
	v, err := p.value(responses)
	if err != nil {
		return false, err
	}
	_, isNoResponse := v.(NoResponse)
	return !isNoResponse, nil
}

func (p *promptIDTerminal) value(responses map[string]any) (any, error) {
	v, ok := responses[p.id]
	if !ok {
		return nil, fmt.Errorf("response for %q missing from response map", p.id)
	}
	return v, nil
}

func (p *promptIDTerminal) numericOK(items map[string]ItemType) bool {
	return items[p.id] == ItemNumber
}

// toFloat normalizes the numeric representations that can appear in a
// response map.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
