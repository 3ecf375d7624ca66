// Package condition implements the boolean expression language used by
// campaign authors to decide whether a prompt should be displayed.
//
// A condition sentence such as
//
//	p1 == "a" AND (p2 < 5 OR NOT p3)
//
// is parsed once into an immutable fragment tree and evaluated per upload
// against the map of earlier prompt responses. Parsing and structural
// validation happen at campaign-load time; evaluation is pure and safe to
// run concurrently against the same tree.
package condition

import (
	"fmt"
	"strings"
)

// NoResponse marks a prompt that has no answer value. It appears both as a
// live value in response maps and as a literal in condition sentences.
type NoResponse int

const (
	// Skipped means the participant declined to answer.
	Skipped NoResponse = iota + 1
	// NotDisplayed means the display condition suppressed the prompt.
	NotDisplayed
)

func (n NoResponse) String() string {
	switch n {
	case Skipped:
		return "SKIPPED"
	case NotDisplayed:
		return "NOT_DISPLAYED"
	default:
		return fmt.Sprintf("NoResponse(%d)", int(n))
	}
}

// ItemType classifies a survey item referenced from a condition. The
// campaign layer supplies one entry per item declared before the
// conditioned prompt, so references to later items surface as unknown.
type ItemType int

const (
	// ItemGeneric is any referencable item that does not hold a number.
	ItemGeneric ItemType = iota
	// ItemNumber is an item whose response resolves to a number, making it
	// a legal operand for ordering comparators.
	ItemNumber
)

// Condition is an immutable, parsed condition sentence.
type Condition struct {
	sentence string
	root     Fragment
}

// Parse parses a condition sentence into a Condition tree. A sentence with
// unbalanced parentheses, a comparator missing an operand, two terminals in
// sequence, or a dangling NOT/AND/OR fails to parse.
func Parse(sentence string) (*Condition, error) {
	if strings.Count(sentence, "(") != strings.Count(sentence, ")") {
		return nil, &SyntaxError{Sentence: sentence, Msg: "parenthetical mismatch"}
	}
	toks := tokenize(sentence)
	if len(toks) == 0 {
		return nil, &SyntaxError{Sentence: sentence, Msg: "empty condition"}
	}
	p := &parser{sentence: sentence, toks: toks}
	root, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf("unexpected %q after end of condition", p.peek().text)
	}
	return &Condition{sentence: sentence, root: root}, nil
}

// String renders the canonical form of the sentence. The result reparses to
// an equivalent tree.
func (c *Condition) String() string { return c.root.String() }

// Validate checks every prompt-id reference against the supplied item view
// and rejects ordering comparators whose operands cannot resolve to
// numbers. items maps the id of each item declared before the conditioned
// prompt to its ItemType.
func (c *Condition) Validate(items map[string]ItemType) error {
	return c.root.validate(items)
}

// Evaluate reports whether the condition holds for the given responses.
// Values in the map are the resolved response values of earlier prompts: a
// number, a string, a slice for multi-choice answers, or a NoResponse
// sentinel. Evaluation never mutates the tree. The only possible error is a
// reference to a prompt absent from the map, which indicates a caller bug:
// Validate guarantees references resolve when responses are accumulated in
// declaration order.
func (c *Condition) Evaluate(responses map[string]any) (bool, error) {
	return c.root.evaluate(responses)
}

// SyntaxError describes why a sentence failed to parse.
type SyntaxError struct {
	Sentence string
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("condition %q: %s", e.Sentence, e.Msg)
}
