package condition

import "fmt"

// Fragment is one node of a parsed condition tree. The set of
// implementations is closed: terminals (Text, Number, PromptID,
// no-response literals), the six comparators, Not, the AND/OR
// conjunctions, and Parenthetical.
type Fragment interface {
	fmt.Stringer

	// validate checks structural legality against the items declared
	// before the conditioned prompt.
	validate(items map[string]ItemType) error
	// evaluate computes the truth value of this fragment for a set of
	// earlier responses.
	evaluate(responses map[string]any) (bool, error)
}

// not negates its child fragment.
type not struct {
	child Fragment
}

func (n *not) String() string { return "NOT " + n.child.String() }

func (n *not) validate(items map[string]ItemType) error {
	return n.child.validate(items)
}

func (n *not) evaluate(responses map[string]any) (bool, error) {
	v, err := n.child.evaluate(responses)
	if err != nil {
		return false, err
	}
	return !v, nil
}

// conjOp is the operator of a conjunction fragment.
type conjOp string

const (
	opAnd conjOp = "AND"
	opOr  conjOp = "OR"
)

// conjunction joins two fragments with AND or OR. Left-associative, equal
// precedence, short-circuits left to right.
type conjunction struct {
	op          conjOp
	left, right Fragment
}

func (c *conjunction) String() string {
	return c.left.String() + " " + string(c.op) + " " + c.right.String()
}

func (c *conjunction) validate(items map[string]ItemType) error {
	if err := c.left.validate(items); err != nil {
		return err
	}
	return c.right.validate(items)
}

func (c *conjunction) evaluate(responses map[string]any) (bool, error) {
	lv, err := c.left.evaluate(responses)
	if err != nil {
		return false, err
	}
	if c.op == opAnd && !lv {
		return false, nil
	}
	if c.op == opOr && lv {
		return true, nil
	}
	return c.right.evaluate(responses)
}

// parenthetical wraps a nested condition.
type parenthetical struct {
	cond *Condition
}

func (p *parenthetical) String() string { return "(" + p.cond.String() + ")" }

func (p *parenthetical) validate(items map[string]ItemType) error {
	return p.cond.Validate(items)
}

func (p *parenthetical) evaluate(responses map[string]any) (bool, error) {
	return p.cond.Evaluate(responses)
}
