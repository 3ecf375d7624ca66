package condition

import "fmt"

// cmpOp is one of the six comparator symbols.
type cmpOp string

const (
	opEq cmpOp = "=="
	opNe cmpOp = "!="
	opLt cmpOp = "<"
	opLe cmpOp = "<="
	opGt cmpOp = ">"
	opGe cmpOp = ">="
)

func (o cmpOp) ordering() bool {
	switch o {
	case opLt, opLe, opGt, opGe:
		return true
	default:
		return false
	}
}

// comparator applies an operator to two terminal operands.
type comparator struct {
	op          cmpOp
	left, right Terminal
}

func (c *comparator) String() string {
	return c.left.String() + " " + string(c.op) + " " + c.right.String()
}

func (c *comparator) validate(items map[string]ItemType) error {
	if err := c.left.validate(items); err != nil {
		return err
	}
	if err := c.right.validate(items); err != nil {
		return err
	}
	// Ordering comparators only make sense between operands that resolve
	// to numbers.
	if c.op.ordering() {
		if !c.left.numericOK(items) {
			return fmt.Errorf("operand %s of %q is not numeric", c.left, c.op)
		}
		if !c.right.numericOK(items) {
			return fmt.Errorf("operand %s of %q is not numeric", c.right, c.op)
		}
	}
	return nil
}

func (c *comparator) evaluate(responses map[string]any) (bool, error) {
	lv, err := c.left.value(responses)
	if err != nil {
		return false, err
	}
	rv, err := c.right.value(responses)
	if err != nil {
		return false, err
	}
	switch c.op {
	case opEq:
		return valuesEqual(lv, rv), nil
	case opNe:
		return !valuesEqual(lv, rv), nil
	default:
		// Ordering over anything that does not resolve to two numbers is
		// false rather than an error.
		lf, lok := toFloat(lv)
		rf, rok := toFloat(rv)
		if !lok || !rok {
			return false, nil
		}
		switch c.op {
		case opLt:
			return lf < rf, nil
		case opLe:
			return lf <= rf, nil
		case opGt:
			return lf > rf, nil
		default: // opGe
			return lf >= rf, nil
		}
	}
}

// valuesEqual implements the equality semantics of == and !=. Numbers
// compare by float64 value regardless of representation; a collection (a
// multi-choice answer) equals a value when it contains it; everything else
// compares naturally.
func valuesEqual(a, b any) bool {
	if col, ok := asCollection(a); ok {
		return collectionContains(col, b)
	}
	if col, ok := asCollection(b); ok {
		return collectionContains(col, a)
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func asCollection(v any) ([]any, bool) {
	switch c := v.(type) {
	case []any:
		return c, true
	case []string:
		out := make([]any, len(c))
		for i, s := range c {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func collectionContains(col []any, v any) bool {
	for _, el := range col {
		if valuesEqual(el, v) {
			return true
		}
	}
	return false
}
