package condition

import (
	"fmt"
	"strconv"
	"strings"
)

// Grammar, lowest to highest precedence:
//
//	condition  := comparison ((AND|OR) comparison)*
//	comparison := unary (cmpOp unary)?
//	unary      := (NOT|"!") unary | "(" condition ")" | terminal
//
// Comparator operands must be terminals. AND and OR share one precedence
// level and associate left, matching the original left-to-right fold.

type tokenKind int

const (
	tokWord tokenKind = iota
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits the sentence on whitespace and the two structural
// characters. Quotes are not token boundaries, so quoted text cannot
// contain whitespace or parentheses.
func tokenize(sentence string) []token {
	var toks []token
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, token{kind: tokWord, text: word.String()})
			word.Reset()
		}
	}
	for _, r := range sentence {
		switch r {
		case '(':
			flush()
			toks = append(toks, token{kind: tokLParen, text: "("})
		case ')':
			flush()
			toks = append(toks, token{kind: tokRParen, text: ")"})
		case ' ', '\t', '\r', '\n':
			flush()
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return toks
}

type parser struct {
	sentence string
	toks     []token
	pos      int
}

func (p *parser) atEnd() bool    { return p.pos >= len(p.toks) }
func (p *parser) peek() token    { return p.toks[p.pos] }
func (p *parser) advance() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Sentence: p.sentence, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseCondition() (Fragment, error) {
	frag, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() && p.peek().kind == tokWord && isConjunction(p.peek().text) {
		op := conjOp(p.advance().text)
		if p.atEnd() || p.peek().kind == tokRParen {
			return nil, p.errorf("%s is missing its right operand", op)
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		frag = &conjunction{op: op, left: frag, right: right}
	}
	return frag, nil
}

func (p *parser) parseComparison() (Fragment, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.atEnd() || p.peek().kind != tokWord {
		return left, nil
	}
	word := p.peek().text
	if isConjunction(word) {
		return left, nil
	}
	if op, ok := comparatorOp(word); ok {
		p.advance()
		lt, ok := left.(Terminal)
		if !ok {
			return nil, p.errorf("left operand of %q is not a terminal value", op)
		}
		if p.atEnd() || p.peek().kind == tokRParen {
			return nil, p.errorf("%q is missing its right operand", op)
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		rt, ok := right.(Terminal)
		if !ok {
			return nil, p.errorf("right operand of %q is not a terminal value", op)
		}
		return &comparator{op: op, left: lt, right: rt}, nil
	}
	// Two value fragments in sequence with nothing joining them.
	return nil, p.errorf("unexpected %q after %s", word, left)
}

func (p *parser) parseUnary() (Fragment, error) {
	if p.atEnd() {
		return nil, p.errorf("unexpected end of condition")
	}
	switch t := p.advance(); t.kind {
	case tokLParen:
		inner, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek().kind != tokRParen {
			return nil, p.errorf("unclosed parenthetical")
		}
		p.advance()
		sub := &Condition{root: inner}
		sub.sentence = inner.String()
		return &parenthetical{cond: sub}, nil
	case tokRParen:
		return nil, p.errorf("unexpected %q", ")")
	default:
		return p.parseWord(t.text)
	}
}

// parseWord classifies a bare word. The order is fixed: negation, then
// conjunction keywords, then comparator symbols, then the no-response
// keywords, quoted text, numbers, and finally prompt-id references.
func (p *parser) parseWord(word string) (Fragment, error) {
	if word == "!" || word == "NOT" {
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &not{child: child}, nil
	}
	if isConjunction(word) {
		return nil, p.errorf("%s is missing its left operand", word)
	}
	if op, ok := comparatorOp(word); ok {
		return nil, p.errorf("%q is missing its left operand", op)
	}
	switch word {
	case Skipped.String():
		return &noResponseTerminal{which: Skipped}, nil
	case NotDisplayed.String():
		return &noResponseTerminal{which: NotDisplayed}, nil
	}
	if strings.HasPrefix(word, `"`) {
		if len(word) < 2 || !strings.HasSuffix(word, `"`) {
			return nil, p.errorf("unterminated text literal %s", word)
		}
		return &textTerminal{val: word[1 : len(word)-1]}, nil
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return &numberTerminal{lexeme: word, val: f}, nil
	}
	return &promptIDTerminal{id: word}, nil
}

func isConjunction(word string) bool { return word == string(opAnd) || word == string(opOr) }

func comparatorOp(word string) (cmpOp, bool) {
	switch cmpOp(word) {
	case opEq, opNe, opLt, opLe, opGt, opGe:
		return cmpOp(word), true
	default:
		return "", false
	}
}
