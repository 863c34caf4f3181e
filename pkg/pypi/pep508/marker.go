// Copyright 2026 The pymeta Authors
// SPDX-License-Identifier: Apache-2.0

package pep508

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// extraVariable is the reserved marker variable naming an optional
// installation variant.
const extraVariable = "extra"

// A marker is a boolean expression over environment variables. It is
// represented as a tagged tree: comparison leaves and and/or nodes.

// MarkerNode is one node of a marker expression tree.
type MarkerNode interface {
	markerNode()
}

// MarkerOperand is either an environment variable reference or a
// quoted string literal.
type MarkerOperand struct {
	Text       string
	IsVariable bool
}

// MarkerClause is a single comparison, e.g. `python_version >= "3.8"`.
type MarkerClause struct {
	Lhs MarkerOperand
	Op  string
	Rhs MarkerOperand
}

// MarkerAnd is the conjunction of two subtrees.
type MarkerAnd struct {
	Left, Right MarkerNode
}

// MarkerOr is the disjunction of two subtrees.
type MarkerOr struct {
	Left, Right MarkerNode
}

func (MarkerClause) markerNode() {}
func (MarkerAnd) markerNode()    {}
func (MarkerOr) markerNode()     {}

// Extra walks the marker tree and returns the literal the reserved
// "extra" variable is constrained to with an equality clause, or "".
// The leftmost matching clause wins.
func Extra(m MarkerNode) string {
	switch n := m.(type) {
	case nil:
		return ""
	case MarkerClause:
		if n.Op == "==" && n.Lhs.IsVariable && n.Lhs.Text == extraVariable && !n.Rhs.IsVariable {
			return n.Rhs.Text
		}
		// handle the reversed `"test" == extra` spelling
		if n.Op == "==" && n.Rhs.IsVariable && n.Rhs.Text == extraVariable && !n.Lhs.IsVariable {
			return n.Lhs.Text
		}
	case MarkerAnd:
		if v := Extra(n.Left); v != "" {
			return v
		}
		return Extra(n.Right)
	case MarkerOr:
		if v := Extra(n.Left); v != "" {
			return v
		}
		return Extra(n.Right)
	}
	return ""
}

// ParseMarker parses a marker expression into its tree form.
func ParseMarker(input string) (MarkerNode, error) {
	toks, err := tokenizeMarker(input)
	if err != nil {
		return nil, err
	}
	p := &markerParser{toks: toks}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, errors.Errorf("trailing tokens in marker %q", input)
	}
	return node, nil
}

type markerToken struct {
	kind string // "ident", "string", "op", "(", ")"
	text string
}

func tokenizeMarker(input string) ([]markerToken, error) {
	var toks []markerToken
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '(' || c == ')':
			toks = append(toks, markerToken{kind: string(c), text: string(c)})
			i++
		case c == '"' || c == '\'':
			end := strings.IndexByte(input[i+1:], c)
			if end < 0 {
				return nil, errors.Errorf("unterminated string in marker %q", input)
			}
			toks = append(toks, markerToken{kind: "string", text: input[i+1 : i+1+end]})
			i += end + 2
		case strings.ContainsRune("<>=!~", rune(c)):
			j := i
			for j < len(input) && strings.ContainsRune("<>=!~", rune(input[j])) {
				j++
			}
			toks = append(toks, markerToken{kind: "op", text: input[i:j]})
			i = j
		case isIdentByte(c):
			j := i
			for j < len(input) && isIdentByte(input[j]) {
				j++
			}
			toks = append(toks, markerToken{kind: "ident", text: input[i:j]})
			i = j
		default:
			return nil, errors.Errorf("unexpected character %q in marker %q", c, input)
		}
	}
	return toks, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

type markerParser struct {
	toks []markerToken
	pos  int
}

func (p *markerParser) done() bool { return p.pos >= len(p.toks) }

func (p *markerParser) peek() (markerToken, bool) {
	if p.done() {
		return markerToken{}, false
	}
	return p.toks[p.pos], true
}

func (p *markerParser) next() (markerToken, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *markerParser) parseOr() (MarkerNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != "ident" || t.text != "or" {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = MarkerOr{Left: left, Right: right}
	}
}

func (p *markerParser) parseAnd() (MarkerNode, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != "ident" || t.text != "and" {
			return left, nil
		}
		p.pos++
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = MarkerAnd{Left: left, Right: right}
	}
}

func (p *markerParser) parseAtom() (MarkerNode, error) {
	t, ok := p.peek()
	if !ok {
		return nil, errors.New("marker ended unexpectedly")
	}
	if t.kind == "(" {
		p.pos++
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.next(); !ok || closing.kind != ")" {
			return nil, errors.New("unbalanced parenthesis in marker")
		}
		return node, nil
	}
	return p.parseClause()
}

func (p *markerParser) parseClause() (MarkerNode, error) {
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, err := p.parseClauseOp()
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return MarkerClause{Lhs: lhs, Op: op, Rhs: rhs}, nil
}

func (p *markerParser) parseOperand() (MarkerOperand, error) {
	t, ok := p.next()
	if !ok {
		return MarkerOperand{}, errors.New("marker ended before operand")
	}
	switch t.kind {
	case "string":
		return MarkerOperand{Text: t.text}, nil
	case "ident":
		return MarkerOperand{Text: t.text, IsVariable: true}, nil
	}
	return MarkerOperand{}, errors.Errorf("unexpected token %q in marker", t.text)
}

func (p *markerParser) parseClauseOp() (string, error) {
	t, ok := p.next()
	if !ok {
		return "", errors.New("marker ended before operator")
	}
	switch {
	case t.kind == "op":
		return t.text, nil
	case t.kind == "ident" && t.text == "in":
		return "in", nil
	case t.kind == "ident" && t.text == "not":
		if nxt, ok := p.next(); ok && nxt.kind == "ident" && nxt.text == "in" {
			return "not in", nil
		}
		return "", errors.New("expected 'in' after 'not' in marker")
	}
	return "", errors.Errorf("unexpected operator %q in marker", t.text)
}
