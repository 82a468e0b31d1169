// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package tdop

import (
	"fmt"
	"slices"
	"strings"
)

// Token is a node of the tree built by the parse algorithm. A token
// exclusively owns its children: children are only ever appended during
// parsing, never reattached across subtrees, so the tree is acyclic by
// construction.
type Token struct {
	sym      *Symbol
	label    Label
	Value    any
	children []*Token
	loc      *Location

	// rune offsets of the match in the parsed source
	start, end int
}

func newToken(sym *Symbol, value any, loc *Location, start, end int) *Token {
	return &Token{sym: sym, label: sym.Label, Value: value, loc: loc, start: start, end: end}
}

// NewToken constructs a detached token for a symbol descriptor. Dialect
// code uses it to synthesize tokens outside a parse (e.g. to report an
// invalid literal).
func NewToken(sym *Symbol, value any) *Token {
	return &Token{sym: sym, label: sym.Label, Value: value}
}

// Symbol returns the token's symbol name.
func (t *Token) Symbol() string {
	return t.sym.Name
}

// Descriptor returns the symbol descriptor the token was built from.
func (t *Token) Descriptor() *Symbol {
	return t.sym
}

// LBP returns the symbol's left binding power.
func (t *Token) LBP() int {
	return t.sym.LBP
}

// Label returns the token's role label. For multi-role symbols this is
// the label resolved by the symbol's prefix behavior at parse time, and
// it never changes afterwards.
func (t *Token) Label() Label {
	return t.label
}

// ResolveLabel fixes a multi-role token's effective role. The symbol's
// own prefix behavior calls it exactly once, while parsing its argument
// list; later calls are ignored.
func (t *Token) ResolveLabel(role string) {
	if t.label.IsMulti() && t.sym.Label.Matches(role) {
		t.label = NewLabel(role)
	}
}

// Location returns the token's source span, or nil for detached tokens.
func (t *Token) Location() *Location {
	return t.loc
}

// Append adds children to the token, in order.
func (t *Token) Append(children ...*Token) {
	t.children = append(t.children, children...)
}

// Len returns the number of children.
func (t *Token) Len() int {
	return len(t.children)
}

// Child returns the i-th child.
func (t *Token) Child(i int) *Token {
	return t.children[i]
}

// Children returns a copy of the ordered child list.
func (t *Token) Children() []*Token {
	return slices.Clone(t.children)
}

func (t *Token) String() string {
	switch t.sym.Name {
	case NameSymbol:
		return fmt.Sprintf("'%v' name", t.Value)
	case IntegerSymbol, DecimalSymbol, StringSymbol:
		return fmt.Sprintf("%v literal", t.Value)
	case UnknownSymbol:
		return fmt.Sprintf("'%v' unknown symbol", t.Value)
	default:
		return fmt.Sprintf("'%s' %s", t.sym.Name, t.label)
	}
}

// Source reconstructs a normalized source form of the subtree.
func (t *Token) Source() string {
	switch t.sym.Name {
	case NameSymbol, IntegerSymbol, DecimalSymbol, UnknownSymbol:
		return fmt.Sprintf("%v", t.Value)
	case StringSymbol:
		return fmt.Sprintf("'%v'", t.Value)
	}
	switch len(t.children) {
	case 0:
		return t.sym.Name
	case 1:
		if t.label.Contains("postfix") {
			return fmt.Sprintf("%s %s", t.children[0].Source(), t.sym.Name)
		}
		return fmt.Sprintf("%s %s", t.sym.Name, t.children[0].Source())
	case 2:
		return fmt.Sprintf("%s %s %s", t.children[0].Source(), t.sym.Name, t.children[1].Source())
	default:
		parts := make([]string, 0, len(t.children)+1)
		parts = append(parts, t.sym.Name)
		for _, c := range t.children {
			parts = append(parts, c.Source())
		}
		return strings.Join(parts, " ")
	}
}

// nud invokes the prefix behavior, failing the way the token's kind
// requires when it has none.
func (t *Token) nud(p *Parser) (*Token, error) {
	if t.sym.Nud == nil {
		return nil, p.withHint(t.WrongSyntax())
	}
	return t.sym.Nud(p, t)
}

// led invokes the infix/postfix behavior.
func (t *Token) led(p *Parser, left *Token) (*Token, error) {
	if t.sym.Led == nil {
		return nil, p.withHint(t.WrongSyntax())
	}
	return t.sym.Led(p, t, left)
}

// Evaluate invokes the evaluate behavior against an opaque dialect
// context. Tokens without one evaluate to nil (the empty sequence).
func (t *Token) Evaluate(ctx any) (any, error) {
	if t.sym.Eval == nil {
		return nil, nil
	}
	return t.sym.Eval(t, ctx)
}

// WrongSyntax returns the error raised when the token is found in a
// position it cannot occupy. The message depends on the token's kind.
func (t *Token) WrongSyntax() *Error {
	var code, msg string
	switch t.sym.Name {
	case NameSymbol:
		code, msg = UnexpectedNameErr, fmt.Sprintf("unexpected name '%v'", t.Value)
	case UnknownSymbol:
		code, msg = UnknownSymbolErr, fmt.Sprintf("unknown symbol '%v'", t.Value)
	case IntegerSymbol, DecimalSymbol, StringSymbol:
		code, msg = UnexpectedLiteralErr, fmt.Sprintf("unexpected literal %v", t.Value)
	case InvalidSymbol:
		code, msg = UnknownSymbolErr, fmt.Sprintf("invalid literal '%v'", t.Value)
	case EndSymbol:
		code, msg = UnexpectedEOFErr, "unexpected end of source"
	default:
		code, msg = UnexpectedTokenErr, fmt.Sprintf("unexpected %s", t)
	}
	return &Error{Code: code, Message: msg, Location: t.loc, Token: t}
}

// Unexpected returns a WrongSyntax error unless the token's symbol is
// one of the given alternatives.
func (t *Token) Unexpected(symbols ...string) *Error {
	if slices.Contains(symbols, t.sym.Name) {
		return nil
	}
	return t.WrongSyntax()
}

// WrongArity returns the error for a call with an argument count the
// symbol does not accept, tagged with a dialect diagnostic code.
func (t *Token) WrongArity(diagnostic string, got int) *Error {
	return &Error{
		Code:       WrongArityErr,
		Diagnostic: diagnostic,
		Message:    fmt.Sprintf("%s: got %d arguments", t, got),
		Location:   t.loc,
		Token:      t,
	}
}

// WrongType returns an evaluation error for a value of an inappropriate
// type.
func (t *Token) WrongType(diagnostic string, f string, a ...any) *Error {
	return t.Errorf(InvalidArgumentErr, diagnostic, f, a...)
}

// WrongValue returns an evaluation error for an inappropriate value with
// a valid type.
func (t *Token) WrongValue(diagnostic string, f string, a ...any) *Error {
	return t.Errorf(InvalidArgumentErr, diagnostic, f, a...)
}

// Errorf builds a new error tagged with the token and a dialect
// diagnostic code. It is the error constructor the engine exposes to
// dialect behaviors.
func (t *Token) Errorf(code, diagnostic string, f string, a ...any) *Error {
	return &Error{
		Code:       code,
		Diagnostic: diagnostic,
		Message:    fmt.Sprintf(f, a...),
		Location:   t.loc,
		Token:      t,
	}
}
