// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

package tdop

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Static descriptors used when a table does not register the
// corresponding pseudo symbol itself.
var (
	fallbackName    = &Symbol{Name: NameSymbol, Label: NewLabel("name")}
	fallbackUnknown = &Symbol{Name: UnknownSymbol, Label: NewLabel("unknown symbol")}
	fallbackEnd     = &Symbol{Name: EndSymbol, Label: NewLabel("end")}
)

// Parser drives the precedence-climbing algorithm over one source
// string. It owns exclusive, unsynchronized cursor state: a Parser
// must not be shared across concurrent parses, but any number of
// Parsers may share one finalized SymbolTable.
type Parser struct {
	table   *SymbolTable
	matcher *Matcher

	source string
	src    []rune
	it     *matchIterator

	token     *Token
	nextToken *Token
}

// NewParser returns a parser over a finalized symbol table, using the
// tokenizer synthesized by Finalize.
func NewParser(table *SymbolTable) (*Parser, error) {
	if table == nil || !table.Finalized() {
		return nil, NewError(InvalidArgumentErr, nil,
			"parser instantiation requires a finalized symbol table")
	}
	return &Parser{table: table, matcher: table.Matcher()}, nil
}

// NewParserWithMatcher returns a parser using a custom tokenizer. The
// matcher must follow the engine's capture group layout; a matcher that
// produces matches outside that layout fails the parse with an
// incompatible-tokenizer error.
func NewParserWithMatcher(table *SymbolTable, matcher *Matcher) (*Parser, error) {
	p, err := NewParser(table)
	if err != nil {
		return nil, err
	}
	p.matcher = matcher
	return p, nil
}

// Table returns the parser's symbol table.
func (p *Parser) Table() *SymbolTable {
	return p.table
}

// Source returns the source text of the current parse.
func (p *Parser) Source() string {
	return p.source
}

// Token returns the current token, or nil before the second advance.
func (p *Parser) Token() *Token {
	return p.token
}

// NextToken returns the lookahead token, or nil before the first
// advance.
func (p *Parser) NextToken() *Token {
	return p.nextToken
}

// reset rebinds the parser to a new source string.
func (p *Parser) reset(source string) {
	p.source = source
	p.src = []rune(source)
	p.it = p.matcher.iter(source)
	p.token = nil
	p.nextToken = nil
}

// Parse tokenizes and parses source, returning the root token of the
// expression tree.
func (p *Parser) Parse(source string) (*Token, error) {
	p.reset(source)
	if err := p.Advance(); err != nil {
		return nil, err
	}
	root, err := p.Expression(0)
	if err != nil {
		return nil, err
	}
	if err := p.Advance(EndSymbol); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseValue is the dynamic front door for callers that hold decoded
// input of unknown type: anything but text is rejected.
func (p *Parser) ParseValue(source any) (*Token, error) {
	switch s := source.(type) {
	case string:
		return p.Parse(s)
	case []byte:
		return p.Parse(string(s))
	default:
		return nil, NewError(InvalidSourceTypeErr, nil, "invalid source type %T", source)
	}
}

// Expression is the Pratt core: it parses at the given right binding
// power and returns the subtree. Associativity and unary binding are
// expressed purely through the rbp values the symbol behaviors pass in.
func (p *Parser) Expression(rbp int) (*Token, error) {
	if err := p.Advance(); err != nil {
		return nil, err
	}
	tok := p.token
	left, err := tok.nud(p)
	if err != nil {
		return nil, err
	}
	for p.nextToken != nil && rbp < p.nextToken.LBP() {
		if err := p.Advance(); err != nil {
			return nil, err
		}
		tok = p.token
		left, err = tok.led(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// Advance shifts the lookahead token into the current position and
// scans the next match. With expected symbols given, it first fails
// unless the lookahead is one of them.
func (p *Parser) Advance(expected ...string) error {
	if len(expected) > 0 && p.nextToken != nil &&
		!slices.Contains(expected, p.nextToken.sym.Name) {
		return p.withHint(p.nextToken.WrongSyntax())
	}
	p.token = p.nextToken

	for {
		match, err := p.it.next()
		if err != nil {
			return err
		}
		if match == nil {
			end := len(p.src)
			p.nextToken = newToken(p.endDescriptor(), nil, p.locationAt(end, end), end, end)
			return nil
		}

		group, text := groupText(match)
		start, stop := match.Index, match.Index+match.Length

		switch group {
		case groupLiteral:
			tok, err := p.literalToken(text, start, stop)
			if err != nil {
				return err
			}
			p.nextToken = tok
		case groupSymbol:
			if sym := p.table.lookup(text); sym != nil {
				p.nextToken = newToken(sym, nil, p.locationAt(start, stop), start, stop)
			} else {
				p.nextToken = p.unknownToken(text, start, stop)
			}
		case groupFuncName:
			if sym := p.table.Symbol(text); sym != nil {
				p.nextToken = newToken(sym, nil, p.locationAt(start, stop), start, stop)
			} else {
				p.nextToken = p.nameToken(text, start, stop)
			}
		case groupName:
			p.nextToken = p.nameToken(text, start, stop)
		case groupUnknown:
			p.nextToken = p.unknownToken(text, start, stop)
		default:
			if strings.TrimSpace(match.String()) == "" {
				continue // skipped whitespace
			}
			return NewError(IncompatibleTokenizerErr, p.locationAt(start, stop),
				"incompatible tokenizer with the parser's symbol table")
		}
		return nil
	}
}

// AdvanceUntil repeatedly advances, discarding tokens, until the
// lookahead's symbol is one of the stop symbols or end of source is
// reached.
func (p *Parser) AdvanceUntil(stops ...string) error {
	if len(stops) == 0 {
		return NewError(InvalidArgumentErr, nil, "at least a stop symbol required!")
	}
	if p.nextToken == nil {
		if err := p.Advance(); err != nil {
			return err
		}
	}
	if p.nextToken.sym.Name == EndSymbol {
		return NewError(UnexpectedEOFErr, nil, "source is empty")
	}
	for !slices.Contains(stops, p.nextToken.sym.Name) {
		if p.nextToken.sym.Name == EndSymbol {
			break
		}
		if p.nextToken.sym.Name == UnknownSymbol {
			return p.withHint(NewError(UnknownSymbolErr, p.nextToken.loc,
				"unknown symbol '%s'", UnknownSymbol))
		}
		if err := p.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// Position returns the 1-based (row, column) of the current token, or
// of the lookahead while no token has been consumed yet.
func (p *Parser) Position() (int, int) {
	t := p.token
	if t == nil {
		t = p.nextToken
	}
	if t == nil || t.loc == nil {
		return 1, 0
	}
	return t.loc.Row, t.loc.Col
}

// IsSourceStart reports whether only whitespace precedes the current
// position in the source.
func (p *Parser) IsSourceStart() bool {
	t := p.positionToken()
	if t == nil {
		return true
	}
	for i := 0; i < t.start && i < len(p.src); i++ {
		if !unicode.IsSpace(p.src[i]) {
			return false
		}
	}
	return true
}

// IsLineStart reports whether only whitespace precedes the current
// position on its line.
func (p *Parser) IsLineStart() bool {
	t := p.positionToken()
	if t == nil {
		return true
	}
	for i := t.start - 1; i >= 0 && i < len(p.src); i-- {
		if p.src[i] == '\n' {
			break
		}
		if !unicode.IsSpace(p.src[i]) {
			return false
		}
	}
	return true
}

// IsSpaced reports whether input was skipped immediately before or
// after the current token. It is recomputed from the source on each
// call, never stored.
func (p *Parser) IsSpaced() bool {
	t := p.token
	if t == nil || t.start > len(p.src) || t.end > len(p.src) {
		return false
	}
	if t.start > 0 && unicode.IsSpace(p.src[t.start-1]) {
		return true
	}
	return t.end < len(p.src) && unicode.IsSpace(p.src[t.end])
}

func (p *Parser) positionToken() *Token {
	if p.token != nil {
		return p.token
	}
	return p.nextToken
}

// Unescape strips the outer quotes of a string literal and resolves
// backslash escapes of the quote character and the backslash itself.
func (p *Parser) Unescape(s string) string {
	if len(s) < 2 {
		return s
	}
	quote := string(s[0])
	inner := s[1 : len(s)-1]
	inner = strings.ReplaceAll(inner, `\`+quote, quote)
	return strings.ReplaceAll(inner, `\\`, `\`)
}

func (p *Parser) endDescriptor() *Symbol {
	if s := p.table.Symbol(EndSymbol); s != nil {
		return s
	}
	return fallbackEnd
}

func (p *Parser) nameToken(text string, start, stop int) *Token {
	sym := p.table.Symbol(NameSymbol)
	if sym == nil {
		sym = fallbackName
	}
	return newToken(sym, text, p.locationAt(start, stop), start, stop)
}

func (p *Parser) unknownToken(text string, start, stop int) *Token {
	sym := p.table.Symbol(UnknownSymbol)
	if sym == nil {
		sym = fallbackUnknown
	}
	return newToken(sym, text, p.locationAt(start, stop), start, stop)
}

// literalToken classifies a literal match as string, decimal or integer
// and builds the token from the corresponding registered symbol.
func (p *Parser) literalToken(text string, start, stop int) (*Token, error) {
	var name string
	var value any
	switch {
	case strings.HasPrefix(text, `'`) || strings.HasPrefix(text, `"`):
		name = StringSymbol
		value = p.Unescape(text)
	case strings.ContainsAny(text, ".eE"):
		name = DecimalSymbol
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, NewError(UnknownSymbolErr, p.locationAt(start, stop),
				"invalid literal '%s'", text)
		}
		value = v
	default:
		name = IntegerSymbol
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, NewError(UnknownSymbolErr, p.locationAt(start, stop),
				"invalid literal '%s'", text)
		}
		value = v
	}
	sym := p.table.Symbol(name)
	if sym == nil {
		return nil, NewError(UnknownSymbolErr, p.locationAt(start, stop),
			"unknown symbol '%s'", name)
	}
	return newToken(sym, value, p.locationAt(start, stop), start, stop), nil
}

// locationAt builds a Location for the rune span [start, stop).
func (p *Parser) locationAt(start, stop int) *Location {
	row, col := 1, start+1
	last := -1
	for i := 0; i < start && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			row++
			last = i
		}
	}
	if row > 1 {
		col = start - last
	}
	var text []byte
	if start <= len(p.src) && stop <= len(p.src) {
		text = []byte(string(p.src[start:stop]))
	}
	return NewLocation(text, "", row, col)
}

// withHint decorates unknown-symbol and unexpected-name errors with the
// closest registered symbol name.
func (p *Parser) withHint(e *Error) *Error {
	if e.Hint != "" || (e.Code != UnknownSymbolErr && e.Code != UnexpectedNameErr) {
		return e
	}
	if e.Token == nil {
		return e
	}
	if name, ok := e.Token.Value.(string); ok && name != "" {
		if closest := p.table.closest(name); closest != "" && closest != name {
			e.Hint = fmt.Sprintf("did you mean '%s'?", closest)
		}
	}
	return e
}
