// Copyright 2026 The ElementPath Authors
// SPDX-License-Identifier: Apache-2.0

// Package tdop implements a symbol-table-driven Top-Down Operator
// Precedence (Pratt) parsing framework. A dialect declares its closed
// vocabulary on a SymbolTable, registers a descriptor with binding
// powers and behaviors for every symbol, and finalizes the table; the
// table then synthesizes one tokenizer for the whole dialect and hands
// out Parser instances that build Token trees from source text.
//
// A finalized table is immutable and safe to share across any number of
// Parser instances. Parser and Token instances are not safe for
// concurrent use.
package tdop

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/dlclark/regexp2"
)

// Reserved symbol names used by the engine itself. Names wrapped in
// parentheses never appear in the synthesized symbol group; they are
// produced by the literal, name and fallback tokenizer groups.
const (
	EndSymbol     = "(end)"
	NameSymbol    = "(name)"
	IntegerSymbol = "(integer)"
	DecimalSymbol = "(decimal)"
	StringSymbol  = "(string)"
	UnknownSymbol = "(unknown)"
	InvalidSymbol = "(invalid)"
)

// NudFunc is a symbol's prefix behavior: it is invoked with the freshly
// advanced token when the token opens a subexpression, and returns the
// (sub)tree the token produces.
type NudFunc func(p *Parser, t *Token) (*Token, error)

// LedFunc is a symbol's infix/postfix behavior: it is invoked when the
// token continues an expression, receiving the left operand parsed so
// far.
type LedFunc func(p *Parser, t *Token, left *Token) (*Token, error)

// EvalFunc is a symbol's evaluate behavior. The context argument is
// opaque to the engine: dialects pass their own evaluation context (or
// nil) and assert the concrete type themselves.
type EvalFunc func(t *Token, ctx any) (any, error)

// Symbol is the descriptor registered for one name of a dialect's
// vocabulary.
type Symbol struct {
	Name    string
	LBP     int
	RBP     int
	Label   Label
	Pattern string
	Nud     NudFunc
	Led     LedFunc
	Eval    EvalFunc
}

func (s *Symbol) String() string {
	return fmt.Sprintf("'%s' %s", s.Name, s.Label)
}

// isPseudo reports whether the symbol name is matched by the literal,
// name or fallback tokenizer groups rather than the symbol group.
func isPseudo(name string) bool {
	return strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")")
}

// SymbolOption configures a Symbol during registration.
type SymbolOption func(*Symbol)

// BP sets both binding powers.
func BP(bp int) SymbolOption {
	return func(s *Symbol) { s.LBP, s.RBP = bp, bp }
}

// LBP sets the left binding power only.
func LBP(bp int) SymbolOption {
	return func(s *Symbol) { s.LBP = bp }
}

// RBP sets the right binding power only.
func RBP(bp int) SymbolOption {
	return func(s *Symbol) { s.RBP = bp }
}

// Role sets the symbol's label. More than one role string yields a
// multi-role label whose effective role is resolved by the symbol's own
// prefix behavior at parse time.
func Role(roles ...string) SymbolOption {
	return func(s *Symbol) { s.Label = NewLabel(roles...) }
}

// Pattern overrides the tokenizer pattern fragment derived from the
// symbol name.
func Pattern(p string) SymbolOption {
	return func(s *Symbol) { s.Pattern = p }
}

// Nud attaches the prefix behavior.
func Nud(f NudFunc) SymbolOption {
	return func(s *Symbol) { s.Nud = f }
}

// Led attaches the infix/postfix behavior.
func Led(f LedFunc) SymbolOption {
	return func(s *Symbol) { s.Led = f }
}

// Eval attaches the evaluate behavior.
func Eval(f EvalFunc) SymbolOption {
	return func(s *Symbol) { s.Eval = f }
}

var whitespaceInSymbol = regexp.MustCompile(`\s`)

// symbolResolver maps tokenizer symbol-group matches back to symbols
// registered with a pattern that differs from their name.
type symbolResolver struct {
	re  *regexp2.Regexp
	sym *Symbol
}

// SymbolTable is the per-dialect registry mapping symbol names to
// descriptors. A table starts mutable; Finalize validates coverage of
// the declared vocabulary, synthesizes the tokenizer and freezes the
// table for shared read-only use.
type SymbolTable struct {
	declared  map[string]struct{}
	symbols   map[string]*Symbol
	resolvers []symbolResolver
	matcher   *Matcher
	finalized bool
}

// NewSymbolTable returns an empty, unfinalized symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		declared: map[string]struct{}{},
		symbols:  map[string]*Symbol{},
	}
}

// Declare adds names to the closed vocabulary the dialect must cover
// before Finalize succeeds.
func (st *SymbolTable) Declare(names ...string) error {
	if st.finalized {
		return NewError(InvalidArgumentErr, nil, "symbol table is finalized")
	}
	for _, name := range names {
		st.declared[name] = struct{}{}
	}
	return nil
}

// Register inserts or replaces the descriptor for name. Registration of
// an existing name replaces the whole descriptor, which is how dialect
// extensions redefine a symbol's role.
func (st *SymbolTable) Register(name string, opts ...SymbolOption) (*Symbol, error) {
	if st.finalized {
		return nil, NewError(InvalidArgumentErr, nil, "symbol table is finalized")
	}
	if whitespaceInSymbol.MatchString(name) {
		return nil, NewError(MalformedSymbolErr, nil, "a symbol can't contain whitespaces")
	}
	if _, ok := st.declared[name]; !ok {
		return nil, NewError(MalformedSymbolErr, nil, "'%s' is not a symbol of the parser", name)
	}
	s := &Symbol{Name: name, Label: NewLabel("symbol")}
	for _, opt := range opts {
		opt(s)
	}
	if s.Pattern != "" && whitespaceInSymbol.MatchString(s.Pattern) {
		return nil, NewError(MalformedSymbolErr, nil, "a symbol can't contain whitespaces")
	}
	st.symbols[name] = s
	return s, nil
}

// MustRegister is like Register but panics on failure. Dialect modules
// use it for their static vocabulary.
func (st *SymbolTable) MustRegister(name string, opts ...SymbolOption) *Symbol {
	s, err := st.Register(name, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Unregister removes the descriptor for name. It is used when a later
// dialect version must redefine a name's whole role.
func (st *SymbolTable) Unregister(name string) error {
	if st.finalized {
		return NewError(InvalidArgumentErr, nil, "symbol table is finalized")
	}
	if _, ok := st.symbols[name]; !ok {
		return NewError(MalformedSymbolErr, nil, "'%s' is not registered", name)
	}
	delete(st.symbols, name)
	return nil
}

// Finalize validates that every declared name is registered, synthesizes
// the tokenizer and freezes the table. Parser instantiation is refused
// until Finalize succeeds.
func (st *SymbolTable) Finalize() error {
	if st.finalized {
		return nil
	}

	var missing []string
	for name := range st.declared {
		if _, ok := st.symbols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		quoted := make([]string, len(missing))
		for i, name := range missing {
			quoted[i] = "'" + name + "'"
		}
		return NewError(IncompleteTableErr, nil,
			"unregistered symbols: [%s]", strings.Join(quoted, ", "))
	}
	if _, ok := st.symbols[EndSymbol]; !ok {
		return NewError(IncompleteTableErr, nil,
			"unregistered symbols: ['%s']", EndSymbol)
	}

	m, err := buildMatcher(st)
	if err != nil {
		return err
	}
	st.matcher = m

	// Reverse resolvers for symbols registered with a pattern whose
	// matched text may differ from the symbol name.
	for _, s := range st.sorted() {
		if isPseudo(s.Name) || s.Pattern == "" {
			continue
		}
		re, err := regexp2.Compile(`\A(?:`+s.Pattern+`)\z`, regexp2.None)
		if err != nil {
			return NewError(TokenizerBuildErr, nil,
				"pattern of symbol '%s' does not compile: %v", s.Name, err)
		}
		st.resolvers = append(st.resolvers, symbolResolver{re: re, sym: s})
	}

	st.finalized = true
	return nil
}

// Finalized reports whether the table has been frozen.
func (st *SymbolTable) Finalized() bool {
	return st.finalized
}

// Matcher returns the tokenizer synthesized by Finalize, or nil.
func (st *SymbolTable) Matcher() *Matcher {
	return st.matcher
}

// Symbol returns the descriptor registered for name, or nil.
func (st *SymbolTable) Symbol(name string) *Symbol {
	return st.symbols[name]
}

// Symbols returns the registered descriptors sorted by name.
func (st *SymbolTable) Symbols() []*Symbol {
	return st.sorted()
}

func (st *SymbolTable) sorted() []*Symbol {
	out := make([]*Symbol, 0, len(st.symbols))
	for _, s := range st.symbols {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Symbol) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// lookup resolves the text matched by the tokenizer's symbol group to a
// registered descriptor.
func (st *SymbolTable) lookup(text string) *Symbol {
	if s, ok := st.symbols[text]; ok {
		return s
	}
	for _, r := range st.resolvers {
		if ok, err := r.re.MatchString(text); err == nil && ok {
			return r.sym
		}
	}
	return nil
}

// closest returns the registered symbol name nearest to name within a
// small edit distance, for "did you mean" hints on unknown symbols.
func (st *SymbolTable) closest(name string) string {
	const maxDistance = 2
	best, bestDist := "", maxDistance+1
	for _, s := range st.sorted() {
		if isPseudo(s.Name) {
			continue
		}
		if d := levenshtein.ComputeDistance(name, s.Name); d < bestDist {
			best, bestDist = s.Name, d
		}
	}
	return best
}

// Literal registers name as a literal: its prefix behavior returns the
// token itself and its evaluate behavior returns the token's value.
func (st *SymbolTable) Literal(name string, opts ...SymbolOption) (*Symbol, error) {
	base := []SymbolOption{
		Role("literal"),
		Nud(func(_ *Parser, t *Token) (*Token, error) { return t, nil }),
		Eval(func(t *Token, _ any) (any, error) { return t.Value, nil }),
	}
	return st.Register(name, append(base, opts...)...)
}

// Prefix registers name as a prefix operator binding one operand parsed
// at the symbol's own right binding power.
func (st *SymbolTable) Prefix(name string, bp int, opts ...SymbolOption) (*Symbol, error) {
	base := []SymbolOption{
		BP(bp),
		Role("operator"),
		Nud(func(p *Parser, t *Token) (*Token, error) {
			operand, err := p.Expression(t.sym.RBP)
			if err != nil {
				return nil, err
			}
			t.Append(operand)
			return t, nil
		}),
	}
	return st.Register(name, append(base, opts...)...)
}

// Infix registers name as a left-associative binary operator.
func (st *SymbolTable) Infix(name string, bp int, opts ...SymbolOption) (*Symbol, error) {
	base := []SymbolOption{
		BP(bp),
		Role("operator"),
		Led(func(p *Parser, t *Token, left *Token) (*Token, error) {
			right, err := p.Expression(t.sym.LBP)
			if err != nil {
				return nil, err
			}
			t.Append(left, right)
			return t, nil
		}),
	}
	return st.Register(name, append(base, opts...)...)
}

// Infixr registers name as a right-associative binary operator: the
// right operand is parsed at lbp-1, grouping right to left.
func (st *SymbolTable) Infixr(name string, bp int, opts ...SymbolOption) (*Symbol, error) {
	base := []SymbolOption{
		LBP(bp),
		RBP(bp - 1),
		Role("operator"),
		Led(func(p *Parser, t *Token, left *Token) (*Token, error) {
			right, err := p.Expression(t.sym.LBP - 1)
			if err != nil {
				return nil, err
			}
			t.Append(left, right)
			return t, nil
		}),
	}
	return st.Register(name, append(base, opts...)...)
}

// Postfix registers name as a postfix operator: its infix behavior takes
// no further operand.
func (st *SymbolTable) Postfix(name string, bp int, opts ...SymbolOption) (*Symbol, error) {
	base := []SymbolOption{
		BP(bp),
		Role("postfix operator"),
		Led(func(_ *Parser, t *Token, left *Token) (*Token, error) {
			t.Append(left)
			return t, nil
		}),
	}
	return st.Register(name, append(base, opts...)...)
}
